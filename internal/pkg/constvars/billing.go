package constvars

const (
	MongoCollectionBatches    = "lotes"
	MongoCollectionBatchItems = "lote_itens"
)

const (
	// %s is the batch ID
	RedisKeyClaimIndexFormat = "billing:batch:%s:claim-index"
	// %s/%s are the batch ID and target ID
	RedisKeyTransitionLockFormat = "billing:lock:%s:%s"
)

const (
	// batches/{batchID}/{targetKind}/{targetID}/
	AttachmentObjectPrefixFormat = "batches/%s/%s/%s/"
)

const (
	// %s is the batch ID
	BatchReportFileNameFormat = "lote_%s.xlsx"
)

const (
	BillingEventStatusChanged = "billing_status_changed"
)

// Collaborator names used in user-visible upstream errors.
const (
	CollaboratorBatchRepository = "batch repository"
	CollaboratorCaseManagement  = "dispute case management"
	CollaboratorDocumentStorage = "document storage"
	CollaboratorCache           = "cache"
)

const (
	GlosasResourceCases = "/recursos-glosas"
)
