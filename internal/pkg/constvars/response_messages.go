package constvars

const (
	ResponseUnknown = "unknown"

	GetBatchClaimsSuccessMessage   = "get batch claims successfully"
	GetBatchSummarySuccessMessage  = "get batch summary successfully"
	ReconcileBatchSuccessMessage   = "batch reconciled successfully"
	ResolveClaimSuccessMessage     = "claim resolved successfully"
	TransitionStatusSuccessMessage = "payment status changed successfully"
	UploadAttachmentSuccessMessage = "supporting document uploaded successfully"
	ListAttachmentsSuccessMessage  = "get supporting documents successfully"
	GetDisputeSuccessMessage       = "get dispute successfully"
	GetDisputeNotFoundMessage      = "claim has no dispute"
	HealthCheckSuccessMessage      = "service is healthy"
)
