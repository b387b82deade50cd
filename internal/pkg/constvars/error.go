package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":        "is required",
	"alphanum":        "must contain only alphanumeric characters",
	"min":             "must be at least %s characters long",
	"max":             "maximum at %s characters long",
	"numeric":         "must be a number",
	"len":             "must be %s characters long",
	"oneof":           "must be one of [%s]",
	"eqfield":         "must match %s",
	"required_if":     "is required when %s is %s",
	"required_unless": "is required unless %s is %s",
	"competencia":     "must be a billing period in the YYYYMM format",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":             true,
	"max":             true,
	"len":             true,
	"oneof":           true,
	"eqfield":         true,
	"required_if":     true,
	"required_unless": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientFileTooLarge                  = "file is larger than the %d MB limit"

	ErrClientClaimNotFound             = "claim number %q was not found in this batch"
	ErrClientClaimIDNotFound           = "claim %s was not found in batch %s"
	ErrClientItemNotFound              = "item %s was not found in batch %s"
	ErrClientClaimNumberMismatch       = "claim %s does not carry claim number %q"
	ErrClientItemNotInClaim            = "item %s does not belong to claim %q"
	ErrClientBatchNotFound             = "batch %s was not found"
	ErrClientBillingFileNotFound       = "batch %s has no original billing file"
	ErrClientBatchSnapshotUnresolvable = "could not determine %s for batch %s, the dispute was not opened"
	ErrClientInvalidTransition         = "cannot change status from %s to %s: %s"
	ErrClientAttachmentRequired        = "attach at least one supporting document to %s before marking it as paid"
	ErrClientConcurrentStatusChange    = "status of %s was changed by someone else, reload the batch and try again"
	ErrClientTargetLocked              = "another status change for %s is in progress, try again shortly"
	ErrClientUpstreamUnavailable       = "%s is unavailable, try again later"
)

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevValidationFailed           = "validation failed"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevCannotParseMultipartForm   = "cannot parse multipart form"
	ErrDevFileTooLarge               = "uploaded file exceeds the configured limit"
	ErrDevMissingRequestID           = "request ID missing from context"
	ErrDevURLParamIDValidationFailed = "URL param %s validation failed"
	ErrDevServerDeadlineExceeded     = "deadline exceeded"
	ErrDevServerProcess              = "server failed to process the request"
	ErrDevCreateHTTPRequest          = "failed to create HTTP request"
	ErrDevSendHTTPRequest            = "failed to send HTTP request"
	ErrDevDecodeResponse             = "failed to decode response body"
	ErrDevUnexpectedResponse         = "unexpected response status %d: %s"
	ErrDevClaimNotFound              = "claim number %q not found in claim index nor in refetched item list"
	ErrDevClaimIDNotFound            = "claim header %s not found in batch %s"
	ErrDevItemNotFound               = "item %s not found in batch %s"
	ErrDevClaimNumberMismatch        = "claim %s resolved from number %q is a different claim (%s)"
	ErrDevItemNotInClaim             = "item %s parent does not match claim %q"
	ErrDevBatchNotFound              = "batch %s not found"
	ErrDevBillingFileNotFound        = "batch %s has no billing file key"
	ErrDevBatchSnapshotUnresolvable  = "batch %s snapshot unresolvable after fallback chain, missing: %s"
	ErrDevInvalidTransition          = "invalid payment status transition %s -> %s: %s"
	ErrDevAttachmentRequired         = "target %s has zero attachments"
	ErrDevConcurrentStatusChange     = "conditional status update on %s matched no document"
	ErrDevTargetLocked               = "transition lock for %s already held"
	ErrDevUpstreamUnavailable        = "%s unavailable"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToDecodeDocument   = "failed to decode document from database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevMinioFailedToCreateObject  = "failed to create object in bucket %s"
	ErrDevMinioFailedToListObjects   = "failed to list objects in bucket %s"
	ErrDevMinioFailedToGetObject     = "failed to get object from bucket %s"
	ErrDevRedisGetNoData             = "failed to get data from redis with key %s"
	ErrDevRedisDeleteData            = "failed to delete data from redis"
	ErrDevRedisSetData               = "failed to set data into redis"
	ErrDevRedisUnlock                = "failed to release redis lock"
	ErrDevRabbitMQPublishMessage     = "failed to publish message to queue %s"
)

const (
	ErrFileLocationUnknown = "file location unknown"
	ErrFunctionNameUnknown = "function name unknown"
)
