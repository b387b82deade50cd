package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingRequestKey            = "request"
	LoggingResponseKey           = "response"
	LoggingEndpointKey           = "endpoint"
	LoggingMethodKey             = "method"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingErrorTypeKey          = "error_type"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingQueueNameKey          = "queue_name"
	LoggingBucketNameKey         = "bucket_name"
	LoggingObjectNameKey         = "object_name"

	LoggingBatchIDKey        = "batch_id"
	LoggingClaimIDKey        = "claim_id"
	LoggingClaimNumberKey    = "claim_number"
	LoggingItemIDKey         = "item_id"
	LoggingParentIDKey       = "parent_id"
	LoggingTargetKindKey     = "target_kind"
	LoggingTargetIDKey       = "target_id"
	LoggingPreviousStatusKey = "previous_status"
	LoggingNewStatusKey      = "new_status"
	LoggingDisputeIDKey      = "dispute_id"
	LoggingClaimCountKey     = "claim_count"
	LoggingItemCountKey      = "item_count"
	LoggingOrphanCountKey    = "orphan_count"
	LoggingMissingFieldsKey  = "missing_fields"
)
