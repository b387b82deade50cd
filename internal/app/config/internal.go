package config

type InternalConfig struct {
	App     App     `mapstructure:"app"`
	Billing Billing `mapstructure:"billing"`
	Glosas  Glosas  `mapstructure:"glosas"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	Address                    string `mapstructure:"address"`
	Timezone                   string `mapstructure:"timezone"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	MaxRequests                int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	MaxTimeRequestsPerSeconds  int    `mapstructure:"max_time_requests_per_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
	RequestTimeoutInSeconds    int    `mapstructure:"request_timeout_in_seconds"`
}

type Billing struct {
	ClaimIndexTTLInMinutes      int    `mapstructure:"claim_index_ttl_in_minutes"`
	TransitionLockTTLInSeconds  int    `mapstructure:"transition_lock_ttl_in_seconds"`
	AttachmentMaxUploadSizeInMB int64  `mapstructure:"attachment_max_upload_size_in_mb"`
	AttachmentBucketName        string `mapstructure:"attachment_bucket_name"`
	BillingFileBucketName       string `mapstructure:"billing_file_bucket_name"`
	EventQueueName              string `mapstructure:"event_queue_name"`
}

// Glosas configures the dispute case-management service client.
type Glosas struct {
	BaseUrl              string `mapstructure:"base_url"`
	HTTPTimeoutInSeconds int    `mapstructure:"http_timeout_in_seconds"`
}
