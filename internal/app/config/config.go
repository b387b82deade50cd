package config

import (
	"oncobilling-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:                    utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:                    utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:                  utils.GetEnvString("MONGODB_DB_NAME", "faturamento"),
			Username:                utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password:                utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
			AuthSource:              utils.GetEnvString("MONGODB_AUTH_SOURCE", "admin"),
			ConnectTimeoutInSeconds: utils.GetEnvInt("MONGODB_CONNECT_TIMEOUT_IN_SECONDS", 10),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
			PoolSize: utils.GetEnvInt("REDIS_POOL_SIZE", 10),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:        utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:        utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username:    utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password:    utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
			VirtualHost: utils.GetEnvString("RABBITMQ_VHOST", ""),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", "8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "America/Sao_Paulo"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 1),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 12),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 15),
		},
		Billing: Billing{
			ClaimIndexTTLInMinutes:      utils.GetEnvInt("BILLING_CLAIM_INDEX_TTL_IN_MINUTES", 30),
			TransitionLockTTLInSeconds:  utils.GetEnvInt("BILLING_TRANSITION_LOCK_TTL_IN_SECONDS", 30),
			AttachmentMaxUploadSizeInMB: utils.GetEnvInt64("BILLING_ATTACHMENT_MAX_UPLOAD_SIZE_IN_MB", 10),
			AttachmentBucketName:        utils.GetEnvString("BILLING_ATTACHMENT_BUCKET_NAME", "faturamento-anexos"),
			BillingFileBucketName:       utils.GetEnvString("BILLING_FILE_BUCKET_NAME", "faturamento-xml"),
			EventQueueName:              utils.GetEnvString("BILLING_EVENT_QUEUE_NAME", "billing.status-changed"),
		},
		Glosas: Glosas{
			BaseUrl:              utils.GetEnvString("GLOSAS_BASE_URL", "http://localhost:8090/api/v1"),
			HTTPTimeoutInSeconds: utils.GetEnvInt("GLOSAS_HTTP_TIMEOUT_IN_SECONDS", 10),
		},
	}
}
