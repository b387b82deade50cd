package config

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}
	// MongoDB points at the billing database that holds the lotes and
	// lote_itens collections.
	MongoDB struct {
		Port                    string
		Host                    string
		Username                string
		Password                string
		DbName                  string
		AuthSource              string
		ConnectTimeoutInSeconds int
	}
	// Redis backs the claim-number index cache and the transition locks.
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
		PoolSize int
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Port        string
		Host        string
		Username    string
		Password    string
		VirtualHost string
	}
	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}
)
