package database

import (
	"context"
	"fmt"
	"log"
	"oncobilling-service/internal/app/config"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

// NewRedisClient connects to the Redis instance shared by the claim-number
// index cache and the status transition locks.
func NewRedisClient(driverConfig *config.DriverConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%s", driverConfig.Redis.Host, driverConfig.Redis.Port),
		Password:   driverConfig.Redis.Password,
		DB:         driverConfig.Redis.DB,
		PoolSize:   driverConfig.Redis.PoolSize,
		ClientName: "oncobilling-service",
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	log.Printf("Successfully connected to redis db %d", driverConfig.Redis.DB)

	return rdb
}
