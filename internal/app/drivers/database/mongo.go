package database

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"oncobilling-service/internal/app/config"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoDB connects to the billing database holding the batch and item
// collections.
func NewMongoDB(driverConfig *config.DriverConfig) *mongo.Database {
	connectionString := fmt.Sprintf(
		"mongodb://%s:%s@%s:%s/?authSource=%s",
		url.QueryEscape(driverConfig.MongoDB.Username),
		url.QueryEscape(driverConfig.MongoDB.Password),
		driverConfig.MongoDB.Host,
		driverConfig.MongoDB.Port,
		driverConfig.MongoDB.AuthSource,
	)
	connectTimeout := time.Duration(driverConfig.MongoDB.ConnectTimeoutInSeconds) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	dbOptions := options.Client().
		ApplyURI(connectionString).
		SetConnectTimeout(connectTimeout).
		SetAppName("oncobilling-service")
	client, err := mongo.Connect(ctx, dbOptions)
	if err != nil {
		log.Fatalf("Failed to connect to mongo database: %s", err.Error())
	}
	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatalf("Failed to ping or test the connection to mongo database: %s", err.Error())
	}
	log.Println("Successfully connected to mongo database")
	return client.Database(driverConfig.MongoDB.DbName)
}
