package storage

import (
	"context"
	"fmt"
	"log"
	"oncobilling-service/internal/app/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinio creates the client and makes sure every bucket the service writes
// to exists.
func NewMinio(driverConfig *config.DriverConfig, buckets ...string) *minio.Client {
	endPoint := fmt.Sprintf("%s:%s", driverConfig.Minio.Host, driverConfig.Minio.Port)
	minioClient, err := minio.New(endPoint, &minio.Options{
		Creds:  credentials.NewStaticV4(driverConfig.Minio.Username, driverConfig.Minio.Password, ""),
		Secure: driverConfig.Minio.UseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Minio Client: %s", err.Error())
	}

	ctx := context.Background()
	for _, bucket := range buckets {
		exists, err := minioClient.BucketExists(ctx, bucket)
		if err != nil {
			log.Fatalf("Failed to check minio bucket %s: %s", bucket, err.Error())
		}
		if exists {
			continue
		}
		if err := minioClient.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			log.Fatalf("Failed to create minio bucket %s: %s", bucket, err.Error())
		}
		log.Printf("Created minio bucket %s", bucket)
	}

	log.Println("Successfully connected to minio")
	return minioClient
}
