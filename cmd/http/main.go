package main

import (
	"context"
	"fmt"
	"net/http"
	"oncobilling-service/internal/app/config"
	"oncobilling-service/internal/app/delivery/http/controllers"
	"oncobilling-service/internal/app/delivery/http/middlewares"
	"oncobilling-service/internal/app/delivery/http/routers"
	"oncobilling-service/internal/app/drivers/database"
	"oncobilling-service/internal/app/drivers/logger"
	"oncobilling-service/internal/app/drivers/messaging"
	"oncobilling-service/internal/app/drivers/storage"
	"oncobilling-service/internal/app/services/billing/aggregation"
	"oncobilling-service/internal/app/services/billing/classification"
	"oncobilling-service/internal/app/services/billing/hierarchy"
	"oncobilling-service/internal/app/services/core/batches"
	"oncobilling-service/internal/app/services/glosas"
	"oncobilling-service/internal/app/services/shared/eventqueue"
	"oncobilling-service/internal/app/services/shared/locker"
	"oncobilling-service/internal/app/services/shared/redis"
	sharedStorage "oncobilling-service/internal/app/services/shared/storage"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(
		driverConfig,
		internalConfig.Billing.AttachmentBucketName,
		internalConfig.Billing.BillingFileBucketName,
	)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Minio:          minioClient,
		Logger:         log,
		RabbitMQ:       rabbitMQ,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	eventQueue, err := bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", internalConfig.App.Port),
		Handler: chiRouter,
	}

	go func() {
		log.Info("Server started", zap.String("port", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	err = eventQueue.Close()
	if err != nil {
		log.Error("Failed to close event queue channel", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Failed to close drivers", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap) (*eventqueue.Service, error) {
	billingConfig := bootstrap.InternalConfig.Billing

	// Shared infrastructure
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	documentStorage := sharedStorage.NewMinioStorage(
		bootstrap.Minio,
		billingConfig.AttachmentBucketName,
		billingConfig.BillingFileBucketName,
		bootstrap.Logger,
	)
	eventQueue, err := eventqueue.NewService(bootstrap.RabbitMQ, bootstrap.Logger, billingConfig.EventQueueName)
	if err != nil {
		return nil, err
	}

	// Case management
	disputeCaseClient := glosas.NewDisputeCaseClient(
		bootstrap.InternalConfig.Glosas.BaseUrl,
		time.Duration(bootstrap.InternalConfig.Glosas.HTTPTimeoutInSeconds)*time.Second,
		bootstrap.Logger,
	)

	// Billing core
	reconstructor := hierarchy.NewReconstructor(
		classification.NewDefaultClassifier(),
		aggregation.NewAggregator(),
		bootstrap.Logger,
	)

	// Batches
	batchRepository := batches.NewBatchMongoRepository(bootstrap.MongoDB, bootstrap.Logger)
	hierarchyCache := batches.NewHierarchyRedisCache(
		redisRepository,
		time.Duration(billingConfig.ClaimIndexTTLInMinutes)*time.Minute,
	)
	batchUsecase := batches.NewBatchUsecase(
		batchRepository,
		hierarchyCache,
		lockerService,
		documentStorage,
		disputeCaseClient,
		eventQueue,
		reconstructor,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	batchController := controllers.NewBatchController(bootstrap.Logger, batchUsecase, bootstrap.InternalConfig)

	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, batchController)
	return eventQueue, nil
}
