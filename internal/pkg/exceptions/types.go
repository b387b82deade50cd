package exceptions

import (
	"fmt"
	"oncobilling-service/internal/pkg/constvars"
	"strings"
)

var (
	// Billing core
	ErrClaimNotFound = func(claimNumber string) *CustomError {
		return buildWithKind(nil, KindNotFound, constvars.StatusNotFound,
			fmt.Sprintf(constvars.ErrClientClaimNotFound, claimNumber),
			fmt.Sprintf(constvars.ErrDevClaimNotFound, claimNumber))
	}
	ErrClaimIDNotFound = func(batchID, claimID string) *CustomError {
		return buildWithKind(nil, KindNotFound, constvars.StatusNotFound,
			fmt.Sprintf(constvars.ErrClientClaimIDNotFound, claimID, batchID),
			fmt.Sprintf(constvars.ErrDevClaimIDNotFound, claimID, batchID))
	}
	ErrItemNotFound = func(batchID, itemID string) *CustomError {
		return buildWithKind(nil, KindNotFound, constvars.StatusNotFound,
			fmt.Sprintf(constvars.ErrClientItemNotFound, itemID, batchID),
			fmt.Sprintf(constvars.ErrDevItemNotFound, itemID, batchID))
	}
	ErrClaimNumberMismatch = func(claimID, claimNumber, resolvedClaimID string) *CustomError {
		return buildWithKind(nil, KindAmbiguousContext, constvars.StatusUnprocessableEntity,
			fmt.Sprintf(constvars.ErrClientClaimNumberMismatch, claimID, claimNumber),
			fmt.Sprintf(constvars.ErrDevClaimNumberMismatch, claimID, claimNumber, resolvedClaimID))
	}
	ErrItemNotInClaim = func(itemID, claimNumber string) *CustomError {
		return buildWithKind(nil, KindNotFound, constvars.StatusNotFound,
			fmt.Sprintf(constvars.ErrClientItemNotInClaim, itemID, claimNumber),
			fmt.Sprintf(constvars.ErrDevItemNotInClaim, itemID, claimNumber))
	}
	ErrBatchNotFound = func(batchID string) *CustomError {
		return buildWithKind(nil, KindNotFound, constvars.StatusNotFound,
			fmt.Sprintf(constvars.ErrClientBatchNotFound, batchID),
			fmt.Sprintf(constvars.ErrDevBatchNotFound, batchID))
	}
	ErrBillingFileNotFound = func(batchID string) *CustomError {
		return buildWithKind(nil, KindNotFound, constvars.StatusNotFound,
			fmt.Sprintf(constvars.ErrClientBillingFileNotFound, batchID),
			fmt.Sprintf(constvars.ErrDevBillingFileNotFound, batchID))
	}
	ErrBatchSnapshotUnresolvable = func(batchID string, missingFields []string) *CustomError {
		fields := strings.Join(missingFields, ", ")
		return buildWithKind(nil, KindAmbiguousContext, constvars.StatusUnprocessableEntity,
			fmt.Sprintf(constvars.ErrClientBatchSnapshotUnresolvable, fields, batchID),
			fmt.Sprintf(constvars.ErrDevBatchSnapshotUnresolvable, batchID, fields))
	}
	ErrInvalidTransition = func(from, to, reason string) *CustomError {
		return buildWithKind(nil, KindInvalidTransition, constvars.StatusConflict,
			fmt.Sprintf(constvars.ErrClientInvalidTransition, from, to, reason),
			fmt.Sprintf(constvars.ErrDevInvalidTransition, from, to, reason))
	}
	ErrAttachmentRequired = func(targetID string) *CustomError {
		return buildWithKind(nil, KindInvalidTransition, constvars.StatusConflict,
			fmt.Sprintf(constvars.ErrClientAttachmentRequired, targetID),
			fmt.Sprintf(constvars.ErrDevAttachmentRequired, targetID))
	}
	ErrConcurrentStatusChange = func(targetID string) *CustomError {
		return buildWithKind(nil, KindInvalidTransition, constvars.StatusConflict,
			fmt.Sprintf(constvars.ErrClientConcurrentStatusChange, targetID),
			fmt.Sprintf(constvars.ErrDevConcurrentStatusChange, targetID))
	}
	ErrUpstreamUnavailable = func(err error, collaborator string) *CustomError {
		return buildWithKind(err, KindUpstreamUnavailable, constvars.StatusBadGateway,
			fmt.Sprintf(constvars.ErrClientUpstreamUnavailable, collaborator),
			fmt.Sprintf(constvars.ErrDevUpstreamUnavailable, collaborator))
	}

	// Request handling
	ErrURLParamIDValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamIDValidationFailed, paramName))
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotParseMultipartForm = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseMultipartForm)
	}
	ErrFileTooLarge = func(maxSizeInMB int64) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, fmt.Sprintf(constvars.ErrClientFileTooLarge, maxSizeInMB), constvars.ErrDevFileTooLarge)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevMissingRequestID)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevServerProcess)
	}

	// Mongo DB
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return ErrUpstreamUnavailable(fmt.Errorf("%s: %w", constvars.ErrDevDBFailedToFindDocument, err), constvars.CollaboratorBatchRepository)
	}
	ErrMongoDBDecodeDocument = func(err error) *CustomError {
		return ErrUpstreamUnavailable(fmt.Errorf("%s: %w", constvars.ErrDevDBFailedToDecodeDocument, err), constvars.CollaboratorBatchRepository)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return ErrUpstreamUnavailable(fmt.Errorf("%s: %w", constvars.ErrDevDBFailedToUpdateDocument, err), constvars.CollaboratorBatchRepository)
	}

	// Minio
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return ErrUpstreamUnavailable(fmt.Errorf(constvars.ErrDevMinioFailedToCreateObject+": %w", bucketName, err), constvars.CollaboratorDocumentStorage)
	}
	ErrMinioListObjects = func(err error, bucketName string) *CustomError {
		return ErrUpstreamUnavailable(fmt.Errorf(constvars.ErrDevMinioFailedToListObjects+": %w", bucketName, err), constvars.CollaboratorDocumentStorage)
	}
	ErrMinioGetObject = func(err error, bucketName string) *CustomError {
		return ErrUpstreamUnavailable(fmt.Errorf(constvars.ErrDevMinioFailedToGetObject+": %w", bucketName, err), constvars.CollaboratorDocumentStorage)
	}

	// Redis
	ErrRedisGetNoData = func(err error, redisKey string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRedisGetNoData, redisKey))
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}
	ErrTargetLocked = func(targetID string) *CustomError {
		return buildWithKind(nil, KindInvalidTransition, constvars.StatusConflict,
			fmt.Sprintf(constvars.ErrClientTargetLocked, targetID),
			fmt.Sprintf(constvars.ErrDevTargetLocked, targetID))
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}

	// HTTP
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCreateHTTPRequest)
	}
	ErrSendHTTPRequest = func(err error, collaborator string) *CustomError {
		return ErrUpstreamUnavailable(fmt.Errorf("%s: %w", constvars.ErrDevSendHTTPRequest, err), collaborator)
	}
	ErrDecodeResponse = func(err error, collaborator string) *CustomError {
		return ErrUpstreamUnavailable(fmt.Errorf("%s: %w", constvars.ErrDevDecodeResponse, err), collaborator)
	}
	ErrUnexpectedResponse = func(statusCode int, body, collaborator string) *CustomError {
		return ErrUpstreamUnavailable(fmt.Errorf(constvars.ErrDevUnexpectedResponse, statusCode, body), collaborator)
	}
)
