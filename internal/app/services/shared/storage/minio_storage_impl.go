package storage

import (
	"context"
	"io"
	"mime/multipart"
	"oncobilling-service/internal/app/contracts"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/exceptions"
	"oncobilling-service/internal/pkg/utils"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	metadataOriginalName = "Original-Name"
	minioNoSuchKey       = "NoSuchKey"
)

type minioStorage struct {
	MinioClient           *minio.Client
	AttachmentBucketName  string
	BillingFileBucketName string
	Log                   *zap.Logger
}

func NewMinioStorage(minioClient *minio.Client, attachmentBucketName, billingFileBucketName string, logger *zap.Logger) contracts.DocumentStorage {
	return &minioStorage{
		MinioClient:           minioClient,
		AttachmentBucketName:  attachmentBucketName,
		BillingFileBucketName: billingFileBucketName,
		Log:                   logger,
	}
}

func (m *minioStorage) UploadAttachment(ctx context.Context, objectPrefix string, file io.Reader, fileHeader *multipart.FileHeader) (*models.Attachment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	objectName := utils.GenerateAttachmentObjectName(objectPrefix, fileHeader.Filename)
	contentType := fileHeader.Header.Get(constvars.HeaderContentType)
	if contentType == "" {
		contentType = constvars.MIMEOctetStream
	}

	m.Log.Info("minioStorage.UploadAttachment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketNameKey, m.AttachmentBucketName),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)

	info, err := m.MinioClient.PutObject(ctx, m.AttachmentBucketName, objectName, file, fileHeader.Size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{metadataOriginalName: path.Base(fileHeader.Filename)},
	})
	if err != nil {
		m.Log.Error("minioStorage.UploadAttachment error calling PutObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrMinioCreateObject(err, m.AttachmentBucketName)
	}

	uploadedAt := info.LastModified
	attachment := &models.Attachment{
		ObjectName:   objectName,
		OriginalName: path.Base(fileHeader.Filename),
		ContentType:  contentType,
		Size:         info.Size,
	}
	if !uploadedAt.IsZero() {
		attachment.UploadedAt = &uploadedAt
	}
	return attachment, nil
}

func (m *minioStorage) ListAttachments(ctx context.Context, objectPrefix string) ([]models.Attachment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("minioStorage.ListAttachments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectPrefix),
	)

	attachments := []models.Attachment{}
	objects := m.MinioClient.ListObjects(ctx, m.AttachmentBucketName, minio.ListObjectsOptions{
		Prefix:       objectPrefix,
		Recursive:    true,
		WithMetadata: true,
	})
	for object := range objects {
		if object.Err != nil {
			m.Log.Error("minioStorage.ListAttachments error listing objects",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(object.Err),
			)
			return nil, exceptions.ErrMinioListObjects(object.Err, m.AttachmentBucketName)
		}
		if strings.HasSuffix(object.Key, "/") {
			continue
		}

		lastModified := object.LastModified
		originalName := object.UserMetadata["X-Amz-Meta-"+metadataOriginalName]
		if originalName == "" {
			originalName = path.Base(object.Key)
		}
		attachments = append(attachments, models.Attachment{
			ObjectName:   object.Key,
			OriginalName: originalName,
			ContentType:  object.ContentType,
			Size:         object.Size,
			UploadedAt:   &lastModified,
		})
	}
	return attachments, nil
}

func (m *minioStorage) CountAttachments(ctx context.Context, objectPrefix string) (int, error) {
	attachments, err := m.ListAttachments(ctx, objectPrefix)
	if err != nil {
		return 0, err
	}
	return len(attachments), nil
}

func (m *minioStorage) GetBillingFile(ctx context.Context, objectName string) (io.ReadCloser, *models.StoredFile, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("minioStorage.GetBillingFile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketNameKey, m.BillingFileBucketName),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)

	object, err := m.MinioClient.GetObject(ctx, m.BillingFileBucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, exceptions.ErrMinioGetObject(err, m.BillingFileBucketName)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == minioNoSuchKey {
			return nil, nil, nil
		}
		m.Log.Error("minioStorage.GetBillingFile error calling Stat",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, nil, exceptions.ErrMinioGetObject(err, m.BillingFileBucketName)
	}

	return object, &models.StoredFile{
		Name:        path.Base(objectName),
		ContentType: stat.ContentType,
		Size:        stat.Size,
	}, nil
}
