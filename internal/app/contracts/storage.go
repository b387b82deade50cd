package contracts

import (
	"context"
	"io"
	"mime/multipart"
	"oncobilling-service/internal/app/models"
)

// DocumentStorage keeps supporting documents per claim or item and the
// original billing files of each batch.
type DocumentStorage interface {
	UploadAttachment(ctx context.Context, objectPrefix string, file io.Reader, fileHeader *multipart.FileHeader) (*models.Attachment, error)
	ListAttachments(ctx context.Context, objectPrefix string) ([]models.Attachment, error)
	CountAttachments(ctx context.Context, objectPrefix string) (int, error)
	// GetBillingFile returns (nil, nil, nil) when the object does not exist.
	GetBillingFile(ctx context.Context, objectName string) (io.ReadCloser, *models.StoredFile, error)
}
