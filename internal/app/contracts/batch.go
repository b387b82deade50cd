package contracts

import (
	"context"
	"io"
	"mime/multipart"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/hierarchy"
	"oncobilling-service/internal/pkg/dto/requests"
	"oncobilling-service/internal/pkg/dto/responses"
)

// BatchRepository reads batches and their flat item lists. Absent records
// are reported as (nil, nil).
type BatchRepository interface {
	FindBatchByID(ctx context.Context, batchID string) (*models.Batch, error)
	FindItemsByBatchID(ctx context.Context, batchID string) ([]models.Item, error)
	PrepareStatusChange(ctx context.Context, cmd models.StatusCommand) (StatusTransaction, error)
}

// StatusTransaction is a prepared status write. Commit fails with
// ErrConcurrentStatusChange when the stored status no longer matches the
// command's expected status. Rollback restores the expected status after a
// successful Commit.
type StatusTransaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// HierarchyCache keeps the reconstructed hierarchy (and with it the
// claim-number index) of recently loaded batches.
type HierarchyCache interface {
	Get(ctx context.Context, batchID string) (*hierarchy.Result, error)
	Set(ctx context.Context, result *hierarchy.Result) error
	Invalidate(ctx context.Context, batchID string) error
}

type BatchUsecase interface {
	ReconstructHierarchy(ctx context.Context, batchID string) (*responses.BatchClaims, error)
	ReconcileBatch(ctx context.Context, batchID string) (*responses.BatchClaims, error)
	GetBatchSummary(ctx context.Context, batchID string) (*responses.BatchSummary, error)
	ResolveClaimForDispute(ctx context.Context, batchID, claimNumber string) (*responses.ResolvedClaim, error)
	TransitionStatus(ctx context.Context, batchID string, request *requests.StatusTransition) (*responses.StatusTransition, error)
	UploadAttachment(ctx context.Context, batchID string, targetKind models.TargetKind, targetID string, file multipart.File, fileHeader *multipart.FileHeader) (*responses.Attachment, error)
	ListAttachments(ctx context.Context, batchID string, targetKind models.TargetKind, targetID string) ([]responses.Attachment, error)
	GetBillingFile(ctx context.Context, batchID string) (io.ReadCloser, *models.StoredFile, error)
	GetClaimDispute(ctx context.Context, batchID, claimID string) (*responses.Dispute, error)
	ExportReport(ctx context.Context, batchID string, output io.Writer) error
}
