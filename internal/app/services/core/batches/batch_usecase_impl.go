package batches

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"oncobilling-service/internal/app/config"
	"oncobilling-service/internal/app/contracts"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/disputes"
	"oncobilling-service/internal/app/services/billing/hierarchy"
	"oncobilling-service/internal/app/services/billing/paymentstatus"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/dto/requests"
	"oncobilling-service/internal/pkg/dto/responses"
	"oncobilling-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	batchUsecaseInstance contracts.BatchUsecase
	onceBatchUsecase     sync.Once
)

type batchUsecase struct {
	BatchRepository   contracts.BatchRepository
	HierarchyCache    contracts.HierarchyCache
	LockerService     contracts.LockerService
	DocumentStorage   contracts.DocumentStorage
	DisputeCaseClient contracts.DisputeCaseClient
	EventPublisher    contracts.EventPublisher
	Reconstructor     *hierarchy.Reconstructor
	Initiator         *disputes.Initiator
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
}

func NewBatchUsecase(
	batchRepository contracts.BatchRepository,
	hierarchyCache contracts.HierarchyCache,
	lockerService contracts.LockerService,
	documentStorage contracts.DocumentStorage,
	disputeCaseClient contracts.DisputeCaseClient,
	eventPublisher contracts.EventPublisher,
	reconstructor *hierarchy.Reconstructor,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BatchUsecase {
	onceBatchUsecase.Do(func() {
		batchUsecaseInstance = newBatchUsecase(
			batchRepository,
			hierarchyCache,
			lockerService,
			documentStorage,
			disputeCaseClient,
			eventPublisher,
			reconstructor,
			internalConfig,
			logger,
		)
	})
	return batchUsecaseInstance
}

func newBatchUsecase(
	batchRepository contracts.BatchRepository,
	hierarchyCache contracts.HierarchyCache,
	lockerService contracts.LockerService,
	documentStorage contracts.DocumentStorage,
	disputeCaseClient contracts.DisputeCaseClient,
	eventPublisher contracts.EventPublisher,
	reconstructor *hierarchy.Reconstructor,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *batchUsecase {
	return &batchUsecase{
		BatchRepository:   batchRepository,
		HierarchyCache:    hierarchyCache,
		LockerService:     lockerService,
		DocumentStorage:   documentStorage,
		DisputeCaseClient: disputeCaseClient,
		EventPublisher:    eventPublisher,
		Reconstructor:     reconstructor,
		Initiator:         disputes.NewInitiator(hierarchyCache, batchRepository, reconstructor, logger),
		InternalConfig:    internalConfig,
		Log:               logger,
	}
}

func (uc *batchUsecase) ReconstructHierarchy(ctx context.Context, batchID string) (*responses.BatchClaims, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("batchUsecase.ReconstructHierarchy called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	batch, result, err := uc.loadHierarchy(ctx, batchID)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("batchUsecase.ReconstructHierarchy succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingClaimCountKey, len(result.Claims)),
		zap.Int(constvars.LoggingOrphanCountKey, len(result.Orphans)),
	)
	return buildBatchClaims(batch, result), nil
}

// ReconcileBatch drops the cached hierarchy and rebuilds it from the
// repository.
func (uc *batchUsecase) ReconcileBatch(ctx context.Context, batchID string) (*responses.BatchClaims, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("batchUsecase.ReconcileBatch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	err := uc.HierarchyCache.Invalidate(ctx, batchID)
	if err != nil {
		uc.Log.Warn("batchUsecase.ReconcileBatch error invalidating claim index",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	batch, result, err := uc.loadHierarchy(ctx, batchID)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("batchUsecase.ReconcileBatch succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingClaimCountKey, len(result.Claims)),
	)
	return buildBatchClaims(batch, result), nil
}

func (uc *batchUsecase) GetBatchSummary(ctx context.Context, batchID string) (*responses.BatchSummary, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("batchUsecase.GetBatchSummary called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	batch, result, err := uc.loadHierarchy(ctx, batchID)
	if err != nil {
		return nil, err
	}

	summary := buildBatchSummary(batch, result)
	if !summary.ClaimCountMatches {
		uc.Log.Warn("batchUsecase.GetBatchSummary declared claim count differs from claim headers",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBatchIDKey, batchID),
			zap.Int("declared_claim_count", batch.DeclaredClaimCount),
			zap.Int(constvars.LoggingClaimCountKey, summary.ClaimCount),
		)
	}
	return summary, nil
}

func (uc *batchUsecase) ResolveClaimForDispute(ctx context.Context, batchID, claimNumber string) (*responses.ResolvedClaim, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("batchUsecase.ResolveClaimForDispute called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.String(constvars.LoggingClaimNumberKey, claimNumber),
	)

	batch, err := uc.findBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	resolution, err := uc.Initiator.ResolveClaim(ctx, batchID, claimNumber)
	if err != nil {
		return nil, err
	}

	snapshot, err := disputes.BuildSnapshot(batch, batchID, resolution.Claim)
	if err != nil {
		uc.Log.Error("batchUsecase.ResolveClaimForDispute batch snapshot unresolvable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Strings(constvars.LoggingMissingFieldsKey, snapshot.MissingFields()),
			zap.Error(err),
		)
		return nil, err
	}

	return &responses.ResolvedClaim{
		Claim:          *resolution.Claim,
		ResolvedFrom:   string(resolution.Source),
		DisputeRequest: disputes.BuildRequest(resolution.Claim, nil, snapshot),
	}, nil
}

// TransitionStatus changes the payment status of a claim or item. Moving to
// glosado also opens a dispute case: the status write is rolled back when the
// case cannot be created, so either both happen or neither does.
func (uc *batchUsecase) TransitionStatus(ctx context.Context, batchID string, request *requests.StatusTransition) (*responses.StatusTransition, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	targetKind := models.TargetKind(request.TargetKind)
	newStatus := models.PaymentStatus(request.NewStatus)
	uc.Log.Info("batchUsecase.TransitionStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.String(constvars.LoggingTargetKindKey, request.TargetKind),
		zap.String(constvars.LoggingTargetIDKey, request.TargetID),
		zap.String(constvars.LoggingNewStatusKey, request.NewStatus),
	)

	lockKey := fmt.Sprintf(constvars.RedisKeyTransitionLockFormat, batchID, request.TargetID)
	lockTTL := time.Duration(uc.InternalConfig.Billing.TransitionLockTTLInSeconds) * time.Second
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, exceptions.ErrUpstreamUnavailable(err, constvars.CollaboratorCache)
	}
	if !acquired {
		return nil, exceptions.ErrTargetLocked(request.TargetID)
	}
	defer func() {
		if err := uc.LockerService.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
			uc.Log.Warn("batchUsecase.TransitionStatus error releasing transition lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	batch, err := uc.findBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	items, err := uc.BatchRepository.FindItemsByBatchID(ctx, batchID)
	if err != nil {
		uc.Log.Error("batchUsecase.TransitionStatus error fetching batch items",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	fresh := uc.Reconstructor.Reconstruct(batchID, items)

	claim, item, err := locateTarget(fresh, batchID, targetKind, request.TargetID)
	if err != nil {
		return nil, err
	}
	currentStatus := claim.PaymentStatus
	if item != nil {
		currentStatus = item.EffectiveStatus()
	}

	cmd := models.StatusCommand{
		BatchID:    batchID,
		TargetKind: targetKind,
		TargetID:   request.TargetID,
		NewStatus:  newStatus,
		Precondition: models.Precondition{
			ExpectedStatus: currentStatus,
		},
	}
	if newStatus == models.PaymentStatusPaid {
		prefix := fmt.Sprintf(constvars.AttachmentObjectPrefixFormat, batchID, targetKind, request.TargetID)
		cmd.Precondition.AttachmentCount, err = uc.DocumentStorage.CountAttachments(ctx, prefix)
		if err != nil {
			uc.Log.Error("batchUsecase.TransitionStatus error counting attachments",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	err = paymentstatus.Validate(currentStatus, cmd)
	if err != nil {
		uc.Log.Info("batchUsecase.TransitionStatus rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPreviousStatusKey, string(currentStatus)),
			zap.Error(err),
		)
		return nil, err
	}

	var disputeRequest *models.DisputeRequest
	if paymentstatus.RequiresDispute(cmd) {
		disputeRequest, err = uc.prepareDispute(ctx, batch, batchID, fresh, claim, item, request.ClaimNumber)
		if err != nil {
			return nil, err
		}
	}

	tx, err := uc.BatchRepository.PrepareStatusChange(ctx, cmd)
	if err != nil {
		return nil, err
	}
	err = tx.Commit(ctx)
	if err != nil {
		uc.Log.Error("batchUsecase.TransitionStatus error committing status change",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	var disputeCase *models.DisputeCase
	if disputeRequest != nil {
		disputeCase, err = uc.DisputeCaseClient.CreateDispute(ctx, *disputeRequest)
		if err != nil {
			uc.Log.Error("batchUsecase.TransitionStatus error creating dispute case, rolling back",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingClaimIDKey, claim.ID),
				zap.Error(err),
			)
			if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
				uc.Log.Error("batchUsecase.TransitionStatus error rolling back status change",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingTargetIDKey, request.TargetID),
					zap.Error(rollbackErr),
				)
			}
			if exceptions.IsKind(err, exceptions.KindUpstreamUnavailable) {
				return nil, err
			}
			return nil, exceptions.ErrUpstreamUnavailable(err, constvars.CollaboratorCaseManagement)
		}
		cmd.Precondition.DisputeID = disputeCase.ID
	}

	err = uc.HierarchyCache.Invalidate(ctx, batchID)
	if err != nil {
		uc.Log.Warn("batchUsecase.TransitionStatus error invalidating claim index",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	uc.publishStatusChanged(ctx, cmd, currentStatus)

	uc.Log.Info("batchUsecase.TransitionStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTargetIDKey, request.TargetID),
		zap.String(constvars.LoggingPreviousStatusKey, string(currentStatus)),
		zap.String(constvars.LoggingNewStatusKey, string(newStatus)),
		zap.String(constvars.LoggingDisputeIDKey, cmd.Precondition.DisputeID),
	)

	response := &responses.StatusTransition{
		BatchID:        batchID,
		TargetKind:     targetKind,
		TargetID:       request.TargetID,
		PreviousStatus: currentStatus,
		NewStatus:      newStatus,
	}
	if disputeCase != nil {
		response.Dispute = buildDisputeResponse(disputeCase)
	}
	return response, nil
}

// prepareDispute resolves the claim named by claimNumber, checks it is the
// target (or the target's parent) and assembles the dispute payload. Nothing
// is written here.
func (uc *batchUsecase) prepareDispute(
	ctx context.Context,
	batch *models.Batch,
	batchID string,
	fresh *hierarchy.Result,
	claim *models.Claim,
	item *models.ClassifiedItem,
	claimNumber string,
) (*models.DisputeRequest, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	resolution, err := uc.Initiator.ResolveClaim(ctx, batchID, claimNumber)
	if err != nil {
		return nil, err
	}
	if resolution.Claim.ID != claim.ID {
		if item != nil {
			return nil, exceptions.ErrItemNotInClaim(item.ID, claimNumber)
		}
		return nil, exceptions.ErrClaimNumberMismatch(claim.ID, claimNumber, resolution.Claim.ID)
	}

	snapshot, err := disputes.BuildSnapshot(batch, batchID, claim)
	if err != nil {
		uc.Log.Error("batchUsecase.prepareDispute batch snapshot unresolvable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBatchIDKey, batchID),
			zap.Strings(constvars.LoggingMissingFieldsKey, snapshot.MissingFields()),
		)
		return nil, err
	}

	disputeRequest := disputes.BuildRequest(claim, item, snapshot)
	return &disputeRequest, nil
}

func (uc *batchUsecase) publishStatusChanged(ctx context.Context, cmd models.StatusCommand, previousStatus models.PaymentStatus) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	event := models.BillingStatusChangedEvent{
		ID:             uuid.NewString(),
		Type:           constvars.BillingEventStatusChanged,
		BatchID:        cmd.BatchID,
		TargetKind:     cmd.TargetKind,
		TargetID:       cmd.TargetID,
		PreviousStatus: previousStatus,
		NewStatus:      cmd.NewStatus,
		DisputeID:      cmd.Precondition.DisputeID,
		RequestID:      requestID,
		OccurredAt:     time.Now().UTC(),
	}

	// The status change is already committed; a lost event is only logged.
	err := uc.EventPublisher.PublishStatusChanged(ctx, event)
	if err != nil {
		uc.Log.Error("batchUsecase.publishStatusChanged error publishing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTargetIDKey, cmd.TargetID),
			zap.Error(err),
		)
	}
}

func (uc *batchUsecase) UploadAttachment(ctx context.Context, batchID string, targetKind models.TargetKind, targetID string, file multipart.File, fileHeader *multipart.FileHeader) (*responses.Attachment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("batchUsecase.UploadAttachment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.String(constvars.LoggingTargetKindKey, string(targetKind)),
		zap.String(constvars.LoggingTargetIDKey, targetID),
	)

	maxSize := uc.InternalConfig.Billing.AttachmentMaxUploadSizeInMB
	if fileHeader.Size > maxSize*1024*1024 {
		return nil, exceptions.ErrFileTooLarge(maxSize)
	}

	_, result, err := uc.loadHierarchy(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if _, _, err := locateTarget(result, batchID, targetKind, targetID); err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf(constvars.AttachmentObjectPrefixFormat, batchID, targetKind, targetID)
	attachment, err := uc.DocumentStorage.UploadAttachment(ctx, prefix, file, fileHeader)
	if err != nil {
		uc.Log.Error("batchUsecase.UploadAttachment error calling DocumentStorage.UploadAttachment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	count, err := uc.DocumentStorage.CountAttachments(ctx, prefix)
	if err != nil {
		uc.Log.Warn("batchUsecase.UploadAttachment error counting attachments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	response := buildAttachmentResponse(*attachment)
	response.AttachmentCount = count
	return &response, nil
}

func (uc *batchUsecase) ListAttachments(ctx context.Context, batchID string, targetKind models.TargetKind, targetID string) ([]responses.Attachment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("batchUsecase.ListAttachments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.String(constvars.LoggingTargetIDKey, targetID),
	)

	_, result, err := uc.loadHierarchy(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if _, _, err := locateTarget(result, batchID, targetKind, targetID); err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf(constvars.AttachmentObjectPrefixFormat, batchID, targetKind, targetID)
	attachments, err := uc.DocumentStorage.ListAttachments(ctx, prefix)
	if err != nil {
		return nil, err
	}

	response := make([]responses.Attachment, 0, len(attachments))
	for _, attachment := range attachments {
		response = append(response, buildAttachmentResponse(attachment))
	}
	return response, nil
}

func (uc *batchUsecase) GetBillingFile(ctx context.Context, batchID string) (io.ReadCloser, *models.StoredFile, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("batchUsecase.GetBillingFile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	batch, err := uc.findBatch(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}
	if batch.BillingFileKey == "" {
		return nil, nil, exceptions.ErrBillingFileNotFound(batchID)
	}

	content, file, err := uc.DocumentStorage.GetBillingFile(ctx, batch.BillingFileKey)
	if err != nil {
		return nil, nil, err
	}
	if content == nil {
		return nil, nil, exceptions.ErrBillingFileNotFound(batchID)
	}
	return content, file, nil
}

// GetClaimDispute returns (nil, nil) when the claim has no dispute case.
func (uc *batchUsecase) GetClaimDispute(ctx context.Context, batchID, claimID string) (*responses.Dispute, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("batchUsecase.GetClaimDispute called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	_, result, err := uc.loadHierarchy(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if _, ok := result.ClaimByID(claimID); !ok {
		return nil, exceptions.ErrClaimIDNotFound(batchID, claimID)
	}

	disputeCase, err := uc.DisputeCaseClient.FindDisputeByClaimID(ctx, batchID, claimID)
	if err != nil {
		uc.Log.Error("batchUsecase.GetClaimDispute error calling DisputeCaseClient.FindDisputeByClaimID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if disputeCase == nil {
		return nil, nil
	}
	return buildDisputeResponse(disputeCase), nil
}

func (uc *batchUsecase) ExportReport(ctx context.Context, batchID string, output io.Writer) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("batchUsecase.ExportReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	batch, result, err := uc.loadHierarchy(ctx, batchID)
	if err != nil {
		return err
	}

	err = writeBatchReport(batch, result, output)
	if err != nil {
		uc.Log.Error("batchUsecase.ExportReport error writing report",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrServerProcess(err)
	}
	return nil
}

func (uc *batchUsecase) findBatch(ctx context.Context, batchID string) (*models.Batch, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	batch, err := uc.BatchRepository.FindBatchByID(ctx, batchID)
	if err != nil {
		uc.Log.Error("batchUsecase.findBatch error calling BatchRepository.FindBatchByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBatchIDKey, batchID),
			zap.Error(err),
		)
		return nil, err
	}
	if batch == nil {
		return nil, exceptions.ErrBatchNotFound(batchID)
	}
	return batch, nil
}

// loadHierarchy rebuilds the batch hierarchy from the repository and refreshes
// the cached claim-number index.
func (uc *batchUsecase) loadHierarchy(ctx context.Context, batchID string) (*models.Batch, *hierarchy.Result, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	batch, err := uc.findBatch(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}

	items, err := uc.BatchRepository.FindItemsByBatchID(ctx, batchID)
	if err != nil {
		uc.Log.Error("batchUsecase.loadHierarchy error calling BatchRepository.FindItemsByBatchID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBatchIDKey, batchID),
			zap.Error(err),
		)
		return nil, nil, err
	}

	result := uc.Reconstructor.Reconstruct(batchID, items)
	err = uc.HierarchyCache.Set(ctx, result)
	if err != nil {
		uc.Log.Warn("batchUsecase.loadHierarchy error caching claim index",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBatchIDKey, batchID),
			zap.Error(err),
		)
	}
	return batch, result, nil
}

func locateTarget(result *hierarchy.Result, batchID string, targetKind models.TargetKind, targetID string) (*models.Claim, *models.ClassifiedItem, error) {
	switch targetKind {
	case models.TargetKindClaim:
		claim, ok := result.ClaimByID(targetID)
		if !ok {
			return nil, nil, exceptions.ErrClaimIDNotFound(batchID, targetID)
		}
		return claim, nil, nil
	case models.TargetKindItem:
		claim, item, ok := result.FindItem(targetID)
		if !ok {
			return nil, nil, exceptions.ErrItemNotFound(batchID, targetID)
		}
		return claim, item, nil
	default:
		return nil, nil, exceptions.ErrInvalidTransition("", string(targetKind), "unknown target kind")
	}
}

func buildBatchHeader(batch *models.Batch) responses.BatchHeader {
	return responses.BatchHeader{
		ID:                 batch.ID,
		BatchNumber:        batch.BatchNumber,
		BillingPeriod:      batch.BillingPeriod,
		PayerName:          batch.PayerName,
		PayerRegistryID:    batch.PayerRegistryID,
		DeclaredTotal:      batch.DeclaredTotal,
		DeclaredClaimCount: batch.DeclaredClaimCount,
		Status:             batch.Status,
	}
}

func buildBatchClaims(batch *models.Batch, result *hierarchy.Result) *responses.BatchClaims {
	return &responses.BatchClaims{
		Batch:      buildBatchHeader(batch),
		Claims:     result.Claims,
		Orphans:    result.Orphans,
		ClaimCount: len(result.Claims),
		ItemCount:  result.ItemCount() + len(result.Orphans),
	}
}

func buildBatchSummary(batch *models.Batch, result *hierarchy.Result) *responses.BatchSummary {
	summary := &responses.BatchSummary{
		Batch:               buildBatchHeader(batch),
		ClaimsDeclaredTotal: decimal.Zero,
		ComputedTotal:       decimal.Zero,
		ClaimCount:          len(result.Claims),
		OrphanCount:         len(result.Orphans),
		StatusCounts:        map[models.PaymentStatus]int{},
	}

	for _, claim := range result.Claims {
		summary.ClaimsDeclaredTotal = summary.ClaimsDeclaredTotal.Add(claim.DeclaredTotal)
		summary.Subtotals.Procedure = summary.Subtotals.Procedure.Add(claim.Subtotals.Procedure)
		summary.Subtotals.Medication = summary.Subtotals.Medication.Add(claim.Subtotals.Medication)
		summary.Subtotals.Material = summary.Subtotals.Material.Add(claim.Subtotals.Material)
		summary.Subtotals.Fee = summary.Subtotals.Fee.Add(claim.Subtotals.Fee)
		if claim.Subtotals.Estimated {
			summary.EstimatedClaimCount++
			summary.Subtotals.Estimated = true
		}
		summary.StatusCounts[claim.PaymentStatus]++
	}
	summary.ComputedTotal = summary.Subtotals.Sum()
	summary.ClaimCountMatches = batch.DeclaredClaimCount == 0 || batch.DeclaredClaimCount == summary.ClaimCount
	summary.TotalMatches = batch.DeclaredTotal.Equal(summary.ClaimsDeclaredTotal)
	return summary
}

func buildAttachmentResponse(attachment models.Attachment) responses.Attachment {
	return responses.Attachment{
		ObjectName:   attachment.ObjectName,
		OriginalName: attachment.OriginalName,
		ContentType:  attachment.ContentType,
		Size:         attachment.Size,
		UploadedAt:   attachment.UploadedAt,
	}
}

func buildDisputeResponse(disputeCase *models.DisputeCase) *responses.Dispute {
	return &responses.Dispute{
		ID:        disputeCase.ID,
		ClaimID:   disputeCase.ClaimID,
		ItemID:    disputeCase.ItemID,
		Status:    disputeCase.Status,
		Batch:     disputeCase.Batch,
		CreatedAt: disputeCase.CreatedAt,
	}
}
