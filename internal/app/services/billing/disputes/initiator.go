// Package disputes resolves the claim a glosa refers to and assembles the
// payload sent to the case-management service.
package disputes

import (
	"context"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/hierarchy"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/exceptions"
	"oncobilling-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

// HierarchyCache holds reconstructed hierarchies per batch. Get returns
// (nil, nil) on a miss.
type HierarchyCache interface {
	Get(ctx context.Context, batchID string) (*hierarchy.Result, error)
	Set(ctx context.Context, result *hierarchy.Result) error
}

type ItemSource interface {
	FindItemsByBatchID(ctx context.Context, batchID string) ([]models.Item, error)
}

type ResolutionSource string

const (
	ResolvedFromIndex   ResolutionSource = "index"
	ResolvedFromRefetch ResolutionSource = "refetch"
)

type Resolution struct {
	Claim     *models.Claim
	Hierarchy *hierarchy.Result
	Source    ResolutionSource
}

type Initiator struct {
	Cache         HierarchyCache
	Items         ItemSource
	Reconstructor *hierarchy.Reconstructor
	Log           *zap.Logger
}

func NewInitiator(cache HierarchyCache, items ItemSource, reconstructor *hierarchy.Reconstructor, logger *zap.Logger) *Initiator {
	return &Initiator{
		Cache:         cache,
		Items:         items,
		Reconstructor: reconstructor,
		Log:           logger,
	}
}

// ResolveClaim finds the claim with the given human-facing number. The cached
// claim-number index is tried first; on a miss the items are fetched again
// and the claim headers scanned. There is no further fallback: an unknown
// number is ErrClaimNotFound.
func (i *Initiator) ResolveClaim(ctx context.Context, batchID, claimNumber string) (*Resolution, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	i.Log.Info("disputes.ResolveClaim called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.String(constvars.LoggingClaimNumberKey, claimNumber),
	)

	if utils.NormalizeClaimNumber(claimNumber) == "" {
		return nil, exceptions.ErrClaimNotFound(claimNumber)
	}

	cached, err := i.Cache.Get(ctx, batchID)
	if err != nil {
		// A broken cache only costs the fast path.
		i.Log.Warn("disputes.ResolveClaim claim index unavailable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBatchIDKey, batchID),
			zap.Error(err),
		)
	}
	if claim, ok := cached.LookupClaim(claimNumber); ok {
		i.Log.Info("disputes.ResolveClaim resolved from index",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClaimIDKey, claim.ID),
		)
		return &Resolution{Claim: claim, Hierarchy: cached, Source: ResolvedFromIndex}, nil
	}

	items, err := i.Items.FindItemsByBatchID(ctx, batchID)
	if err != nil {
		i.Log.Error("disputes.ResolveClaim error fetching batch items",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBatchIDKey, batchID),
			zap.Error(err),
		)
		return nil, err
	}

	fresh := i.Reconstructor.Reconstruct(batchID, items)
	if err := i.Cache.Set(ctx, fresh); err != nil {
		i.Log.Warn("disputes.ResolveClaim error refreshing claim index",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBatchIDKey, batchID),
			zap.Error(err),
		)
	}

	header, ok := scanHeaders(items, claimNumber)
	if !ok {
		i.Log.Info("disputes.ResolveClaim claim not found",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBatchIDKey, batchID),
			zap.String(constvars.LoggingClaimNumberKey, claimNumber),
			zap.Int(constvars.LoggingItemCountKey, len(items)),
		)
		return nil, exceptions.ErrClaimNotFound(claimNumber)
	}

	claim, ok := fresh.ClaimByID(header.ID)
	if !ok {
		return nil, exceptions.ErrClaimNotFound(claimNumber)
	}

	i.Log.Info("disputes.ResolveClaim resolved after refetch",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claim.ID),
	)
	return &Resolution{Claim: claim, Hierarchy: fresh, Source: ResolvedFromRefetch}, nil
}

// scanHeaders compares normalized numbers first, then the raw stored value.
func scanHeaders(items []models.Item, claimNumber string) (models.Item, bool) {
	normalized := utils.NormalizeClaimNumber(claimNumber)
	for _, item := range items {
		if item.Kind.IsClaimHeader() && utils.NormalizeClaimNumber(item.ProviderClaimNumber) == normalized {
			return item, true
		}
	}
	for _, item := range items {
		if item.Kind.IsClaimHeader() && item.ProviderClaimNumber != "" && item.ProviderClaimNumber == claimNumber {
			return item, true
		}
	}
	return models.Item{}, false
}

// BuildSnapshot copies the batch-identifying fields. The batch ID falls back
// to requestedBatchID and then to the claim's batch. A snapshot with any
// blank field is rejected so a dispute never carries partial batch context.
func BuildSnapshot(batch *models.Batch, requestedBatchID string, claim *models.Claim) (models.BatchSnapshot, error) {
	var snapshot models.BatchSnapshot
	if batch != nil {
		snapshot = models.BatchSnapshot{
			BatchID:         strings.TrimSpace(batch.ID),
			BatchNumber:     strings.TrimSpace(batch.BatchNumber),
			BillingPeriod:   strings.TrimSpace(batch.BillingPeriod),
			PayerName:       strings.TrimSpace(batch.PayerName),
			PayerRegistryID: strings.TrimSpace(batch.PayerRegistryID),
		}
	}
	if snapshot.BatchID == "" {
		snapshot.BatchID = strings.TrimSpace(requestedBatchID)
	}
	if snapshot.BatchID == "" && claim != nil {
		snapshot.BatchID = strings.TrimSpace(claim.BatchID)
	}

	if missing := snapshot.MissingFields(); len(missing) > 0 {
		return snapshot, exceptions.ErrBatchSnapshotUnresolvable(requestedBatchID, missing)
	}
	return snapshot, nil
}

// BuildRequest assembles the dispute payload for a claim, or for one of its
// items when item is not nil.
func BuildRequest(claim *models.Claim, item *models.ClassifiedItem, snapshot models.BatchSnapshot) models.DisputeRequest {
	request := models.DisputeRequest{
		ClaimID:        claim.ID,
		ClaimNumber:    claim.ProviderClaimNumber,
		DisputedAmount: claim.DeclaredTotal.StringFixed(2),
		Batch:          snapshot,
	}
	if item != nil {
		request.ItemID = item.ID
		request.ItemCode = item.Code
		request.ItemDescription = item.Description
		request.DisputedAmount = item.Amount.StringFixed(2)
	}
	return request
}
