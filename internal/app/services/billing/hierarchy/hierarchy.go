// Package hierarchy rebuilds the claim/item tree of a batch from its flat
// item list. The tree is never stored; it is recomputed on every load.
package hierarchy

import (
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/aggregation"
	"oncobilling-service/internal/app/services/billing/classification"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// ClaimIndex maps a normalized claim number to the claim ID.
type ClaimIndex map[string]string

// Result is the reconstructed view of one batch. It is JSON friendly so
// callers can cache it.
type Result struct {
	BatchID string         `json:"lote_id"`
	Claims  []models.Claim `json:"guias"`
	Index   ClaimIndex     `json:"indice_guias"`
	Orphans []models.Item  `json:"orfaos"`
}

// LookupClaim finds a claim by its human-facing number using the index.
func (r *Result) LookupClaim(claimNumber string) (*models.Claim, bool) {
	if r == nil {
		return nil, false
	}
	normalized := utils.NormalizeClaimNumber(claimNumber)
	if normalized == "" {
		return nil, false
	}
	claimID, ok := r.Index[normalized]
	if !ok {
		return nil, false
	}
	return r.ClaimByID(claimID)
}

func (r *Result) ClaimByID(claimID string) (*models.Claim, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Claims {
		if r.Claims[i].ID == claimID {
			return &r.Claims[i], true
		}
	}
	return nil, false
}

// FindItem returns a non-header item and the claim that owns it.
func (r *Result) FindItem(itemID string) (*models.Claim, *models.ClassifiedItem, bool) {
	if r == nil {
		return nil, nil, false
	}
	for i := range r.Claims {
		for j := range r.Claims[i].Items {
			if r.Claims[i].Items[j].ID == itemID {
				return &r.Claims[i], &r.Claims[i].Items[j], true
			}
		}
	}
	return nil, nil, false
}

// ItemCount counts claim headers plus attached items.
func (r *Result) ItemCount() int {
	if r == nil {
		return 0
	}
	count := len(r.Claims)
	for _, claim := range r.Claims {
		count += len(claim.Items)
	}
	return count
}

type Reconstructor struct {
	Classifier *classification.Classifier
	Aggregator *aggregation.Aggregator
	Log        *zap.Logger
}

func NewReconstructor(classifier *classification.Classifier, aggregator *aggregation.Aggregator, logger *zap.Logger) *Reconstructor {
	return &Reconstructor{
		Classifier: classifier,
		Aggregator: aggregator,
		Log:        logger,
	}
}

// Reconstruct groups items under their claim headers in input order,
// classifies them and computes the subtotals. Items whose parent is not a
// claim header of this list are returned as orphans and logged.
func (r *Reconstructor) Reconstruct(batchID string, items []models.Item) *Result {
	result := &Result{
		BatchID: batchID,
		Claims:  []models.Claim{},
		Index:   ClaimIndex{},
		Orphans: []models.Item{},
	}

	positions := make(map[string]int)
	for _, item := range items {
		if !item.Kind.IsClaimHeader() {
			continue
		}
		if _, exists := positions[item.ID]; exists {
			r.Log.Warn("hierarchy.Reconstruct duplicate claim header ignored",
				zap.String(constvars.LoggingBatchIDKey, batchID),
				zap.String(constvars.LoggingClaimIDKey, item.ID),
			)
			continue
		}

		claim := models.ClaimFromHeader(item)
		if claim.BatchID == "" {
			claim.BatchID = batchID
		}
		positions[item.ID] = len(result.Claims)
		result.Claims = append(result.Claims, claim)

		normalized := utils.NormalizeClaimNumber(item.ProviderClaimNumber)
		if normalized == "" {
			continue
		}
		if existing, taken := result.Index[normalized]; taken {
			r.Log.Warn("hierarchy.Reconstruct claim number shared by more than one claim",
				zap.String(constvars.LoggingBatchIDKey, batchID),
				zap.String(constvars.LoggingClaimNumberKey, item.ProviderClaimNumber),
				zap.String(constvars.LoggingClaimIDKey, existing),
			)
			continue
		}
		result.Index[normalized] = item.ID
	}

	for _, item := range items {
		if item.Kind.IsClaimHeader() {
			continue
		}
		position, ok := positions[item.ParentID]
		if !ok {
			r.Log.Warn("hierarchy.Reconstruct orphan item",
				zap.String(constvars.LoggingBatchIDKey, batchID),
				zap.String(constvars.LoggingItemIDKey, item.ID),
				zap.String(constvars.LoggingParentIDKey, item.ParentID),
			)
			result.Orphans = append(result.Orphans, item)
			continue
		}
		claim := &result.Claims[position]
		claim.Items = append(claim.Items, r.Classifier.ClassifyItem(item))
	}

	for i := range result.Claims {
		claim := &result.Claims[i]
		claim.Subtotals = r.Aggregator.Subtotals(claim.DeclaredTotal, claim.Items)
		if aggregation.ExceedsDeclared(claim.DeclaredTotal, claim.Subtotals) {
			r.Log.Warn("hierarchy.Reconstruct subtotals exceed declared claim total",
				zap.String(constvars.LoggingBatchIDKey, batchID),
				zap.String(constvars.LoggingClaimIDKey, claim.ID),
				zap.String("declared_total", claim.DeclaredTotal.String()),
				zap.String("computed_total", claim.Subtotals.Sum().String()),
			)
		}
	}

	r.Log.Debug("hierarchy.Reconstruct completed",
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.Int(constvars.LoggingClaimCountKey, len(result.Claims)),
		zap.Int(constvars.LoggingItemCountKey, len(items)),
		zap.Int(constvars.LoggingOrphanCountKey, len(result.Orphans)),
	)
	return result
}
