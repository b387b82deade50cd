package contracts

import (
	"context"
	"oncobilling-service/internal/app/models"
)

// DisputeCaseClient talks to the case-management service that owns glosa
// appeals.
type DisputeCaseClient interface {
	CreateDispute(ctx context.Context, request models.DisputeRequest) (*models.DisputeCase, error)
	// FindDisputeByClaimID returns (nil, nil) when the claim has no case.
	FindDisputeByClaimID(ctx context.Context, batchID, claimID string) (*models.DisputeCase, error)
}
