package contracts

import (
	"context"
	"oncobilling-service/internal/app/models"
)

type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event models.BillingStatusChangedEvent) error
}
