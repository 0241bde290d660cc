package interfaces

import (
	"context"
	"marketplace_escrow/internal/domain/entities"
)

// IOrderRepository is the read side of order storage. Writes go through
// IChangesetWriter. A missing order is returned as the zero value.
type IOrderRepository interface {
	GetByID(ctx context.Context, id string) (entities.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]entities.Order, error)
	ListByWorker(ctx context.Context, workerID string) ([]entities.Order, error)
	ListByStatus(ctx context.Context, status entities.OrderStatus, limit int) ([]entities.Order, error)
}
