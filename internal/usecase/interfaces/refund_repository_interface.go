package interfaces

import (
	"context"
	"marketplace_escrow/internal/domain/entities"
)

type IRefundRepository interface {
	GetByID(ctx context.Context, id string) (entities.RefundRequest, error)
	ListByOrder(ctx context.Context, orderID string) ([]entities.RefundRequest, error)
}
