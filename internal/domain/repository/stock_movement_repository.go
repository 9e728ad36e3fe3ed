package repository

import (
	"context"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
)

// StockMovementRepository puerto del ledger de stock. Solo inserción: sin Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByRef(ctx context.Context, refType, refID string) ([]*entity.StockMovement, error)
	SumByProduct(ctx context.Context, productID string) (int, error)
}
