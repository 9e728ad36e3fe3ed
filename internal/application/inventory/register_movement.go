package inventory

import (
	"context"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
)

// AdjustStockFromRequest adapta el request HTTP al caso de uso AdjustStock.
func (uc *RegisterMovementUseCase) AdjustStockFromRequest(ctx context.Context, productID string, in dto.AdjustStockRequest) error {
	return uc.AdjustStock(ctx, productID, in.Delta, in.Reason)
}
