package fulfillment

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

// TxRunner abre una transacción con los repositorios que tocan pedidos y stock.
type TxRunner interface {
	RunFulfillment(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// StockMover aplica un movimiento de stock dentro de la transacción del caller.
// Lo implementa inventory.RegisterMovementUseCase.
type StockMover interface {
	ApplyMovementInTx(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		product *entity.Product,
		delta int,
		reason, refType string,
		refID *string,
		now time.Time,
	) error
}
