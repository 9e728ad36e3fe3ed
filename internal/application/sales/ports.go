package sales

import (
	"context"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

// TxRunner abre las transacciones de venta y de derivación de pedidos.
type TxRunner interface {
	// RunSales: venta + ítems + evento SaleCreated en una sola tx.
	RunSales(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		outboxRepo repository.OutboxRepository,
	) error) error
	// RunDerivation: pedido derivado + marca del evento como procesado en una sola tx.
	RunDerivation(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		outboxRepo repository.OutboxRepository,
	) error) error
}

// OrderCreator crea un pedido con el repositorio de la tx del caller.
// Lo implementa fulfillment.OrderUseCase.
type OrderCreator interface {
	CreateInTx(ctx context.Context, orderRepo repository.OrderRepository, in dto.CreateOrderRequest) (*entity.Order, error)
}
