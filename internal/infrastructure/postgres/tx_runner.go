package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/estoque-pdv/internal/application/fulfillment"
	"github.com/jhoicas/estoque-pdv/internal/application/inventory"
	"github.com/jhoicas/estoque-pdv/internal/application/sales"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var (
	_ inventory.TxRunner   = (*TxRunner)(nil)
	_ fulfillment.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner       = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx abre la tx, ejecuta fn y hace Commit; cualquier error deja el Rollback diferido.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run transacción del ledger (ajustes de stock).
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), NewProductRepository(tx))
	})
}

// RunFulfillment transacción de pedidos (creación, transiciones, envío con descuento de stock).
func (r *TxRunner) RunFulfillment(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewProductRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunSales transacción de venta + evento SaleCreated.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	outboxRepo repository.OutboxRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewSaleRepository(tx), NewOutboxRepository(tx))
	})
}

// RunDerivation transacción de pedido derivado + marca del evento.
func (r *TxRunner) RunDerivation(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	outboxRepo repository.OutboxRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewOutboxRepository(tx))
	})
}
