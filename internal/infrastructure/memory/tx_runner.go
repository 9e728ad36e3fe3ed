package memory

import (
	"context"

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

// TxRunner transacciones en memoria: fn trabaja sobre una copia que se publica solo si retorna nil.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(v txView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.write(func(st *state) error {
		return fn(txView{st: st})
	})
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(v txView) error {
		return fn(&StockMovementRepo{a: v}, &ProductRepo{a: v})
	})
}

func (r *TxRunner) RunFulfillment(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(v txView) error {
		return fn(&OrderRepo{a: v}, &ProductRepo{a: v}, &StockMovementRepo{a: v})
	})
}

func (r *TxRunner) RunSales(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	outboxRepo repository.OutboxRepository,
) error) error {
	return r.inTx(ctx, func(v txView) error {
		return fn(&SaleRepo{a: v}, &OutboxRepo{a: v})
	})
}

func (r *TxRunner) RunDerivation(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	outboxRepo repository.OutboxRepository,
) error) error {
	return r.inTx(ctx, func(v txView) error {
		return fn(&OrderRepo{a: v}, &OutboxRepo{a: v})
	})
}
