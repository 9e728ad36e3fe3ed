package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
	"github.com/jhoicas/estoque-pdv/internal/infrastructure/memory"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestTxRunner_ErrorDescartaEscrituras(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A", StockQty: 5}))

	boom := errors.New("boom")
	err := memory.NewTxRunner(store).Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		require.NoError(t, productRepo.UpdateStock(ctx, "p1", 1, now))
		require.NoError(t, movRepo.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Change: -4}))

		// Fuera de la tx todavía se ve el estado publicado.
		p, err := store.Products().GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 5, p.StockQty)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockQty)
	total, err := store.Movements().SumByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTxRunner_CommitPublica(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A", StockQty: 5}))

	err := memory.NewTxRunner(store).Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		if err := productRepo.UpdateStock(ctx, "p1", 2, now); err != nil {
			return err
		}
		return movRepo.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Change: -3, RefType: entity.RefTypeAdjust})
	})
	require.NoError(t, err)

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.StockQty)
	assert.Equal(t, now, p.UpdatedAt)
	total, err := store.Movements().SumByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, -3, total)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewTxRunner(memory.NewStore()).RunSales(ctx, func(repository.SaleRepository, repository.OutboxRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestProductRepo_SKUUnico(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A"}))

	err := store.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "A", Name: "B"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)

	err = store.Products().UpdateStock(ctx, "nope", 1, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleRepo_LastNumberPorPrefijo(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for _, n := range []string{"ABC-000002", "ABC-000010", "XYZ-000099"} {
		require.NoError(t, store.Sales().Create(ctx, &entity.Sale{ID: n, SaleNumber: n, CreatedAt: now}))
	}
	last, err := store.Sales().LastNumber(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, "ABC-000010", last)

	last, err = store.Sales().LastNumber(ctx, "QQQ")
	require.NoError(t, err)
	assert.Empty(t, last)
}
