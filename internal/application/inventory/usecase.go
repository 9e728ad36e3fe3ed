package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/inventory"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
	"github.com/jhoicas/estoque-pdv/pkg/clock"
)

// RegisterMovementUseCase es el único escritor de stock_qty: cada cambio va acompañado de
// su movimiento en el ledger dentro de la misma transacción (SELECT FOR UPDATE + Commit/Rollback).
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	clock       clock.Clock
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	clk clock.Clock,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		clock:       clk,
	}
}

// AdjustStock suma delta (positivo o negativo) al stock y registra un movimiento ADJUST.
// delta == 0 no hace nada. Falla con ErrInvalidQuantity, ErrNotFound o ErrNegativeStockResult sin modificar nada.
func (uc *RegisterMovementUseCase) AdjustStock(ctx context.Context, productID string, delta int, reason string) error {
	if delta == 0 {
		return nil
	}
	if productID == "" {
		return domain.NewFieldError(domain.ErrValidation, "product_id", nil, "requerido")
	}
	if delta > domain.MaxQuantity || delta < -domain.MaxQuantity {
		return domain.NewFieldError(domain.ErrInvalidQuantity, "delta", delta, "fuera de rango")
	}
	// Lectura fuera de la tx para fallar rápido; el saldo se vuelve a leer bloqueado.
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NewFieldError(domain.ErrNotFound, "product_id", productID, "producto inexistente")
	}
	if _, err := inventory.ApplyChange(product.StockQty, delta); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = entity.ReasonManualAdjust
	}

	now := uc.clock.Now()
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		locked, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NewFieldError(domain.ErrNotFound, "product_id", productID, "producto inexistente")
		}
		return uc.ApplyMovementInTx(ctx, movRepo, productRepo, locked, delta, reason, entity.RefTypeAdjust, nil, now)
	})
}

// ApplyMovementInTx aplica delta sobre un producto ya bloqueado usando los repositorios del caller
// (misma transacción). Si retorna error (ej: ErrNegativeStockResult), el caller debe hacer rollback.
// Actualiza product.StockQty en memoria para que el caller vea el saldo nuevo.
func (uc *RegisterMovementUseCase) ApplyMovementInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	delta int,
	reason, refType string,
	refID *string,
	now time.Time,
) error {
	newQty, err := inventory.ApplyChange(product.StockQty, delta)
	if err != nil {
		return err
	}
	if err := productRepo.UpdateStock(ctx, product.ID, newQty, now); err != nil {
		return err
	}
	product.StockQty = newQty
	product.UpdatedAt = now
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Change:    delta,
		Reason:    reason,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: now,
	}
	return movRepo.Create(ctx, mov)
}

// ListMovements devuelve el ledger de un producto, más reciente primero.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, productID string, limit, offset int) ([]dto.StockMovementResponse, error) {
	list, err := uc.movRepo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// Reconcile verifica que stock inicial + suma del ledger == stock actual.
// El stock inicial no es un movimiento: sin él el ledger no reconstruye el saldo.
func (uc *RegisterMovementUseCase) Reconcile(ctx context.Context, productID string) (*dto.ReconciliationResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "product_id", productID, "producto inexistente")
	}
	total, err := uc.movRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ReconciliationResponse{
		ProductID:       product.ID,
		InitialStockQty: product.InitialStockQty,
		MovementsTotal:  total,
		StockQty:        product.StockQty,
		Balanced:        product.InitialStockQty+total == product.StockQty,
	}, nil
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Change:    m.Change,
		Reason:    m.Reason,
		RefType:   m.RefType,
		RefID:     m.RefID,
		CreatedAt: m.CreatedAt,
	}
}
