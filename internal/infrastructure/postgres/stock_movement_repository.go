package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, change, reason, ref_type, ref_id, created_at`

// StockMovementRepo ledger de stock sobre PostgreSQL. Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento al ledger.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO stock_movements (`+movementColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.ProductID, m.Change, m.Reason, m.RefType, m.RefID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1 ORDER BY created_at DESC, id`
	args := []any{productID}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}
	return r.list(ctx, query, args...)
}

// ListByRef lista los movimientos originados por una referencia (ej: ORDER_SHIP + id de pedido).
func (r *StockMovementRepo) ListByRef(ctx context.Context, refType, refID string) ([]*entity.StockMovement, error) {
	return r.list(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE ref_type = $1 AND ref_id = $2 ORDER BY created_at, id`,
		refType, refID)
}

// SumByProduct suma los cambios del ledger para un producto.
func (r *StockMovementRepo) SumByProduct(ctx context.Context, productID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(change), 0)::int FROM stock_movements WHERE product_id = $1`, productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stock movements: %w", err)
	}
	return total, nil
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockMovement, error) {
		var m entity.StockMovement
		err := row.Scan(&m.ID, &m.ProductID, &m.Change, &m.Reason, &m.RefType, &m.RefID, &m.CreatedAt)
		return &m, err
	})
}
