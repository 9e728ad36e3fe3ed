package memory

import (
	"context"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger en memoria (slice en orden de inserción, solo append).
type StockMovementRepo struct {
	a accessor
}

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.a.write(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

// ListByProduct más recientes primero: se recorre el slice desde el final.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.a.read(func(st *state) {
		skipped := 0
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.ProductID != productID {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			out = append(out, &m)
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

func (r *StockMovementRepo) ListByRef(_ context.Context, refType, refID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.a.read(func(st *state) {
		for _, m := range st.movements {
			if m.RefType == refType && m.RefID != nil && *m.RefID == refID {
				out = append(out, &m)
			}
		}
	})
	return out, nil
}

func (r *StockMovementRepo) SumByProduct(_ context.Context, productID string) (int, error) {
	total := 0
	r.a.read(func(st *state) {
		for _, m := range st.movements {
			if m.ProductID == productID {
				total += m.Change
			}
		}
	})
	return total, nil
}
