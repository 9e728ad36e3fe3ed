package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	a accessor
}

func skuTaken(st *state, sku, exceptID string) bool {
	for _, p := range st.products {
		if p.SKU == sku && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.write(func(st *state) error {
		if skuTaken(st, p.SKU, "") {
			return domain.NewFieldError(domain.ErrDuplicateSKU, "sku", p.SKU, "")
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) get(id string) *entity.Product {
	var out *entity.Product
	r.a.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.get(id), nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.a.read(func(st *state) {
		for _, p := range st.products {
			if p.SKU == sku {
				out = &p
				return
			}
		}
	})
	return out, nil
}

// GetForUpdate no necesita bloqueo: las transacciones en memoria ya están serializadas.
func (r *ProductRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	return r.get(id), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return nil
		}
		if skuTaken(st, p.SKU, p.ID) {
			return domain.NewFieldError(domain.ErrDuplicateSKU, "sku", p.SKU, "")
		}
		next := *p
		next.StockQty = cur.StockQty
		next.InitialStockQty = cur.InitialStockQty
		next.CreatedAt = cur.CreatedAt
		st.products[p.ID] = next
		return nil
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, id string, qty int, at time.Time) error {
	return r.a.write(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NewFieldError(domain.ErrNotFound, "product_id", id, "")
		}
		p.StockQty = qty
		p.UpdatedAt = at
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		delete(st.products, id)
		return nil
	})
}

func containsFold(field, term string) bool {
	return term == "" || strings.Contains(strings.ToLower(field), strings.ToLower(term))
}

func (r *ProductRepo) Search(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	return r.filter(func(p entity.Product) bool {
		return containsFold(p.SKU, f.SKU) &&
			containsFold(p.Name, f.Name) &&
			containsFold(p.Category, f.Category) &&
			containsFold(p.GroupCode, f.GroupCode)
	}), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(p entity.Product) bool { return p.IsLowStock() }), nil
}

func (r *ProductRepo) filter(keep func(entity.Product) bool) []*entity.Product {
	var out []*entity.Product
	r.a.read(func(st *state) {
		for _, p := range st.products {
			if keep(p) {
				out = append(out, &p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}
