package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	a accessor
}

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.a.write(func(st *state) error {
		st.sales[s.ID] = *s
		return nil
	})
}

func (r *SaleRepo) CreateItem(_ context.Context, it *entity.SaleItem) error {
	return r.a.write(func(st *state) error {
		st.saleItems[it.SaleID] = append(st.saleItems[it.SaleID], *it)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.a.read(func(st *state) {
		if s, ok := st.sales[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *SaleRepo) GetItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	r.a.read(func(st *state) {
		for _, it := range st.saleItems[saleID] {
			out = append(out, &it)
		}
	})
	return out, nil
}

func (r *SaleRepo) LastNumber(_ context.Context, prefix string) (string, error) {
	last := ""
	r.a.read(func(st *state) {
		for _, s := range st.sales {
			if strings.HasPrefix(s.SaleNumber, prefix+"-") && s.SaleNumber > last {
				last = s.SaleNumber
			}
		}
	})
	return last, nil
}

func (r *SaleRepo) List(_ context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	r.a.read(func(st *state) {
		for _, s := range st.sales {
			if from != nil && s.CreatedAt.Before(*from) {
				continue
			}
			if to != nil && s.CreatedAt.After(*to) {
				continue
			}
			out = append(out, &s)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].SaleNumber > out[j].SaleNumber
	})
	return page(out, limit, offset), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
