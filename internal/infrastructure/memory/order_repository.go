package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos en memoria.
type OrderRepo struct {
	a accessor
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.a.write(func(st *state) error {
		st.orders[o.ID] = *o
		return nil
	})
}

func (r *OrderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	return r.a.write(func(st *state) error {
		st.orderItems[it.OrderID] = append(st.orderItems[it.OrderID], *it)
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	r.a.read(func(st *state) {
		if o, ok := st.orders[id]; ok {
			out = &o
		}
	})
	return out, nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) GetItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	r.a.read(func(st *state) {
		for _, it := range st.orderItems[orderID] {
			out = append(out, &it)
		}
	})
	return out, nil
}

func (r *OrderRepo) GetBySaleID(_ context.Context, saleID string) (*entity.Order, error) {
	var out *entity.Order
	r.a.read(func(st *state) {
		for _, o := range st.orders {
			if o.SaleID != nil && *o.SaleID == saleID {
				out = &o
				return
			}
		}
	})
	return out, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, o *entity.Order) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return nil
		}
		cur.Status = o.Status
		cur.PreparedAt = o.PreparedAt
		cur.ReadyAt = o.ReadyAt
		cur.ShippedAt = o.ShippedAt
		cur.CanceledAt = o.CanceledAt
		st.orders[o.ID] = cur
		return nil
	})
}

func (r *OrderRepo) LastNumber(_ context.Context, prefix string) (string, error) {
	last := ""
	r.a.read(func(st *state) {
		for _, o := range st.orders {
			if strings.HasPrefix(o.OrderNumber, prefix+"-") && o.OrderNumber > last {
				last = o.OrderNumber
			}
		}
	})
	return last, nil
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	r.a.read(func(st *state) {
		for _, o := range st.orders {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.Search != "" && !containsFold(o.OrderNumber, f.Search) && !containsFold(o.CustomerName, f.Search) {
				continue
			}
			out = append(out, &o)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].OrderNumber > out[j].OrderNumber
	})
	return out, nil
}
