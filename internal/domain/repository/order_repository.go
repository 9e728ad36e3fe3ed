package repository

import (
	"context"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
)

// OrderFilter filtros para listar pedidos.
type OrderFilter struct {
	Status entity.OrderStatus
	Search string // order_number o customer_name
}

// OrderRepository puerto de persistencia para pedidos.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea el pedido (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	GetBySaleID(ctx context.Context, saleID string) (*entity.Order, error)
	// UpdateStatus persiste status y timestamps de ciclo de vida.
	UpdateStatus(ctx context.Context, order *entity.Order) error
	LastNumber(ctx context.Context, prefix string) (string, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
}
