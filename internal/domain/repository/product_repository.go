package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
)

// ProductFilter filtros de búsqueda (substring, sin distinguir mayúsculas, combinados con AND).
type ProductFilter struct {
	SKU       string
	Name      string
	Category  string
	GroupCode string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica los datos de catálogo. No toca stock_qty.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock solo debe usarse junto a StockMovementRepository.Create en la misma tx.
	UpdateStock(ctx context.Context, id string, qty int, at time.Time) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
}
