package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas (solo alta y lectura).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	// LastNumber devuelve el mayor sale_number con el prefijo dado ("" si no hay).
	LastNumber(ctx context.Context, prefix string) (string, error)
	List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
