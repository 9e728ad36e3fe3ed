package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const (
	saleColumns     = `id, sale_number, created_at, total_gross, total_discount, total_net, items_count, notes`
	saleItemColumns = `id, sale_id, product_id, sku, name, qty, unit_price, discount_percent, discount_value, subtotal_gross, subtotal_net`
)

// SaleRepo ventas sobre PostgreSQL. Sin UPDATE ni DELETE: la venta es inmutable.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.SaleNumber, s.CreatedAt, s.TotalGross, s.TotalDiscount, s.TotalNet, s.ItemsCount, s.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sale_items (`+saleItemColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		it.ID, it.SaleID, it.ProductID, it.SKU, it.Name, it.Qty, it.UnitPrice, it.DiscountPercent,
		it.DiscountValue, it.SubtotalGross, it.SubtotalNet,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.SaleNumber, &s.CreatedAt, &s.TotalGross, &s.TotalDiscount, &s.TotalNet, &s.ItemsCount, &s.Notes)
	return &s, err
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetItems devuelve las líneas de la venta en orden de inserción.
func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY seq`, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.SaleItem, error) {
		var it entity.SaleItem
		err := row.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.SKU, &it.Name, &it.Qty, &it.UnitPrice,
			&it.DiscountPercent, &it.DiscountValue, &it.SubtotalGross, &it.SubtotalNet)
		return &it, err
	})
}

// LastNumber devuelve el mayor sale_number del prefijo ("" si no hay).
// El sufijo tiene ancho fijo, así que el orden lexicográfico coincide con el numérico.
func (r *SaleRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	var last string
	err := r.q.QueryRow(ctx,
		`SELECT sale_number FROM sales WHERE sale_number LIKE $1 ORDER BY sale_number DESC LIMIT 1`,
		prefixPattern(prefix+"-"),
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last sale number: %w", err)
	}
	return last, nil
}

// List lista ventas del rango, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	var args []any
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC, sale_number DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Sale, error) {
		return scanSale(row)
	})
}
