package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, category, group_code, cost_price, sale_price, stock_qty, min_stock, initial_stock_qty, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.GroupCode, &p.CostPrice, &p.SalePrice,
		&p.StockQty, &p.MinStock, &p.InitialStockQty, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.GroupCode, p.CostPrice, p.SalePrice,
		p.StockQty, p.MinStock, p.InitialStockQty, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewFieldError(domain.ErrDuplicateSKU, "sku", p.SKU, "")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU (ya normalizado).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// Update actualiza datos de catálogo. stock_qty e initial_stock_qty no se tocan.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, category = $4, group_code = $5,
			cost_price = $6, sale_price = $7, min_stock = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.GroupCode, p.CostPrice, p.SalePrice, p.MinStock, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewFieldError(domain.ErrDuplicateSKU, "sku", p.SKU, "")
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock fija stock_qty (usado solo por el ledger).
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, qty int, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock_qty = $2, updated_at = $3 WHERE id = $1`, id, qty, at)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewFieldError(domain.ErrNotFound, "product_id", id, "")
	}
	return nil
}

// Delete elimina un producto por ID. Sin filas afectadas no es error.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// Search filtra por substring (ILIKE) en los campos no vacíos, combinados con AND, ordenado por nombre.
func (r *ProductRepo) Search(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var conds []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, containsPattern(value))
		conds = append(conds, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, column, len(args)))
	}
	add("sku", f.SKU)
	add("name", f.Name)
	add("category", f.Category)
	add("group_code", f.GroupCode)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name, sku"
	return r.list(ctx, query, args...)
}

// ListLowStock lista productos con stock_qty < min_stock, ordenados por nombre.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE stock_qty < min_stock ORDER BY name, sku`)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
