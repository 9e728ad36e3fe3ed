package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const (
	orderColumns = `id, order_number, sale_id, customer_name, customer_address, customer_phone, customer_email,
		shipping_method, shipping_cost, status, created_at, prepared_at, ready_at, shipped_at, canceled_at,
		total_gross, total_discount, total_net, notes`
	orderItemColumns = `id, order_id, product_id, sku, name, qty, unit_price, discount_percent, discount_value, subtotal_gross, subtotal_net`
)

// OrderRepo pedidos sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		o.ID, o.OrderNumber, o.SaleID, o.CustomerName, o.CustomerAddress, o.CustomerPhone, o.CustomerEmail,
		o.ShippingMethod, o.ShippingCost, string(o.Status), o.CreatedAt, o.PreparedAt, o.ReadyAt, o.ShippedAt,
		o.CanceledAt, o.TotalGross, o.TotalDiscount, o.TotalNet, o.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO order_items (`+orderItemColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		it.ID, it.OrderID, it.ProductID, it.SKU, it.Name, it.Qty, it.UnitPrice, it.DiscountPercent,
		it.DiscountValue, it.SubtotalGross, it.SubtotalNet,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.SaleID, &o.CustomerName, &o.CustomerAddress, &o.CustomerPhone,
		&o.CustomerEmail, &o.ShippingMethod, &o.ShippingCost, &status, &o.CreatedAt, &o.PreparedAt, &o.ReadyAt,
		&o.ShippedAt, &o.CanceledAt, &o.TotalGross, &o.TotalDiscount, &o.TotalNet, &o.Notes)
	o.Status = entity.OrderStatus(status)
	return &o, err
}

func (r *OrderRepo) getOne(ctx context.Context, query string, arg any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea el pedido hasta el fin de la transacción.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// GetBySaleID obtiene el pedido derivado de una venta.
func (r *OrderRepo) GetBySaleID(ctx context.Context, saleID string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE sale_id = $1`, saleID)
}

// GetItems devuelve las líneas del pedido en orden de inserción.
func (r *OrderRepo) GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY seq`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.OrderItem, error) {
		var it entity.OrderItem
		err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.SKU, &it.Name, &it.Qty, &it.UnitPrice,
			&it.DiscountPercent, &it.DiscountValue, &it.SubtotalGross, &it.SubtotalNet)
		return &it, err
	})
}

// UpdateStatus persiste status y timestamps del ciclo de vida.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $2, prepared_at = $3, ready_at = $4, shipped_at = $5, canceled_at = $6
		WHERE id = $1`,
		o.ID, string(o.Status), o.PreparedAt, o.ReadyAt, o.ShippedAt, o.CanceledAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// LastNumber devuelve el mayor order_number del prefijo ("" si no hay).
func (r *OrderRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	var last string
	err := r.q.QueryRow(ctx,
		`SELECT order_number FROM orders WHERE order_number LIKE $1 ORDER BY order_number DESC LIMIT 1`,
		prefixPattern(prefix+"-"),
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last order number: %w", err)
	}
	return last, nil
}

// List filtra por estado y por número/cliente (ILIKE), más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		query += fmt.Sprintf(` AND (order_number ILIKE $%d ESCAPE '\' OR customer_name ILIKE $%d ESCAPE '\')`, len(args), len(args))
	}
	query += " ORDER BY created_at DESC, order_number DESC"
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Order, error) {
		return scanOrder(row)
	})
}
