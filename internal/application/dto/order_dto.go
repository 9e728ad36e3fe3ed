package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de pedido.
type OrderItemRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	SKU             string `json:"sku"`
	Name            string `json:"name"`
	Qty             int    `json:"qty" validate:"min=1"`
	UnitPrice       Amount `json:"unit_price"`
	DiscountPercent Amount `json:"discount_percent"`
}

// CreateOrderRequest entrada para crear un pedido directamente.
type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerAddress string             `json:"customer_address"`
	ShippingMethod  string             `json:"shipping_method"`
	ShippingCost    Amount             `json:"shipping_cost"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1"`
	Notes           string             `json:"notes"`
	SaleID          *string            `json:"sale_id,omitempty"`
}

// ListOrdersRequest filtros de listado.
type ListOrdersRequest struct {
	Status string `query:"status"`
	Search string `query:"search"`
}

// OrderItemResponse línea de pedido persistida.
type OrderItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Qty             int             `json:"qty"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountValue   decimal.Decimal `json:"discount_value"`
	SubtotalGross   decimal.Decimal `json:"subtotal_gross"`
	SubtotalNet     decimal.Decimal `json:"subtotal_net"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	SaleID          *string             `json:"sale_id,omitempty"`
	CustomerName    string              `json:"customer_name"`
	CustomerAddress string              `json:"customer_address,omitempty"`
	CustomerPhone   string              `json:"customer_phone,omitempty"`
	CustomerEmail   string              `json:"customer_email,omitempty"`
	ShippingMethod  string              `json:"shipping_method"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	PreparedAt      *time.Time          `json:"prepared_at"`
	ShippedAt       *time.Time          `json:"shipped_at"`
	CanceledAt      *time.Time          `json:"canceled_at"`
	TotalGross      decimal.Decimal     `json:"total_gross"`
	TotalDiscount   decimal.Decimal     `json:"total_discount"`
	TotalNet        decimal.Decimal     `json:"total_net"`
	TotalNetBRL     string              `json:"total_net_brl"` // "R$ 1.234,56"
	Notes           string              `json:"notes,omitempty"`
	HoursToPrepare  *float64            `json:"hours_to_prepare,omitempty"`
	HoursToShip     *float64            `json:"hours_to_ship,omitempty"`
	Items           []OrderItemResponse `json:"items,omitempty"`
}

// OrderStatusResponse salida de una transición.
type OrderStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
