package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. SKU/Name se toman del producto si vienen vacíos.
type SaleItemRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	SKU             string `json:"sku"`
	Name            string `json:"name"`
	Qty             int    `json:"qty" validate:"min=1"`
	UnitPrice       Amount `json:"unit_price"`
	DiscountPercent Amount `json:"discount_percent"`
}

// CreateSaleRequest entrada para registrar una venta.
// Los datos de cliente/envío solo alimentan el pedido derivado.
type CreateSaleRequest struct {
	Items           []SaleItemRequest `json:"items" validate:"required,min=1"`
	Notes           string            `json:"notes"`
	Prefix          string            `json:"prefix"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerAddress string            `json:"customer_address"`
	ShippingMethod  string            `json:"shipping_method"`
	ShippingCost    Amount            `json:"shipping_cost"`
}

// SaleItemResponse línea de venta persistida.
type SaleItemResponse struct {
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

// SaleResponse salida de una venta con su detalle.
type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNumber    string             `json:"sale_number"`
	CreatedAt     time.Time          `json:"created_at"`
	TotalGross    decimal.Decimal    `json:"total_gross"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	TotalNet      decimal.Decimal    `json:"total_net"`
	TotalNetBRL   string             `json:"total_net_brl"` // "R$ 1.234,56"
	ItemsCount    int                `json:"items_count"`
	Notes         string             `json:"notes,omitempty"`
	Items         []SaleItemResponse `json:"items,omitempty"`
}
