package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU       string `json:"sku" validate:"required,min=1,max=100"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Category  string `json:"category"`
	GroupCode string `json:"group_code"`
	CostPrice Amount `json:"cost_price"`
	SalePrice Amount `json:"sale_price"`
	StockQty  int    `json:"stock_qty" validate:"min=0"`
	MinStock  int    `json:"min_stock" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock: se maneja vía ajustes).
type UpdateProductRequest struct {
	SKU       string `json:"sku" validate:"required,min=1,max=100"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Category  string `json:"category"`
	GroupCode string `json:"group_code"`
	CostPrice Amount `json:"cost_price"`
	SalePrice Amount `json:"sale_price"`
	MinStock  int    `json:"min_stock" validate:"min=0"`
}

// SearchProductsRequest filtros de búsqueda.
type SearchProductsRequest struct {
	SKU       string `query:"sku"`
	Name      string `query:"name"`
	Category  string `query:"category"`
	GroupCode string `query:"group_code"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Category        string          `json:"category,omitempty"`
	GroupCode       string          `json:"group_code,omitempty"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	Margin          decimal.Decimal `json:"margin"`
	MarkupPercent   decimal.Decimal `json:"markup_percent"`
	StockQty        int             `json:"stock_qty"`
	MinStock        int             `json:"min_stock"`
	InitialStockQty int             `json:"initial_stock_qty"`
	LowStock        bool            `json:"low_stock"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}
