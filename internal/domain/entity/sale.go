package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es la cabecera de una venta. Inmutable una vez creada (registro financiero).
type Sale struct {
	ID            string
	SaleNumber    string
	CreatedAt     time.Time
	TotalGross    decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalNet      decimal.Decimal
	ItemsCount    int
	Notes         string
}

// SaleItem es una línea de venta.
type SaleItem struct {
	ID              string
	SaleID          string
	ProductID       string
	SKU             string
	Name            string
	Qty             int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountValue   decimal.Decimal
	SubtotalGross   decimal.Decimal
	SubtotalNet     decimal.Decimal
}
