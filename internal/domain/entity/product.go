package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-pdv/internal/domain/money"
)

// Product representa un producto del catálogo.
// StockQty solo cambia vía movimientos (ledger); InitialStockQty es la cantidad con la que
// se creó y no se registra como movimiento.
type Product struct {
	ID              string
	SKU             string // único, trim + mayúsculas
	Name            string
	Category        string
	GroupCode       string
	CostPrice       decimal.Decimal
	SalePrice       decimal.Decimal
	StockQty        int
	MinStock        int // solo alerta, nunca bloquea escrituras
	InitialStockQty int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Margin devuelve sale - cost.
func (p *Product) Margin() decimal.Decimal {
	return money.Round2(p.SalePrice).Sub(money.Round2(p.CostPrice))
}

// Markup devuelve (sale/cost - 1) * 100.
func (p *Product) Markup() decimal.Decimal {
	return money.Markup(money.Round2(p.SalePrice), money.Round2(p.CostPrice))
}

// IsLowStock indica stock por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.StockQty < p.MinStock
}
