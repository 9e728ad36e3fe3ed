package dto

import "time"

// AdjustStockRequest body para POST /api/products/:id/adjust.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// StockMovementResponse entrada del ledger.
type StockMovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Change    int       `json:"change"`
	Reason    string    `json:"reason"`
	RefType   string    `json:"ref_type"`
	RefID     *string   `json:"ref_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ReconciliationResponse resultado de conciliar ledger y stock.
// Balanced = InitialStockQty + MovementsTotal == StockQty.
type ReconciliationResponse struct {
	ProductID       string `json:"product_id"`
	InitialStockQty int    `json:"initial_stock_qty"`
	MovementsTotal  int    `json:"movements_total"`
	StockQty        int    `json:"stock_qty"`
	Balanced        bool   `json:"balanced"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un SKU bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	CurrentStock      int    `json:"current_stock"`
	MinStock          int    `json:"min_stock"`
	SuggestedOrderQty int    `json:"suggested_order_qty"` // MinStock - CurrentStock
	Priority          int    `json:"priority"`            // 1 = más urgente
}
