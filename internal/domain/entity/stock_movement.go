package entity

import "time"

// Tipos de referencia de un movimiento de stock.
const (
	RefTypeAdjust    = "ADJUST"     // ajuste manual
	RefTypeOrderShip = "ORDER_SHIP" // envío de pedido
)

// Motivos por defecto.
const (
	ReasonManualAdjust = "Ajuste manual"
	ReasonOrderShip    = "Envio de pedido"
)

// StockMovement es una entrada inmutable del ledger de stock.
// Change es positivo para entradas y negativo para salidas.
type StockMovement struct {
	ID        string
	ProductID string
	Change    int
	Reason    string
	RefType   string
	RefID     *string // ID del pedido en ORDER_SHIP; nil en ADJUST
	CreatedAt time.Time
}
