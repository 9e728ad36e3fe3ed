package entity

import (
	"encoding/json"
	"time"
)

// Tipos de evento del outbox.
const (
	EventSaleCreated = "SaleCreated"
)

// OutboxEvent es un hecho persistido junto a la transacción que lo origina
// y consumido después por un paso separado (derivación de pedidos).
type OutboxEvent struct {
	ID          string
	Kind        string
	AggregateID string
	Payload     json.RawMessage
	CreatedAt   time.Time
	ProcessedAt *time.Time
	Attempts    int
	LastError   string
}

// SaleCreatedPayload datos de cliente/envío capturados en la venta para derivar el pedido.
type SaleCreatedPayload struct {
	SaleNumber      string `json:"sale_number"`
	CustomerName    string `json:"customer_name,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	CustomerAddress string `json:"customer_address,omitempty"`
	ShippingMethod  string `json:"shipping_method,omitempty"`
	ShippingCost    string `json:"shipping_cost"`
}
