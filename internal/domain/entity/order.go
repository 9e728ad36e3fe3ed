package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-pdv/internal/domain"
)

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

const (
	OrderStatusAguardando OrderStatus = "AGUARDANDO" // esperando preparación (inicial)
	OrderStatusPreparado  OrderStatus = "PREPARADO"
	OrderStatusEnviado    OrderStatus = "ENVIADO"   // terminal
	OrderStatusCancelado  OrderStatus = "CANCELADO" // terminal
)

// OrderAction disparador de una transición.
type OrderAction string

const (
	OrderActionAdvance OrderAction = "advance"
	OrderActionShip    OrderAction = "ship"
	OrderActionCancel  OrderAction = "cancel"
)

// orderTransitions es la única tabla de transiciones permitidas.
// ENVIADO solo se alcanza con ship (única ruta que descuenta stock).
var orderTransitions = map[OrderStatus]map[OrderAction]OrderStatus{
	OrderStatusAguardando: {
		OrderActionAdvance: OrderStatusPreparado,
		OrderActionCancel:  OrderStatusCancelado,
	},
	OrderStatusPreparado: {
		OrderActionShip:   OrderStatusEnviado,
		OrderActionCancel: OrderStatusCancelado,
	},
}

// Valid indica si s es un estado conocido.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusAguardando, OrderStatusPreparado, OrderStatusEnviado, OrderStatusCancelado:
		return true
	}
	return false
}

// IsTerminal indica que no hay transiciones de salida.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Next devuelve el estado destino para la acción o ErrInvalidTransition.
func (s OrderStatus) Next(action OrderAction) (OrderStatus, error) {
	if to, ok := orderTransitions[s][action]; ok {
		return to, nil
	}
	return "", domain.NewFieldError(domain.ErrInvalidTransition, "status", string(s), "acción "+string(action)+" no permitida")
}

// Order cabecera de un pedido de despacho.
type Order struct {
	ID              string
	OrderNumber     string
	SaleID          *string // venta de origen (nil si se creó directamente)
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	CustomerEmail   string
	ShippingMethod  string
	ShippingCost    decimal.Decimal
	Status          OrderStatus
	CreatedAt       time.Time
	PreparedAt      *time.Time
	ReadyAt         *time.Time // sin uso en el flujo simplificado
	ShippedAt       *time.Time
	CanceledAt      *time.Time
	TotalGross      decimal.Decimal
	TotalDiscount   decimal.Decimal
	TotalNet        decimal.Decimal // incluye ShippingCost
	Notes           string
}

// Transition aplica la acción: valida contra la tabla y marca el timestamp correspondiente.
func (o *Order) Transition(action OrderAction, at time.Time) error {
	to, err := o.Status.Next(action)
	if err != nil {
		return err
	}
	ts := at
	switch to {
	case OrderStatusPreparado:
		o.PreparedAt = &ts
	case OrderStatusEnviado:
		o.ShippedAt = &ts
	case OrderStatusCancelado:
		o.CanceledAt = &ts
	}
	o.Status = to
	return nil
}

// LeadTimes horas entre hitos del pedido; nil si el hito no ocurrió.
type LeadTimes struct {
	ToPrepare *float64
	ToShip    *float64
}

// LeadTimes calcula creado→preparado y preparado→enviado en horas (2 decimales).
func (o *Order) LeadTimes() LeadTimes {
	return LeadTimes{
		ToPrepare: hoursBetween(&o.CreatedAt, o.PreparedAt),
		ToShip:    hoursBetween(o.PreparedAt, o.ShippedAt),
	}
}

func hoursBetween(from, to *time.Time) *float64 {
	if from == nil || to == nil || from.IsZero() {
		return nil
	}
	h, _ := decimal.NewFromFloat(to.Sub(*from).Hours()).Round(2).Float64()
	return &h
}

// OrderItem línea de pedido (misma forma que SaleItem).
type OrderItem struct {
	ID              string
	OrderID         string
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
