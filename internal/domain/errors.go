package domain

import (
	"errors"
	"fmt"
	"math"
)

// MaxQuantity tope para cantidades de línea, deltas y saldos de stock (columna INTEGER).
const MaxQuantity = math.MaxInt32

// Errores de dominio (sin dependencias externas).
var (
	ErrValidation          = errors.New("entrada inválida")
	ErrInvalidAmount       = errors.New("valor monetario inválido")
	ErrInvalidPercent      = errors.New("porcentaje inválido")
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrDuplicateSKU        = errors.New("SKU ya registrado")
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrEmptyOrder          = errors.New("el pedido debe tener al menos un ítem")
	ErrEmptySale           = errors.New("la venta debe tener al menos un ítem")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrNegativeStockResult = errors.New("el ajuste dejaría el stock negativo")
	ErrInvalidPrefix       = errors.New("prefijo inválido")
	ErrUnauthorized        = errors.New("no autorizado")
)

// FieldError agrega contexto (campo, valor ofensivo) a un error de dominio.
// errors.Is(err, domain.ErrX) sigue funcionando sobre el sentinel envuelto.
type FieldError struct {
	Err    error
	Field  string
	Value  any
	Detail string
}

func (e *FieldError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Value != nil {
		msg = fmt.Sprintf("%s (valor: %v)", msg, e.Value)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s; %s", msg, e.Detail)
	}
	return msg
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError construye un FieldError.
func NewFieldError(err error, field string, value any, detail string) error {
	return &FieldError{Err: err, Field: field, Value: value, Detail: detail}
}
