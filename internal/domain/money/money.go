// Package money concentra la aritmética monetaria de punto fijo (2 decimales, redondeo
// half-away-from-zero) usada por ventas, pedidos y productos.
package money

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/estoque-pdv/internal/domain"
)

const scale = 2

var hundred = decimal.NewFromInt(100)

// ToFixed2 normaliza un valor (string, entero, float o decimal) a 2 decimales.
// Strings aceptan "R$", espacios y coma decimal ("1.234,56").
func ToFixed2(v any) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, domain.NewFieldError(domain.ErrValidation, "valor", nil, "valor nulo")
		}
		d = *x
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case float64:
		// NewFromFloat usa la representación decimal más corta, como str(float).
		d = decimal.NewFromFloat(x)
	case string:
		parsed, err := parseString(x)
		if err != nil {
			return decimal.Zero, err
		}
		d = parsed
	default:
		return decimal.Zero, domain.NewFieldError(domain.ErrValidation, "valor", v, fmt.Sprintf("tipo no soportado %T", v))
	}
	return Round2(d), nil
}

func parseString(s string) (decimal.Decimal, error) {
	v := strings.ReplaceAll(s, " ", "")
	v = strings.ReplaceAll(v, "R$", "")
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, domain.NewFieldError(domain.ErrValidation, "valor", s, "no es un número")
	}
	return d, nil
}

// Round2 redondea a 2 decimales (half away from zero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(scale)
}

// ValidatePositive exige valor > 0 (o >= 0 con allowZero).
func ValidatePositive(v any, allowZero bool) (decimal.Decimal, error) {
	d, err := ToFixed2(v)
	if err != nil {
		return decimal.Zero, err
	}
	if allowZero && d.IsNegative() {
		return decimal.Zero, domain.NewFieldError(domain.ErrInvalidAmount, "valor", d.StringFixed(scale), "debe ser mayor o igual a cero")
	}
	if !allowZero && !d.IsPositive() {
		return decimal.Zero, domain.NewFieldError(domain.ErrInvalidAmount, "valor", d.StringFixed(scale), "debe ser mayor que cero")
	}
	return d, nil
}

// ValidatePercent exige un porcentaje en [0,100].
func ValidatePercent(v any) (decimal.Decimal, error) {
	d, err := ToFixed2(v)
	if err != nil {
		return decimal.Zero, domain.NewFieldError(domain.ErrInvalidPercent, "descuento", v, "no es un número")
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, domain.NewFieldError(domain.ErrInvalidPercent, "descuento", d.StringFixed(scale), "debe estar entre 0 y 100")
	}
	return d, nil
}

// PercentOf calcula round2(amount * round2(percent)/100).
func PercentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(Round2(percent).Div(hundred)))
}

// Line contiene los valores redondeados de una línea de venta o pedido.
type Line struct {
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Gross           decimal.Decimal
	Discount        decimal.Decimal
	Net             decimal.Decimal
}

// ComputeLine aplica gross = round2(unit*qty), discount = round2(gross*pct/100), net = gross - discount.
// Cada valor se redondea aquí; los totales se obtienen sumando líneas ya redondeadas.
func ComputeLine(unitPrice decimal.Decimal, qty int, percent decimal.Decimal) Line {
	unit := Round2(unitPrice)
	pct := Round2(percent)
	gross := Round2(unit.Mul(decimal.NewFromInt(int64(qty))))
	discount := PercentOf(gross, pct)
	return Line{
		UnitPrice:       unit,
		DiscountPercent: pct,
		Gross:           gross,
		Discount:        discount,
		Net:             Round2(gross.Sub(discount)),
	}
}

// ParseLine valida 0 < qty <= domain.MaxQuantity, precio unitario >= 0 y porcentaje en [0,100] y calcula la línea.
func ParseLine(unitPrice any, qty int, percent any) (Line, error) {
	if qty <= 0 {
		return Line{}, domain.NewFieldError(domain.ErrInvalidQuantity, "qty", qty, "debe ser mayor que cero")
	}
	if qty > domain.MaxQuantity {
		return Line{}, domain.NewFieldError(domain.ErrInvalidQuantity, "qty", qty, fmt.Sprintf("máximo %d", domain.MaxQuantity))
	}
	unit, err := ValidatePositive(unitPrice, true)
	if err != nil {
		return Line{}, err
	}
	pct, err := ValidatePercent(percent)
	if err != nil {
		return Line{}, err
	}
	return ComputeLine(unit, qty, pct), nil
}

// Totals acumula líneas.
type Totals struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Net      decimal.Decimal
}

// Add suma una línea al acumulado.
func (t *Totals) Add(l Line) {
	t.Gross = t.Gross.Add(l.Gross)
	t.Discount = t.Discount.Add(l.Discount)
	t.Net = t.Net.Add(l.Net)
}

// Markup devuelve (sale/cost - 1) * 100 con 2 decimales; 0 si cost es 0.
func Markup(sale, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return Round2(sale.Div(cost).Sub(decimal.NewFromInt(1)).Mul(hundred))
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formatea como "R$ 1.234,56" (negativos "-R$ 1.234,56"). Trabaja sobre los dígitos
// del decimal: la parte entera se agrupa con la configuración pt-BR y los centavos se copian tal cual.
func FormatBRL(d decimal.Decimal) string {
	r := Round2(d)
	intPart, cents, _ := strings.Cut(r.Abs().StringFixed(scale), ".")
	grouped := intPart
	if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		grouped = brl.Sprint(number.Decimal(n))
	}
	sign := ""
	if r.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + grouped + "," + cents
}
