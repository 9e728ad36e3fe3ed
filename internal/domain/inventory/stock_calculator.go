package inventory

import (
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/estoque-pdv/internal/domain"
)

// ApplyChange implementa la regla de saldo (servicio de dominio): NuevoStock = StockActual + Delta >= 0.
// |delta| y el saldo resultante no pueden superar domain.MaxQuantity.
func ApplyChange(current, delta int) (int, error) {
	if delta > domain.MaxQuantity || delta < -domain.MaxQuantity {
		return current, domain.NewFieldError(domain.ErrInvalidQuantity, "delta", delta,
			fmt.Sprintf("máximo %d en valor absoluto", domain.MaxQuantity))
	}
	if delta > 0 && current > domain.MaxQuantity-delta {
		return current, domain.NewFieldError(domain.ErrInvalidQuantity, "delta", delta,
			fmt.Sprintf("stock actual %d, máximo %d", current, domain.MaxQuantity))
	}
	next := current + delta
	if next < 0 {
		return current, domain.NewFieldError(domain.ErrNegativeStockResult, "delta", delta,
			fmt.Sprintf("stock actual %d", current))
	}
	return next, nil
}

// Demand agrupa cantidades solicitadas por producto (un pedido puede repetir producto en varias líneas).
type Demand map[string]int

// Add suma qty al producto. La suma satura en math.MaxInt: una demanda enorme sigue
// siendo mayor que cualquier stock.
func (d Demand) Add(productID string, qty int) {
	cur := d[productID]
	if qty > 0 && cur > math.MaxInt-qty {
		d[productID] = math.MaxInt
		return
	}
	d[productID] = cur + qty
}

// ProductIDs devuelve los IDs ordenados (orden estable para bloquear filas).
func (d Demand) ProductIDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Shortage describe un producto sin stock suficiente.
type Shortage struct {
	ProductID string
	Requested int
	Available int
}

// Shortages compara la demanda contra el stock disponible; productos ausentes cuentan como 0.
func Shortages(demand Demand, available map[string]int) []Shortage {
	var out []Shortage
	for _, id := range demand.ProductIDs() {
		if have := available[id]; have < demand[id] {
			out = append(out, Shortage{ProductID: id, Requested: demand[id], Available: have})
		}
	}
	return out
}

// InsufficientStockError construye el error de dominio a partir de la primera falta.
func InsufficientStockError(s []Shortage) error {
	if len(s) == 0 {
		return nil
	}
	first := s[0]
	return domain.NewFieldError(domain.ErrInsufficientStock, "product_id", first.ProductID,
		fmt.Sprintf("solicitado %d, disponible %d (%d producto(s) sin stock)", first.Requested, first.Available, len(s)))
}
