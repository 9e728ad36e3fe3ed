package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

// ReplenishmentUseCase arma la lista de reposición a partir de los productos bajo su stock mínimo.
// min_stock es solo una alerta: nada aquí bloquea ventas ni envíos.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo}
}

// GenerateReplenishmentList devuelve los productos con stock_qty < min_stock, con la cantidad
// sugerida (min_stock - stock_qty) y prioridad por proporción faltante.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	products, err := uc.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			CurrentStock:      p.StockQty,
			MinStock:          p.MinStock,
			SuggestedOrderQty: p.MinStock - p.StockQty,
		})
	}

	// Mayor proporción faltante primero; empate por nombre.
	sort.SliceStable(suggestions, func(i, j int) bool {
		ri := shortfallRatio(suggestions[i])
		rj := shortfallRatio(suggestions[j])
		if ri != rj {
			return ri > rj
		}
		return suggestions[i].ProductName < suggestions[j].ProductName
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func shortfallRatio(s dto.ReplenishmentSuggestionDTO) float64 {
	if s.MinStock <= 0 {
		return 0
	}
	return float64(s.SuggestedOrderQty) / float64(s.MinStock)
}
