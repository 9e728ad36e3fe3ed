package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/money"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
	"github.com/jhoicas/estoque-pdv/pkg/clock"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos
// (inventory.RegisterMovementUseCase); el stock inicial es la única excepción.
type ProductUseCase struct {
	repo  repository.ProductRepository
	clock clock.Clock
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, clk clock.Clock) *ProductUseCase {
	return &ProductUseCase{repo: repo, clock: clk}
}

type productFields struct {
	sku, name, category, groupCode string
	cost, sale                     decimal.Decimal
}

func validateProduct(sku, name, category, groupCode string, costIn, saleIn dto.Amount) (*productFields, error) {
	f := &productFields{
		sku:       strings.ToUpper(strings.TrimSpace(sku)),
		name:      strings.TrimSpace(name),
		category:  strings.TrimSpace(category),
		groupCode: strings.TrimSpace(groupCode),
	}
	if f.sku == "" {
		return nil, domain.NewFieldError(domain.ErrValidation, "sku", nil, "requerido")
	}
	if f.name == "" {
		return nil, domain.NewFieldError(domain.ErrValidation, "name", nil, "requerido")
	}
	cost, err := money.ValidatePositive(costIn.OrZero(), false)
	if err != nil {
		return nil, err
	}
	sale, err := money.ValidatePositive(saleIn.OrZero(), true)
	if err != nil {
		return nil, err
	}
	if sale.LessThan(cost) {
		return nil, domain.NewFieldError(domain.ErrInvalidAmount, "sale_price", sale.StringFixed(2),
			"menor que el costo "+cost.StringFixed(2))
	}
	f.cost, f.sale = cost, sale
	return f, nil
}

// Create crea un nuevo producto. El stock inicial se graba sin movimiento y queda en InitialStockQty.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	f, err := validateProduct(in.SKU, in.Name, in.Category, in.GroupCode, in.CostPrice, in.SalePrice)
	if err != nil {
		return nil, err
	}
	if in.StockQty < 0 || in.StockQty > domain.MaxQuantity {
		return nil, domain.NewFieldError(domain.ErrInvalidQuantity, "stock_qty", in.StockQty, "fuera de rango")
	}
	if in.MinStock < 0 {
		return nil, domain.NewFieldError(domain.ErrInvalidQuantity, "min_stock", in.MinStock, "no puede ser negativo")
	}
	existing, err := uc.repo.GetBySKU(ctx, f.sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewFieldError(domain.ErrDuplicateSKU, "sku", f.sku, "")
	}
	now := uc.clock.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             f.sku,
		Name:            f.name,
		Category:        f.category,
		GroupCode:       f.groupCode,
		CostPrice:       f.cost,
		SalePrice:       f.sale,
		StockQty:        in.StockQty,
		MinStock:        in.MinStock,
		InitialStockQty: in.StockQty,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "product_id", id, "")
	}
	return toProductResponse(product), nil
}

// Update actualiza datos de catálogo. No permite modificar stock (se maneja vía ajustes).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	f, err := validateProduct(in.SKU, in.Name, in.Category, in.GroupCode, in.CostPrice, in.SalePrice)
	if err != nil {
		return nil, err
	}
	if in.MinStock < 0 {
		return nil, domain.NewFieldError(domain.ErrInvalidQuantity, "min_stock", in.MinStock, "no puede ser negativo")
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "product_id", id, "")
	}
	other, err := uc.repo.GetBySKU(ctx, f.sku)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != product.ID {
		return nil, domain.NewFieldError(domain.ErrDuplicateSKU, "sku", f.sku, "")
	}
	product.SKU = f.sku
	product.Name = f.name
	product.Category = f.category
	product.GroupCode = f.groupCode
	product.CostPrice = f.cost
	product.SalePrice = f.sale
	product.MinStock = in.MinStock
	product.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID. Borrar un ID inexistente no es error.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// Search busca por substring (sin distinguir mayúsculas) en los campos informados, ordenado por nombre.
func (uc *ProductUseCase) Search(ctx context.Context, in dto.SearchProductsRequest) (*dto.ProductListResponse, error) {
	list, err := uc.repo.Search(ctx, repository.ProductFilter{
		SKU:       strings.TrimSpace(in.SKU),
		Name:      strings.TrimSpace(in.Name),
		Category:  strings.TrimSpace(in.Category),
		GroupCode: strings.TrimSpace(in.GroupCode),
	})
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// LowStock lista productos con stock_qty < min_stock.
func (uc *ProductUseCase) LowStock(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

func toProductList(list []*entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Category:        p.Category,
		GroupCode:       p.GroupCode,
		CostPrice:       p.CostPrice,
		SalePrice:       p.SalePrice,
		Margin:          p.Margin(),
		MarkupPercent:   p.Markup(),
		StockQty:        p.StockQty,
		MinStock:        p.MinStock,
		InitialStockQty: p.InitialStockQty,
		LowStock:        p.IsLowStock(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
