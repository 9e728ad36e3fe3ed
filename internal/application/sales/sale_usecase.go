package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/inventory"
	"github.com/jhoicas/estoque-pdv/internal/domain/money"
	"github.com/jhoicas/estoque-pdv/internal/domain/numbering"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
	"github.com/jhoicas/estoque-pdv/pkg/clock"
)

// SaleUseCase registra ventas. La venta no descuenta stock: eso ocurre al enviar el pedido derivado.
type SaleUseCase struct {
	txRunner      TxRunner
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
	derivation    *OrderDerivation
	clock         clock.Clock
	defaultPrefix string
}

// NewSaleUseCase construye el caso de uso. derivation puede ser nil (el evento queda pendiente).
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	derivation *OrderDerivation,
	clk clock.Clock,
	defaultPrefix string,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:      txRunner,
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		derivation:    derivation,
		clock:         clk,
		defaultPrefix: defaultPrefix,
	}
}

// CreateSale valida ítems, calcula totales y persiste venta + ítems + evento SaleCreated.
// Después del commit intenta derivar el pedido; una falla ahí se registra en el log y no afecta la venta.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptySale
	}
	prefix := in.Prefix
	if strings.TrimSpace(prefix) == "" {
		prefix = uc.defaultPrefix
	}
	prefix, err := numbering.NormalizeSalePrefix(prefix)
	if err != nil {
		return nil, err
	}
	shipping, err := money.ValidatePositive(in.ShippingCost.OrZero(), true)
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		ID:    uuid.New().String(),
		Notes: strings.TrimSpace(in.Notes),
	}
	var totals money.Totals
	demand := inventory.Demand{}
	available := map[string]int{}
	items := make([]*entity.SaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		line, err := money.ParseLine(it.UnitPrice.OrZero(), it.Qty, it.DiscountPercent.OrZero())
		if err != nil {
			return nil, err
		}
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.NewFieldError(domain.ErrNotFound, "product_id", it.ProductID, "producto inexistente")
		}
		demand.Add(product.ID, it.Qty)
		available[product.ID] = product.StockQty

		sku, name := strings.TrimSpace(it.SKU), strings.TrimSpace(it.Name)
		if sku == "" {
			sku = product.SKU
		}
		if name == "" {
			name = product.Name
		}
		totals.Add(line)
		items = append(items, &entity.SaleItem{
			ID:              uuid.New().String(),
			SaleID:          sale.ID,
			ProductID:       product.ID,
			SKU:             sku,
			Name:            name,
			Qty:             it.Qty,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			DiscountValue:   line.Discount,
			SubtotalGross:   line.Gross,
			SubtotalNet:     line.Net,
		})
	}
	// Verificación consultiva: no reserva stock, el envío vuelve a verificar bajo bloqueo.
	if shortages := inventory.Shortages(demand, available); len(shortages) > 0 {
		return nil, inventory.InsufficientStockError(shortages)
	}
	sale.TotalGross = totals.Gross
	sale.TotalDiscount = totals.Discount
	sale.TotalNet = totals.Net
	sale.ItemsCount = len(items)

	var event *entity.OutboxEvent
	err = uc.txRunner.RunSales(ctx, func(saleRepo repository.SaleRepository, outboxRepo repository.OutboxRepository) error {
		last, err := saleRepo.LastNumber(ctx, prefix)
		if err != nil {
			return err
		}
		number, err := numbering.NextSaleNumber(prefix, last)
		if err != nil {
			return err
		}
		sale.SaleNumber = number
		sale.CreatedAt = uc.clock.Now()
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for _, it := range items {
			if err := saleRepo.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		payload, err := json.Marshal(entity.SaleCreatedPayload{
			SaleNumber:      sale.SaleNumber,
			CustomerName:    strings.TrimSpace(in.CustomerName),
			CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
			CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
			CustomerAddress: strings.TrimSpace(in.CustomerAddress),
			ShippingMethod:  strings.TrimSpace(in.ShippingMethod),
			ShippingCost:    shipping.StringFixed(2),
		})
		if err != nil {
			return fmt.Errorf("marshal sale event: %w", err)
		}
		event = &entity.OutboxEvent{
			ID:          uuid.New().String(),
			Kind:        entity.EventSaleCreated,
			AggregateID: sale.ID,
			Payload:     payload,
			CreatedAt:   sale.CreatedAt,
		}
		return outboxRepo.Enqueue(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	if uc.derivation != nil {
		uc.derivation.Process(ctx, event)
	}
	return toSaleResponse(sale, items), nil
}

// Get devuelve la venta con su detalle.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "sale_id", id, "")
	}
	items, err := uc.saleRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// Items devuelve las líneas de la venta.
func (uc *SaleUseCase) Items(ctx context.Context, id string) ([]dto.SaleItemResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "sale_id", id, "")
	}
	items, err := uc.saleRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleItems(items), nil
}

// List lista ventas en el rango [from, to] (ambos opcionales), más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, from, to *time.Time, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.DefaultPage()
	list, err := uc.saleRepo.List(ctx, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s, nil))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		CreatedAt:     s.CreatedAt,
		TotalGross:    s.TotalGross,
		TotalDiscount: s.TotalDiscount,
		TotalNet:      s.TotalNet,
		TotalNetBRL:   money.FormatBRL(s.TotalNet),
		ItemsCount:    s.ItemsCount,
		Notes:         s.Notes,
	}
	if len(items) > 0 {
		resp.Items = toSaleItems(items)
	}
	return resp
}

func toSaleItems(items []*entity.SaleItem) []dto.SaleItemResponse {
	out := make([]dto.SaleItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.SaleItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			SKU:             it.SKU,
			Name:            it.Name,
			Qty:             it.Qty,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			DiscountValue:   it.DiscountValue,
			SubtotalGross:   it.SubtotalGross,
			SubtotalNet:     it.SubtotalNet,
		})
	}
	return out
}
