package fulfillment

import (
	"context"
	"strings"

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

// Config valores por defecto para pedidos.
type Config struct {
	OrderPrefix     string // HND-ORD
	DefaultCustomer string // Cliente
	DefaultCarrier  string // Correios
}

// OrderUseCase ciclo de vida de pedidos: AGUARDANDO -> PREPARADO -> ENVIADO, o CANCELADO.
// Solo Ship descuenta stock.
type OrderUseCase struct {
	txRunner    TxRunner
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	stock       StockMover
	clock       clock.Clock
	cfg         Config
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	stock StockMover,
	clk clock.Clock,
	cfg Config,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		stock:       stock,
		clock:       clk,
		cfg:         cfg,
	}
}

// Create valida, calcula totales y persiste cabecera + ítems en una transacción. No toca stock.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order, items, err := uc.build(ctx, in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.RunFulfillment(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.ProductRepository,
		_ repository.StockMovementRepository,
	) error {
		return uc.insert(ctx, orderRepo, order, items)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, items), nil
}

// CreateInTx crea el pedido con el repositorio de la transacción del caller (derivación desde venta).
func (uc *OrderUseCase) CreateInTx(ctx context.Context, orderRepo repository.OrderRepository, in dto.CreateOrderRequest) (*entity.Order, error) {
	order, items, err := uc.build(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := uc.insert(ctx, orderRepo, order, items); err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *OrderUseCase) build(ctx context.Context, in dto.CreateOrderRequest) (*entity.Order, []*entity.OrderItem, error) {
	if len(in.Items) == 0 {
		return nil, nil, domain.ErrEmptyOrder
	}
	shipping, err := money.ValidatePositive(in.ShippingCost.OrZero(), true)
	if err != nil {
		return nil, nil, err
	}
	order := &entity.Order{
		ID:              uuid.New().String(),
		SaleID:          in.SaleID,
		CustomerName:    firstNonEmpty(in.CustomerName, uc.cfg.DefaultCustomer),
		CustomerAddress: strings.TrimSpace(in.CustomerAddress),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		ShippingMethod:  firstNonEmpty(in.ShippingMethod, uc.cfg.DefaultCarrier),
		ShippingCost:    shipping,
		Status:          entity.OrderStatusAguardando,
		Notes:           strings.TrimSpace(in.Notes),
	}

	var totals money.Totals
	items := make([]*entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		line, err := money.ParseLine(it.UnitPrice.OrZero(), it.Qty, it.DiscountPercent.OrZero())
		if err != nil {
			return nil, nil, err
		}
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, nil, domain.NewFieldError(domain.ErrValidation, "product_id", nil, "requerido")
		}
		sku, name := strings.TrimSpace(it.SKU), strings.TrimSpace(it.Name)
		if sku == "" || name == "" {
			p, err := uc.productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, nil, err
			}
			if p == nil {
				return nil, nil, domain.NewFieldError(domain.ErrNotFound, "product_id", it.ProductID, "")
			}
			sku, name = firstNonEmpty(sku, p.SKU), firstNonEmpty(name, p.Name)
		}
		totals.Add(line)
		items = append(items, &entity.OrderItem{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			ProductID:       it.ProductID,
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
	order.TotalGross = totals.Gross
	order.TotalDiscount = totals.Discount
	// El frete solo entra en el neto.
	order.TotalNet = money.Round2(totals.Net.Add(shipping))
	return order, items, nil
}

func (uc *OrderUseCase) insert(ctx context.Context, orderRepo repository.OrderRepository, order *entity.Order, items []*entity.OrderItem) error {
	last, err := orderRepo.LastNumber(ctx, uc.cfg.OrderPrefix)
	if err != nil {
		return err
	}
	order.OrderNumber = numbering.NextOrderNumber(uc.cfg.OrderPrefix, last)
	order.CreatedAt = uc.clock.Now()
	if err := orderRepo.Create(ctx, order); err != nil {
		return err
	}
	for _, it := range items {
		if err := orderRepo.CreateItem(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

// Advance pasa AGUARDANDO -> PREPARADO. Nunca llega a ENVIADO.
func (uc *OrderUseCase) Advance(ctx context.Context, id string) (*dto.OrderStatusResponse, error) {
	return uc.transition(ctx, id, entity.OrderActionAdvance)
}

// Cancel pasa AGUARDANDO o PREPARADO -> CANCELADO. No devuelve ni descuenta stock.
func (uc *OrderUseCase) Cancel(ctx context.Context, id string) (*dto.OrderStatusResponse, error) {
	return uc.transition(ctx, id, entity.OrderActionCancel)
}

func (uc *OrderUseCase) transition(ctx context.Context, id string, action entity.OrderAction) (*dto.OrderStatusResponse, error) {
	var out *dto.OrderStatusResponse
	err := uc.txRunner.RunFulfillment(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.ProductRepository,
		_ repository.StockMovementRepository,
	) error {
		order, err := lockOrder(ctx, orderRepo, id)
		if err != nil {
			return err
		}
		if err := order.Transition(action, uc.clock.Now()); err != nil {
			return err
		}
		if err := orderRepo.UpdateStatus(ctx, order); err != nil {
			return err
		}
		out = &dto.OrderStatusResponse{ID: order.ID, Status: string(order.Status)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Ship pasa PREPARADO -> ENVIADO y descuenta el stock de todos los ítems en la misma transacción.
// La suficiencia se verifica para todos los productos (bloqueados) antes de escribir: todo o nada.
func (uc *OrderUseCase) Ship(ctx context.Context, id string) (*dto.OrderStatusResponse, error) {
	var out *dto.OrderStatusResponse
	err := uc.txRunner.RunFulfillment(ctx, func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		order, err := lockOrder(ctx, orderRepo, id)
		if err != nil {
			return err
		}
		if _, err := order.Status.Next(entity.OrderActionShip); err != nil {
			return err
		}
		items, err := orderRepo.GetItems(ctx, order.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.NewFieldError(domain.ErrEmptyOrder, "order_id", order.ID, "")
		}

		demand := inventory.Demand{}
		for _, it := range items {
			demand.Add(it.ProductID, it.Qty)
		}
		// Bloqueo en orden de ID para evitar deadlocks entre envíos concurrentes.
		locked := make(map[string]*entity.Product, len(demand))
		available := make(map[string]int, len(demand))
		for _, pid := range demand.ProductIDs() {
			p, err := productRepo.GetForUpdate(ctx, pid)
			if err != nil {
				return err
			}
			if p == nil {
				continue
			}
			locked[pid] = p
			available[pid] = p.StockQty
		}
		if shortages := inventory.Shortages(demand, available); len(shortages) > 0 {
			return inventory.InsufficientStockError(shortages)
		}

		now := uc.clock.Now()
		orderID := order.ID
		for _, it := range items {
			err := uc.stock.ApplyMovementInTx(ctx, movRepo, productRepo, locked[it.ProductID],
				-it.Qty, entity.ReasonOrderShip, entity.RefTypeOrderShip, &orderID, now)
			if err != nil {
				return err
			}
		}
		if err := order.Transition(entity.OrderActionShip, now); err != nil {
			return err
		}
		if err := orderRepo.UpdateStatus(ctx, order); err != nil {
			return err
		}
		out = &dto.OrderStatusResponse{ID: order.ID, Status: string(order.Status)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func lockOrder(ctx context.Context, orderRepo repository.OrderRepository, id string) (*entity.Order, error) {
	order, err := orderRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "order_id", id, "")
	}
	return order, nil
}

// Get devuelve el pedido con ítems y tiempos de preparación/envío.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "order_id", id, "")
	}
	items, err := uc.orderRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, items), nil
}

// Items devuelve las líneas del pedido.
func (uc *OrderUseCase) Items(ctx context.Context, id string) ([]dto.OrderItemResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "order_id", id, "")
	}
	items, err := uc.orderRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderItems(items), nil
}

// List lista pedidos (más recientes primero) filtrando por estado y por número/cliente.
func (uc *OrderUseCase) List(ctx context.Context, in dto.ListOrdersRequest) ([]dto.OrderResponse, error) {
	status := entity.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if status != "" && !status.Valid() {
		return nil, domain.NewFieldError(domain.ErrValidation, "status", in.Status, "estado desconocido")
	}
	list, err := uc.orderRepo.List(ctx, repository.OrderFilter{
		Status: status,
		Search: strings.TrimSpace(in.Search),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o, nil))
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func toOrderResponse(o *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	lt := o.LeadTimes()
	resp := &dto.OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		SaleID:          o.SaleID,
		CustomerName:    o.CustomerName,
		CustomerAddress: o.CustomerAddress,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		ShippingMethod:  o.ShippingMethod,
		ShippingCost:    o.ShippingCost,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		PreparedAt:      o.PreparedAt,
		ShippedAt:       o.ShippedAt,
		CanceledAt:      o.CanceledAt,
		TotalGross:      o.TotalGross,
		TotalDiscount:   o.TotalDiscount,
		TotalNet:        o.TotalNet,
		TotalNetBRL:     money.FormatBRL(o.TotalNet),
		Notes:           o.Notes,
		HoursToPrepare:  lt.ToPrepare,
		HoursToShip:     lt.ToShip,
	}
	if len(items) > 0 {
		resp.Items = toOrderItems(items)
	}
	return resp
}

func toOrderItems(items []*entity.OrderItem) []dto.OrderItemResponse {
	out := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OrderItemResponse{
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

