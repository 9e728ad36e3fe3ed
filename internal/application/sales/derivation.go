package sales

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/money"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
	"github.com/jhoicas/estoque-pdv/pkg/clock"
	"github.com/jhoicas/estoque-pdv/pkg/logger"
)

const (
	drainBatch     = 100
	derivationNote = "Gerado automaticamente da venda "
)

// OrderDerivation consume eventos SaleCreated y crea el pedido AGUARDANDO correspondiente.
// El pedido y la marca de procesado se escriben en la misma tx: un evento procesado siempre tiene pedido.
type OrderDerivation struct {
	txRunner   TxRunner
	saleRepo   repository.SaleRepository
	outboxRepo repository.OutboxRepository
	orders     OrderCreator
	clock      clock.Clock
	log        *logger.Logger
}

// NewOrderDerivation construye el consumidor.
func NewOrderDerivation(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	outboxRepo repository.OutboxRepository,
	orders OrderCreator,
	clk clock.Clock,
	log *logger.Logger,
) *OrderDerivation {
	return &OrderDerivation{
		txRunner:   txRunner,
		saleRepo:   saleRepo,
		outboxRepo: outboxRepo,
		orders:     orders,
		clock:      clk,
		log:        log,
	}
}

// Handle crea el pedido para el evento. Si la venta ya tiene pedido solo marca el evento (idempotente).
func (d *OrderDerivation) Handle(ctx context.Context, event *entity.OutboxEvent) error {
	_, err := d.derive(ctx, event)
	return err
}

// DeriveSale reintenta a pedido la derivación de una venta. Reusa el último evento de la venta
// (o encola uno nuevo si no hay) y devuelve el pedido, creado ahora o ya existente.
func (d *OrderDerivation) DeriveSale(ctx context.Context, saleID string) (*entity.Order, error) {
	event, err := d.outboxRepo.FindByAggregate(ctx, entity.EventSaleCreated, saleID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		sale, err := d.saleRepo.GetByID(ctx, saleID)
		if err != nil {
			return nil, err
		}
		if sale == nil {
			return nil, domain.NewFieldError(domain.ErrNotFound, "sale_id", saleID, "")
		}
		event = &entity.OutboxEvent{
			ID:          uuid.New().String(),
			Kind:        entity.EventSaleCreated,
			AggregateID: sale.ID,
			CreatedAt:   d.clock.Now(),
		}
		if err := d.outboxRepo.Enqueue(ctx, event); err != nil {
			return nil, err
		}
	}
	order, err := d.derive(ctx, event)
	if err != nil {
		d.markFailed(ctx, event, err)
		return nil, err
	}
	return order, nil
}

func (d *OrderDerivation) derive(ctx context.Context, event *entity.OutboxEvent) (*entity.Order, error) {
	if event.Kind != entity.EventSaleCreated {
		return nil, domain.NewFieldError(domain.ErrValidation, "kind", event.Kind, "evento no soportado")
	}
	sale, err := d.saleRepo.GetByID(ctx, event.AggregateID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "sale_id", event.AggregateID, "")
	}
	items, err := d.saleRepo.GetItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	var payload entity.SaleCreatedPayload
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode sale event: %w", err)
		}
	}

	saleID := sale.ID
	req := dto.CreateOrderRequest{
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		CustomerEmail:   payload.CustomerEmail,
		CustomerAddress: payload.CustomerAddress,
		ShippingMethod:  payload.ShippingMethod,
		ShippingCost:    dto.Amount(payload.ShippingCost),
		Notes:           derivationNote + sale.SaleNumber,
		SaleID:          &saleID,
		Items:           make([]dto.OrderItemRequest, 0, len(items)),
	}
	for _, it := range items {
		req.Items = append(req.Items, dto.OrderItemRequest{
			ProductID:       it.ProductID,
			SKU:             it.SKU,
			Name:            it.Name,
			Qty:             it.Qty,
			UnitPrice:       dto.Amount(it.UnitPrice.StringFixed(2)),
			DiscountPercent: dto.Amount(it.DiscountPercent.StringFixed(2)),
		})
	}

	var order *entity.Order
	err = d.txRunner.RunDerivation(ctx, func(orderRepo repository.OrderRepository, outboxRepo repository.OutboxRepository) error {
		existing, err := orderRepo.GetBySaleID(ctx, saleID)
		if err != nil {
			return err
		}
		order = existing
		if existing == nil {
			created, err := d.orders.CreateInTx(ctx, orderRepo, req)
			if err != nil {
				return err
			}
			order = created
			d.log.Info().
				Str("sale_number", sale.SaleNumber).
				Str("order_number", created.OrderNumber).
				Str("total", money.FormatBRL(created.TotalNet)).
				Msg("pedido derivado de la venta")
		}
		if event.ProcessedAt != nil {
			return nil
		}
		return outboxRepo.MarkProcessed(ctx, event.ID, d.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Process ejecuta Handle sin propagar errores: los registra en el log y en el evento.
// Devuelve true si el evento quedó procesado.
func (d *OrderDerivation) Process(ctx context.Context, event *entity.OutboxEvent) bool {
	err := d.Handle(ctx, event)
	if err == nil {
		return true
	}
	d.markFailed(ctx, event, err)
	return false
}

func (d *OrderDerivation) markFailed(ctx context.Context, event *entity.OutboxEvent, err error) {
	d.log.Error().Err(err).
		Str("event_id", event.ID).
		Str("sale_id", event.AggregateID).
		Msg("no se pudo derivar el pedido de la venta")
	if markErr := d.outboxRepo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
		d.log.Error().Err(markErr).Str("event_id", event.ID).Msg("no se pudo registrar la falla del evento")
	}
}

// DrainPending reprocesa los eventos SaleCreated pendientes en lotes de drainBatch hasta agotarlos.
// Los que vuelven a fallar siguen pendientes; el offset los salta en los lotes siguientes.
func (d *OrderDerivation) DrainPending(ctx context.Context) (processed, failed int, err error) {
	for {
		var events []*entity.OutboxEvent
		events, err = d.outboxRepo.ListPending(ctx, entity.EventSaleCreated, failed, drainBatch)
		if err != nil {
			return processed, failed, err
		}
		for _, ev := range events {
			if err = ctx.Err(); err != nil {
				return processed, failed, err
			}
			if d.Process(ctx, ev) {
				processed++
			} else {
				failed++
			}
		}
		if len(events) < drainBatch {
			break
		}
	}
	if processed+failed > 0 {
		d.log.Info().Int("processed", processed).Int("failed", failed).Msg("eventos de venta pendientes reprocesados")
	}
	return processed, failed, nil
}
