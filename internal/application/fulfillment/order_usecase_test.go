package fulfillment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/application/fulfillment"
	"github.com/jhoicas/estoque-pdv/internal/application/inventory"
	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/infrastructure/memory"
)

// stepClock avanza una hora en cada lectura.
type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Hour)
	return c.t
}

type fixture struct {
	store  *memory.Store
	orders *fulfillment.OrderUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := &stepClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	tx := memory.NewTxRunner(store)
	movements := inventory.NewRegisterMovementUseCase(tx, store.Products(), store.Movements(), clk)
	orders := fulfillment.NewOrderUseCase(tx, store.Orders(), store.Products(), movements, clk, fulfillment.Config{
		OrderPrefix:     "HND-ORD",
		DefaultCustomer: "Cliente",
		DefaultCarrier:  "Correios",
	})
	return &fixture{store: store, orders: orders}
}

func (f *fixture) product(t *testing.T, sku string, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             sku,
		Name:            "Produto " + sku,
		CostPrice:       decimal.NewFromInt(5),
		SalePrice:       decimal.NewFromInt(10),
		StockQty:        stock,
		InitialStockQty: stock,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQty
}

func line(productID string, qty int) dto.OrderItemRequest {
	return dto.OrderItemRequest{ProductID: productID, Qty: qty, UnitPrice: "10.00", DiscountPercent: "10"}
}

func TestCreateOrder_TotalesYValoresPorDefecto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "ABC", 10)

	o, err := f.orders.Create(context.Background(), dto.CreateOrderRequest{
		Items:        []dto.OrderItemRequest{line(p.ID, 3)},
		ShippingCost: "5,00",
	})
	require.NoError(t, err)
	assert.Equal(t, "HND-ORD-000001", o.OrderNumber)
	assert.Equal(t, string(entity.OrderStatusAguardando), o.Status)
	assert.Equal(t, "Cliente", o.CustomerName)
	assert.Equal(t, "Correios", o.ShippingMethod)
	assert.Equal(t, "30.00", o.TotalGross.StringFixed(2))
	assert.Equal(t, "3.00", o.TotalDiscount.StringFixed(2))
	assert.Equal(t, "32.00", o.TotalNet.StringFixed(2))
	require.Len(t, o.Items, 1)
	assert.Equal(t, "ABC", o.Items[0].SKU)
	assert.Equal(t, "Produto ABC", o.Items[0].Name)

	// Crear un pedido no toca stock.
	assert.Equal(t, 10, f.stock(t, p.ID))

	o2, err := f.orders.Create(context.Background(), dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line(p.ID, 1)}})
	require.NoError(t, err)
	assert.Equal(t, "HND-ORD-000002", o2.OrderNumber)
}

func TestOrderResponse_TotalEnReales(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "AAA", 5)

	o, err := f.orders.Create(context.Background(), dto.CreateOrderRequest{
		Items:        []dto.OrderItemRequest{line(a.ID, 3)},
		ShippingCost: "1.234,50",
	})
	require.NoError(t, err)
	assert.Equal(t, "1261.50", o.TotalNet.StringFixed(2))
	assert.Equal(t, "R$ 1.261,50", o.TotalNetBRL)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "ABC", 10)
	ctx := context.Background()

	_, err := f.orders.Create(ctx, dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	_, err = f.orders.Create(ctx, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line(p.ID, 0)}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.orders.Create(ctx, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line("no-existe", 1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.orders.Create(ctx, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line(p.ID, 1)}, ShippingCost: "-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	list, err := f.orders.List(ctx, dto.ListOrdersRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestShip_DescuentaStockYRegistraLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "AAA", 5)
	b := f.product(t, "BBB", 2)

	o, err := f.orders.Create(ctx, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line(a.ID, 3), line(b.ID, 2)}})
	require.NoError(t, err)
	_, err = f.orders.Advance(ctx, o.ID)
	require.NoError(t, err)

	st, err := f.orders.Ship(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusEnviado), st.Status)
	assert.Equal(t, 2, f.stock(t, a.ID))
	assert.Equal(t, 0, f.stock(t, b.ID))

	movs, err := f.store.Movements().ListByRef(ctx, entity.RefTypeOrderShip, o.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.ReasonOrderShip, m.Reason)
		assert.Negative(t, m.Change)
	}

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ShippedAt)
	require.NotNil(t, got.HoursToPrepare)
	require.NotNil(t, got.HoursToShip)
	assert.InDelta(t, 1.0, *got.HoursToPrepare, 0.001)
}

func TestShip_TodoONada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "AAA", 5)
	b := f.product(t, "BBB", 1)

	o, err := f.orders.Create(ctx, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line(a.ID, 3), line(b.ID, 2)}})
	require.NoError(t, err)
	_, err = f.orders.Advance(ctx, o.ID)
	require.NoError(t, err)

	_, err = f.orders.Ship(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, f.stock(t, a.ID))
	assert.Equal(t, 1, f.stock(t, b.ID))

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusPreparado), got.Status)
	assert.Nil(t, got.ShippedAt)

	movs, err := f.store.Movements().ListByRef(ctx, entity.RefTypeOrderShip, o.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestShip_AgregaLineasDelMismoProducto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "AAA", 5)

	o, err := f.orders.Create(ctx, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line(a.ID, 3), line(a.ID, 3)}})
	require.NoError(t, err)
	_, err = f.orders.Advance(ctx, o.ID)
	require.NoError(t, err)

	_, err = f.orders.Ship(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, f.stock(t, a.ID))
}

func TestShip_ProductoEliminado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "AAA", 5)

	o, err := f.orders.Create(ctx, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line(a.ID, 1)}})
	require.NoError(t, err)
	_, err = f.orders.Advance(ctx, o.ID)
	require.NoError(t, err)
	require.NoError(t, f.store.Products().Delete(ctx, a.ID))

	_, err = f.orders.Ship(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestShip_PedidoSinItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "AAA", 5)

	// Cabecera PREPARADO persistida sin líneas.
	o := &entity.Order{
		ID:          uuid.New().String(),
		OrderNumber: "HND-ORD-000099",
		Status:      entity.OrderStatusPreparado,
		CreatedAt:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.store.Orders().Create(ctx, o))

	_, err := f.orders.Ship(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusPreparado), got.Status)
	assert.Nil(t, got.ShippedAt)
	assert.Equal(t, 5, f.stock(t, a.ID))

	movs, err := f.store.Movements().ListByProduct(ctx, a.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestTransiciones_Ilegales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "AAA", 5)
	o, err := f.orders.Create(ctx, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line(a.ID, 1)}})
	require.NoError(t, err)

	_, err = f.orders.Ship(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 5, f.stock(t, a.ID))

	_, err = f.orders.Advance(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.orders.Advance(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.orders.Ship(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.orders.Advance(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_NoDevuelveStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "AAA", 5)
	o, err := f.orders.Create(ctx, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{line(a.ID, 2)}})
	require.NoError(t, err)
	_, err = f.orders.Advance(ctx, o.ID)
	require.NoError(t, err)

	st, err := f.orders.Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusCancelado), st.Status)
	assert.Equal(t, 5, f.stock(t, a.ID))

	_, err = f.orders.Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.orders.Ship(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestListOrders_FiltroPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "AAA", 5)
	o1, err := f.orders.Create(ctx, dto.CreateOrderRequest{CustomerName: "Maria", Items: []dto.OrderItemRequest{line(a.ID, 1)}})
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, dto.CreateOrderRequest{CustomerName: "João", Items: []dto.OrderItemRequest{line(a.ID, 1)}})
	require.NoError(t, err)
	_, err = f.orders.Advance(ctx, o1.ID)
	require.NoError(t, err)

	list, err := f.orders.List(ctx, dto.ListOrdersRequest{Status: "preparado"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, o1.ID, list[0].ID)

	list, err = f.orders.List(ctx, dto.ListOrdersRequest{Search: "joão"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "João", list[0].CustomerName)

	list, err = f.orders.List(ctx, dto.ListOrdersRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.orders.List(ctx, dto.ListOrdersRequest{Status: "PERDIDO"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
