package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-pdv/internal/application/auth"
	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/application/fulfillment"
	"github.com/jhoicas/estoque-pdv/internal/application/inventory"
	"github.com/jhoicas/estoque-pdv/internal/application/sales"
	"github.com/jhoicas/estoque-pdv/internal/application/usecase"
	"github.com/jhoicas/estoque-pdv/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/estoque-pdv/internal/interfaces/http"
	"github.com/jhoicas/estoque-pdv/pkg/clock"
	"github.com/jhoicas/estoque-pdv/pkg/logger"
)

// buildRouterApp arma la API completa sobre el almacén en memoria con un admin/admin.
func buildRouterApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	clk := clock.System{}

	movements := inventory.NewRegisterMovementUseCase(tx, store.Products(), store.Movements(), clk)
	orders := fulfillment.NewOrderUseCase(tx, store.Orders(), store.Products(), movements, clk, fulfillment.Config{
		OrderPrefix:     "HND-ORD",
		DefaultCustomer: "Cliente",
		DefaultCarrier:  "Correios",
	})
	derivation := sales.NewOrderDerivation(tx, store.Sales(), store.Outbox(), orders, clk, logger.Nop())
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, clk)
	_, err := authUC.EnsureDefaultUser(context.Background(), "admin", "admin")
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:        usecase.NewProductUseCase(store.Products(), clk),
		UserUC:           usecase.NewUserUseCase(store.Users()),
		RegisterMovement: movements,
		Replenishment:    inventory.NewReplenishmentUseCase(store.Products()),
		SaleUC:           sales.NewSaleUseCase(tx, store.Sales(), store.Products(), derivation, clk, "HND"),
		Derivation:       derivation,
		OrderUC:          orders,
		AuthUC:           authUC,
		JWTSecret:        testJWTSecret,
	})
	return app
}

// call ejecuta el request y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	var out dto.LoginResponse
	status := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "admin"}, &out)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestRouter_HealthPublico(t *testing.T) {
	app := buildRouterApp(t)
	var out map[string]string
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", "", nil, &out))
	assert.Equal(t, "ok", out["status"])
}

func TestRouter_LoginInvalido(t *testing.T) {
	app := buildRouterApp(t)
	var out dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "x"}, &out)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", out.Code)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/products", "", nil, nil))
}

func TestRouter_VentaPedidoEnvio(t *testing.T) {
	app := buildRouterApp(t)
	token := login(t, app)

	var product dto.ProductResponse
	status := call(t, app, http.MethodPost, "/api/products", token, map[string]any{
		"sku": "ABC123", "name": "Caneca", "cost_price": 5, "sale_price": "10,00", "stock_qty": 20, "min_stock": 5,
	}, &product)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "5.00", product.Margin.StringFixed(2))

	var dupErr dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/products", token, map[string]any{
		"sku": "abc123", "name": "Outra", "cost_price": 5, "sale_price": 10,
	}, &dupErr)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_SKU", dupErr.Code)

	var sale dto.SaleResponse
	status = call(t, app, http.MethodPost, "/api/sales", token, map[string]any{
		"prefix": "ABC",
		"items":  []map[string]any{{"product_id": product.ID, "qty": 5, "unit_price": "10.00", "discount_percent": 0}},
	}, &sale)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ABC-000001", sale.SaleNumber)
	assert.Equal(t, "50.00", sale.TotalNet.StringFixed(2))
	assert.Equal(t, "R$ 50,00", sale.TotalNetBRL)

	var orders []dto.OrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/orders?status=AGUARDANDO", token, nil, &orders))
	require.Len(t, orders, 1)
	orderID := orders[0].ID
	assert.Equal(t, "R$ 50,00", orders[0].TotalNetBRL)

	// Derivar de nuevo devuelve el mismo pedido.
	var derived dto.OrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/sales/"+sale.ID+"/derive", token, nil, &derived))
	assert.Equal(t, orderID, derived.ID)
	assert.Equal(t, "AGUARDANDO", derived.Status)
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodPost, "/api/sales/no-existe/derive", token, nil, nil))

	var errOut dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/ship", token, nil, &errOut)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", errOut.Code)

	var st dto.OrderStatusResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/orders/"+orderID+"/advance", token, nil, &st))
	assert.Equal(t, "PREPARADO", st.Status)
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/orders/"+orderID+"/ship", token, nil, &st))
	assert.Equal(t, "ENVIADO", st.Status)

	var after dto.ProductResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products/"+product.ID, token, nil, &after))
	assert.Equal(t, 15, after.StockQty)

	var rec dto.ReconciliationResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products/"+product.ID+"/reconcile", token, nil, &rec))
	assert.True(t, rec.Balanced)
	assert.Equal(t, -5, rec.MovementsTotal)
}

func TestRouter_AjusteNegativo(t *testing.T) {
	app := buildRouterApp(t)
	token := login(t, app)

	var product dto.ProductResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/products", token, map[string]any{
		"sku": "X1", "name": "Lápis", "cost_price": 1, "sale_price": 2, "stock_qty": 2,
	}, &product))

	var errOut dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/products/"+product.ID+"/adjust", token, map[string]any{"delta": -3}, &errOut)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NEGATIVE_STOCK", errOut.Code)

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodPost, "/api/products/"+product.ID+"/adjust", token, map[string]any{"delta": 3, "reason": "Compra"}, nil))

	var movs []dto.StockMovementResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products/"+product.ID+"/movements", token, nil, &movs))
	require.Len(t, movs, 1)
	assert.Equal(t, "Compra", movs[0].Reason)
}
