package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/application/fulfillment"
	"github.com/jhoicas/estoque-pdv/internal/application/sales"
)

// SaleHandler registro y consulta de ventas.
type SaleHandler struct {
	uc         *sales.SaleUseCase
	derivation *sales.OrderDerivation
	orders     *fulfillment.OrderUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, derivation *sales.OrderDerivation, orders *fulfillment.OrderUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, derivation: derivation, orders: orders}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Persiste la venta y encola la derivación del pedido. No descuenta stock.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Ítems y datos de envío"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateSale(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Derive godoc
// @Summary      Derivar pedido de la venta
// @Description  Reintenta la creación del pedido AGUARDANDO de la venta. Idempotente: si ya existe lo devuelve.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/derive [post]
func (h *SaleHandler) Derive(c *fiber.Ctx) error {
	order, err := h.derivation.DeriveSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.orders.Get(c.UserContext(), order.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Items godoc
// @Summary      Ítems de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {array}  dto.SaleItemResponse
// @Router       /api/sales/{id}/items [get]
func (h *SaleHandler) Items(c *fiber.Ctx) error {
	out, err := h.uc.Items(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, err := parseDateParam(c.Query("from"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido"})
	}
	to, err := parseDateParam(c.Query("to"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), from, to, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseDateParam acepta RFC3339 o YYYY-MM-DD; con endOfDay la fecha simple cubre el día completo.
func parseDateParam(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Microsecond)
	}
	return &t, nil
}
