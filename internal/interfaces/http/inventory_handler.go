package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/application/inventory"
)

// InventoryHandler ajustes de stock, ledger y reposición.
type InventoryHandler struct {
	uc            *inventory.RegisterMovementUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment}
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  Suma delta (positivo o negativo) y registra un movimiento ADJUST. delta 0 no hace nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "delta y motivo"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.AdjustStockFromRequest(c.UserContext(), c.Params("id"), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Movements godoc
// @Summary      Ledger del producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	out, err := h.uc.ListMovements(c.UserContext(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar ledger y stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
