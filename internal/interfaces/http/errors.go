package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicateSKU, fiber.StatusConflict, "DUPLICATE_SKU"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrNegativeStockResult, fiber.StatusConflict, "NEGATIVE_STOCK"},
	{domain.ErrEmptyOrder, fiber.StatusBadRequest, "EMPTY_ORDER"},
	{domain.ErrEmptySale, fiber.StatusBadRequest, "EMPTY_SALE"},
	{domain.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT"},
	{domain.ErrInvalidPercent, fiber.StatusBadRequest, "INVALID_PERCENT"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidPrefix, fiber.StatusBadRequest, "INVALID_PREFIX"},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

// writeError traduce errores de dominio a status + dto.ErrorResponse; el resto es 500.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
