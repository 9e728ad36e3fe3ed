package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-pdv/internal/application/auth"
	"github.com/jhoicas/estoque-pdv/internal/application/fulfillment"
	"github.com/jhoicas/estoque-pdv/internal/application/inventory"
	"github.com/jhoicas/estoque-pdv/internal/application/sales"
	"github.com/jhoicas/estoque-pdv/internal/application/usecase"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	UserUC           *usecase.UserUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	SaleUC           *sales.SaleUseCase
	Derivation       *sales.OrderDerivation
	OrderUC          *fulfillment.OrderUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	adminOnly := RequireRole(entity.RoleAdmin)

	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Replenishment)
	products := protected.Group("/products")
	products.Get("/", productHandler.Search)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Post("/:id/adjust", adminOnly, inventoryHandler.Adjust)
	products.Get("/:id/movements", inventoryHandler.Movements)
	products.Get("/:id/reconcile", inventoryHandler.Reconcile)

	protected.Get("/inventory/replenishment", inventoryHandler.Replenishment)

	saleHandler := NewSaleHandler(deps.SaleUC, deps.Derivation, deps.OrderUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/items", saleHandler.Items)
	salesGroup.Post("/:id/derive", adminOnly, saleHandler.Derive)

	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := protected.Group("/orders")
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/items", orderHandler.Items)
	orders.Post("/:id/advance", orderHandler.Advance)
	orders.Post("/:id/ship", orderHandler.Ship)
	orders.Post("/:id/cancel", orderHandler.Cancel)
}
