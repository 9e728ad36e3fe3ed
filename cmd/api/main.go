package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/estoque-pdv/internal/application/auth"
	"github.com/jhoicas/estoque-pdv/internal/application/fulfillment"
	"github.com/jhoicas/estoque-pdv/internal/application/inventory"
	"github.com/jhoicas/estoque-pdv/internal/application/sales"
	"github.com/jhoicas/estoque-pdv/internal/application/usecase"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
	"github.com/jhoicas/estoque-pdv/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-pdv/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/estoque-pdv/internal/interfaces/http"
	"github.com/jhoicas/estoque-pdv/pkg/clock"
	"github.com/jhoicas/estoque-pdv/pkg/config"
	"github.com/jhoicas/estoque-pdv/pkg/logger"
)

// txRunner lo implementan postgres.TxRunner y memory.TxRunner.
type txRunner interface {
	inventory.TxRunner
	fulfillment.TxRunner
	sales.TxRunner
}

type storage struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	sales     repository.SaleRepository
	orders    repository.OrderRepository
	outbox    repository.OutboxRepository
	users     repository.UserRepository
	tx        txRunner
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.Store.Driver == config.StoreMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return storage{
			products:  store.Products(),
			movements: store.Movements(),
			sales:     store.Sales(),
			orders:    store.Orders(),
			outbox:    store.Outbox(),
			users:     store.Users(),
			tx:        memory.NewTxRunner(store),
			close:     func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
	}
	return storage{
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		orders:    postgres.NewOrderRepository(pool),
		outbox:    postgres.NewOutboxRepository(pool),
		users:     postgres.NewUserRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStorage(ctx, cfg, log)
	defer st.close()

	clk := clock.System{}

	productUC := usecase.NewProductUseCase(st.products, clk)
	userUC := usecase.NewUserUseCase(st.users)
	registerMovementUC := inventory.NewRegisterMovementUseCase(st.tx, st.products, st.movements, clk)
	replenishmentUC := inventory.NewReplenishmentUseCase(st.products)
	orderUC := fulfillment.NewOrderUseCase(st.tx, st.orders, st.products, registerMovementUC, clk, fulfillment.Config{
		OrderPrefix:     cfg.Sales.OrderPrefix,
		DefaultCustomer: cfg.Sales.DefaultCustomer,
		DefaultCarrier:  cfg.Sales.DefaultCarrier,
	})
	derivation := sales.NewOrderDerivation(st.tx, st.sales, st.outbox, orderUC, clk, log.WithComponent("order_derivation"))
	saleUC := sales.NewSaleUseCase(st.tx, st.sales, st.products, derivation, clk, cfg.Sales.SalePrefix)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, clk)

	created, err := authUC.EnsureDefaultUser(ctx, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuario por defecto")
	}
	if created {
		log.Warn().Str("username", cfg.Admin.Username).Msg("usuario administrador por defecto creado")
	}

	// Ventas cuya derivación falló en una ejecución anterior.
	if _, _, err := derivation.DrainPending(ctx); err != nil {
		log.Error().Err(err).Msg("reprocesar eventos de venta pendientes")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque PDV API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		UserUC:           userUC,
		RegisterMovement: registerMovementUC,
		Replenishment:    replenishmentUC,
		SaleUC:           saleUC,
		Derivation:       derivation,
		OrderUC:          orderUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
