package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	appanalytics "github.com/logistock/logistock-api/internal/application/analytics"
	"github.com/logistock/logistock-api/internal/application/auth"
	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/application/usecase"
	infrapdf "github.com/logistock/logistock-api/internal/infrastructure/pdf"
	"github.com/logistock/logistock-api/internal/infrastructure/postgres"
	"github.com/logistock/logistock-api/internal/infrastructure/redisstore"
	httpRouter "github.com/logistock/logistock-api/internal/interfaces/http"
	"github.com/logistock/logistock-api/pkg/config"
	"github.com/logistock/logistock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}

	txRunner := postgres.NewTxRunner(pool)
	repos := postgres.NewRepos(pool)
	invLog := log.Named("inventory")

	// Limiter del login: Redis si está configurado, memoria local si no.
	var limiterStorage fiber.Storage
	if cfg.Redis.URL != "" {
		rdb, err := redisstore.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		store := redisstore.New(rdb, "")
		defer store.Close()
		limiterStorage = store
		log.Info().Msg("limiter de login sobre Redis")
	}

	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name)

	deps := httpRouter.RouterDeps{
		AuthUC: auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		UserUC:        usecase.NewUserUseCase(repos.Users),
		ItemUC:        usecase.NewItemUseCase(repos.Items),
		ServiceTypeUC: usecase.NewServiceTypeUseCase(repos.ServiceTypes),
		PartnerUC:     usecase.NewPartnerCompanyUseCase(repos.PartnerCompanies),
		TechnicianUC:  usecase.NewTechnicianUseCase(txRunner),

		Stock:         inventory.NewStockUseCase(txRunner, invLog),
		Counts:        inventory.NewCountUseCase(txRunner, invLog),
		Replenishment: inventory.NewReplenishmentUseCase(txRunner),
		Invoices:      inventory.NewInvoiceUseCase(txRunner, invLog),
		Transfers:     inventory.NewTransferUseCase(txRunner, invLog),
		Requisitions:  inventory.NewRequisitionUseCase(txRunner, invLog),
		Kits:          inventory.NewKitUseCase(txRunner, invLog),
		WriteOffs:     inventory.NewWriteOffUseCase(txRunner, invLog),
		Documents:     inventory.NewDocumentUseCase(txRunner, receipts),
		Equipment:     inventory.NewEquipmentUseCase(txRunner, invLog),
		DashboardUC:   appanalytics.NewDashboardUseCase(repos),

		JWTSecret:      cfg.JWT.Secret,
		LoginRateLimit: cfg.RateLimit.LoginMax,
		LoginWindow:    time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		LimiterStorage: limiterStorage,
		Health:         pool.Ping,
		AppName:        cfg.App.Name,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en http://localhost:<port>/docs, solo si el archivo existe.
	if _, err := os.Stat(cfg.Docs.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.SwaggerFile,
			Path:     "docs",
			Title:    "LogiStock API",
		}))
	} else {
		log.Warn().Str("file", cfg.Docs.SwaggerFile).Msg("swagger no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado con error")
	}
	log.Info().Msg("aplicación detenida")
}
