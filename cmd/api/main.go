package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/428lab/sales-aggregator/internal/application/analytics"
	"github.com/428lab/sales-aggregator/internal/application/ports"
	"github.com/428lab/sales-aggregator/internal/application/sales"
	"github.com/428lab/sales-aggregator/internal/application/usecase"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
	"github.com/428lab/sales-aggregator/internal/infrastructure/cache"
	"github.com/428lab/sales-aggregator/internal/infrastructure/export"
	"github.com/428lab/sales-aggregator/internal/infrastructure/memory"
	"github.com/428lab/sales-aggregator/internal/infrastructure/metrics"
	"github.com/428lab/sales-aggregator/internal/infrastructure/postgres"
	httpRouter "github.com/428lab/sales-aggregator/internal/interfaces/http"
	"github.com/428lab/sales-aggregator/pkg/config"
	"github.com/428lab/sales-aggregator/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// ── Almacenamiento ──
	var (
		itemRepo     repository.ItemRepository
		platformRepo repository.PlatformRepository
		saleRepo     repository.SaleRepository
	)
	switch cfg.DB.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		itemRepo, platformRepo, saleRepo = store.Items(), store.Platforms(), store.Sales()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.Migrate {
			if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones de base de datos")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		itemRepo = postgres.NewItemRepository(pool)
		platformRepo = postgres.NewPlatformRepository(pool)
		saleRepo = postgres.NewSaleRepository(pool)
	}

	// ── Caché de snapshots ──
	var snapshotCache ports.SnapshotCache = cache.NoopSnapshotCache{}
	if cfg.Redis.Enabled() {
		rc := cache.NewRedisSnapshotCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, se continúa sin caché")
			_ = rc.Close()
		} else {
			snapshotCache = rc
			defer rc.Close()
			log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de snapshots en Redis")
		}
		cancel()
	}

	// ── Métricas ──
	var salesMetrics ports.SalesMetrics = ports.NoopMetrics{}
	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics, err = metrics.New(prometheus.DefaultRegisterer, metrics.Config{
			Service:     cfg.App.Name,
			Environment: cfg.App.Env,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("registrar métricas")
		}
		salesMetrics = appMetrics
	}

	// ── Casos de uso ──
	loader := sales.NewSnapshotLoader(itemRepo, platformRepo, snapshotCache, log)
	itemUC := usecase.NewItemUseCase(itemRepo, snapshotCache, log)
	platformUC := usecase.NewPlatformUseCase(platformRepo, snapshotCache, log)
	matrixUC := sales.NewMatrixUseCase(loader, saleRepo, salesMetrics)
	commitUC := sales.NewCommitUseCase(loader, saleRepo, salesMetrics, log)
	exportUC := analytics.NewExportUseCase(saleRepo)
	analyticsUC := analytics.NewAnalyticsUseCase(saleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	if appMetrics != nil {
		app.Use(httpRouter.RequestLogger(log, appMetrics))
	} else {
		app.Use(httpRouter.RequestLogger(log, nil))
	}

	// Swagger UI en local: http://localhost:<port>/docs (generado con swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Sales Aggregator API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:      itemUC,
		PlatformUC:  platformUC,
		MatrixUC:    matrixUC,
		CommitUC:    commitUC,
		ExportUC:    exportUC,
		AnalyticsUC: analyticsUC,
		Exporters: httpRouter.Exporters{
			XLSX:        export.XLSXExporter{},
			PDF:         export.PDFExporter{},
			CSV:         export.CSVExporter{},
			CSVShiftJIS: export.CSVExporter{ShiftJIS: true},
		},
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
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
