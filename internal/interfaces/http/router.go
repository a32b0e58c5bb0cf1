package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/428lab/sales-aggregator/internal/application/analytics"
	"github.com/428lab/sales-aggregator/internal/application/sales"
	"github.com/428lab/sales-aggregator/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC      *usecase.ItemUseCase
	PlatformUC  *usecase.PlatformUseCase
	MatrixUC    *sales.MatrixUseCase
	CommitUC    *sales.CommitUseCase
	ExportUC    *analytics.ExportUseCase
	AnalyticsUC *analytics.AnalyticsUseCase
	Exporters   Exporters
	JWTSecret   string
	JWTIssuer   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Catálogo
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	// Canales de venta
	platforms := api.Group("/platforms")
	platformHandler := NewPlatformHandler(deps.PlatformUC)
	platforms.Get("/", platformHandler.List)
	platforms.Post("/", platformHandler.Create)
	platforms.Get("/:id", platformHandler.GetByID)
	platforms.Put("/:id", platformHandler.Update)
	platforms.Delete("/:id", platformHandler.Delete)

	// Captura mensual y libro de ventas (/months antes de /:month)
	salesGroup := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.MatrixUC, deps.CommitUC, deps.ExportUC, deps.Exporters)
	salesGroup.Get("/months", salesHandler.Months)
	salesGroup.Get("/:month", salesHandler.LoadMonth)
	salesGroup.Post("/:month/preview", salesHandler.Preview)
	salesGroup.Post("/:month", salesHandler.Commit)
	salesGroup.Get("/:month/export.xlsx", salesHandler.ExportXLSX)
	salesGroup.Get("/:month/export.csv", salesHandler.ExportCSV)
	salesGroup.Get("/:month/report.pdf", salesHandler.ReportPDF)

	// Analítica
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	api.Get("/analytics", analyticsHandler.Report)
}
