package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/428lab/sales-aggregator/internal/application/analytics"
	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
	"github.com/428lab/sales-aggregator/internal/application/sales"
	"github.com/428lab/sales-aggregator/internal/application/usecase"
	"github.com/428lab/sales-aggregator/internal/infrastructure/cache"
	"github.com/428lab/sales-aggregator/internal/infrastructure/export"
	"github.com/428lab/sales-aggregator/internal/infrastructure/memory"
	"github.com/428lab/sales-aggregator/internal/infrastructure/metrics"
	apphttp "github.com/428lab/sales-aggregator/internal/interfaces/http"
	"github.com/428lab/sales-aggregator/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildApp arma la API completa sobre el almacenamiento en memoria.
func buildApp(t *testing.T) *fiber.App {
	t.Helper()
	return buildAppWith(t, memory.NewStore(), nil)
}

// buildAppWith arma la API sobre store con la caché de snapshots dada (nil = sin caché).
func buildAppWith(t *testing.T, store *memory.Store, snapshots ports.SnapshotCache) *fiber.App {
	t.Helper()
	log := logger.Nop()
	loader := sales.NewSnapshotLoader(store.Items(), store.Platforms(), snapshots, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:      usecase.NewItemUseCase(store.Items(), snapshots, log),
		PlatformUC:  usecase.NewPlatformUseCase(store.Platforms(), snapshots, log),
		MatrixUC:    sales.NewMatrixUseCase(loader, store.Sales(), nil),
		CommitUC:    sales.NewCommitUseCase(loader, store.Sales(), nil, log),
		ExportUC:    analytics.NewExportUseCase(store.Sales()),
		AnalyticsUC: analytics.NewAnalyticsUseCase(store.Sales()),
		Exporters: apphttp.Exporters{
			XLSX:        export.XLSXExporter{},
			PDF:         export.PDFExporter{},
			CSV:         export.CSVExporter{},
			CSVShiftJIS: export.CSVExporter{ShiftJIS: true},
		},
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, auth string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedCatalog crea "Libro" (Paper 1500 con envío) y los canales X (10%, 100) e Y (sin configuración).
func seedCatalog(t *testing.T, app *fiber.App, auth string) (itemID, xID, yID string) {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/items", auth, dto.ItemRequest{
		Name:     "Libro",
		Variants: []dto.VariantDTO{{Type: "Paper", Price: price("1500")}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decode[dto.ItemResponse](t, resp)

	resp = do(t, app, http.MethodPost, "/api/platforms", auth, dto.PlatformRequest{
		Name: "X",
		ItemSettings: []dto.ItemSettingDTO{{ItemID: item.ID, Variants: []dto.VariantOverrideDTO{
			{VariantType: "Paper", FeePercentage: price("10"), ShippingFee: price("100")},
		}}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	x := decode[dto.PlatformResponse](t, resp)

	resp = do(t, app, http.MethodPost, "/api/platforms", auth, dto.PlatformRequest{Name: "Y"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	y := decode[dto.PlatformResponse](t, resp)

	return item.ID, x.ID, y.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo y canales
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_SinToken_Retorna401(t *testing.T) {
	resp := do(t, buildApp(t), http.MethodGet, "/api/items", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestItems_CRUD(t *testing.T) {
	app := buildApp(t)
	auth := tokenFor(t, testOwnerID)
	itemID, _, _ := seedCatalog(t, app, auth)

	list := decode[dto.ItemListResponse](t, do(t, app, http.MethodGet, "/api/items", auth, nil))
	require.Len(t, list.Items, 1)

	resp := do(t, app, http.MethodPut, "/api/items/"+itemID, auth, dto.ItemRequest{
		Name: "Libro", Archived: true, Variants: []dto.VariantDTO{{Type: "Paper", Price: price("1600")}},
	})
	updated := decode[dto.ItemResponse](t, resp)
	assert.True(t, updated.Archived)
	assert.True(t, updated.Variants[0].Price.Equal(price("1600")))

	resp = do(t, app, http.MethodDelete, "/api/items/"+itemID, auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/items/"+itemID, auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_OtroPropietario_Retorna403(t *testing.T) {
	app := buildApp(t)
	itemID, xID, _ := seedCatalog(t, app, tokenFor(t, testOwnerID))
	other := tokenFor(t, "otro-propietario")

	resp := do(t, app, http.MethodGet, "/api/items/"+itemID, other, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")

	resp = do(t, app, http.MethodDelete, "/api/platforms/"+xID, other, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	list := decode[dto.PlatformListResponse](t, do(t, app, http.MethodGet, "/api/platforms", other, nil))
	assert.Empty(t, list.Items)
}

func TestItems_Validacion_Retorna400(t *testing.T) {
	app := buildApp(t)
	auth := tokenFor(t, testOwnerID)

	resp := do(t, app, http.MethodPost, "/api/items", auth, dto.ItemRequest{Name: "Sin variantes"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "VALIDATION")

	req := httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewBufferString("{no json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Captura mensual
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_FlujoCompleto(t *testing.T) {
	app := buildApp(t)
	auth := tokenFor(t, testOwnerID)
	itemID, xID, yID := seedCatalog(t, app, auth)

	in := dto.QuantitiesRequest{Entries: []dto.QuantityEntryDTO{
		{ItemID: itemID, VariantType: "Paper", PlatformID: xID, Quantity: 3},
		{ItemID: itemID, VariantType: "Paper", PlatformID: yID, Quantity: 5},
	}}

	// vista previa
	preview := decode[dto.MatrixResponse](t, do(t, app, http.MethodPost, "/api/sales/2024-05/preview", auth, in))
	require.Len(t, preview.Cells, 1)
	assert.True(t, preview.Cells[0].Payout.Equal(price("3750")))
	assert.True(t, preview.GrandTotal.TotalAmount.Equal(price("5250")))

	// guardado
	resp := do(t, app, http.MethodPost, "/api/sales/2024-05", auth, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	committed := decode[dto.CommitResponse](t, resp)
	assert.Equal(t, 1, committed.Entries)

	// precarga
	month := decode[dto.MonthQuantitiesResponse](t, do(t, app, http.MethodGet, "/api/sales/2024-05", auth, nil))
	require.Len(t, month.Entries, 1)
	assert.Equal(t, 3, month.Entries[0].Quantity)
	assert.Equal(t, xID, month.Entries[0].PlatformID)

	// analítica
	report := decode[dto.AnalyticsResponse](t, do(t, app, http.MethodGet, "/api/analytics?from=2024-01&to=2024-12", auth, nil))
	assert.True(t, report.Totals.Payout.Equal(price("3750")))
	assert.Equal(t, 1, report.ItemsCount)

	// exportaciones
	resp = do(t, app, http.MethodGet, "/api/sales/2024-05/export.xlsx", auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ventas-2024-05.xlsx")

	resp = do(t, app, http.MethodGet, "/api/sales/2024-05/report.pdf", auth, nil)
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp = do(t, app, http.MethodGet, "/api/sales/2024-05/export.csv?encoding=sjis", auth, nil)
	resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "Shift_JIS")
}

func TestSales_EdicionesPosterioresNoCambianElLibro(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	for name, snapshots := range map[string]ports.SnapshotCache{
		"sin caché": nil,
		"con Redis": cache.NewRedisSnapshotCacheWithClient(client, time.Minute),
	} {
		t.Run(name, func(t *testing.T) {
			store := memory.NewStore()
			app := buildAppWith(t, store, snapshots)
			auth := tokenFor(t, testOwnerID)
			itemID, xID, _ := seedCatalog(t, app, auth)
			in := dto.QuantitiesRequest{Entries: []dto.QuantityEntryDTO{
				{ItemID: itemID, VariantType: "Paper", PlatformID: xID, Quantity: 3},
			}}

			// la vista previa deja el snapshot en caché antes del guardado
			decode[dto.MatrixResponse](t, do(t, app, http.MethodPost, "/api/sales/2024-05/preview", auth, in))
			resp := do(t, app, http.MethodPost, "/api/sales/2024-05", auth, in)
			resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			before := decode[dto.AnalyticsResponse](t, do(t, app, http.MethodGet, "/api/analytics", auth, nil))

			resp = do(t, app, http.MethodPut, "/api/items/"+itemID, auth, dto.ItemRequest{
				Name: "Libro", Variants: []dto.VariantDTO{{Type: "Paper", Price: price("2000")}},
			})
			resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			resp = do(t, app, http.MethodPut, "/api/platforms/"+xID, auth, dto.PlatformRequest{
				Name: "X",
				ItemSettings: []dto.ItemSettingDTO{{ItemID: itemID, Variants: []dto.VariantOverrideDTO{
					{VariantType: "Paper", FeePercentage: price("30"), ShippingFee: price("0")},
				}}},
			})
			resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			after := decode[dto.AnalyticsResponse](t, do(t, app, http.MethodGet, "/api/analytics", auth, nil))
			assert.True(t, before.Totals.Payout.Equal(price("3750")))
			assert.True(t, after.Totals.Payout.Equal(before.Totals.Payout))
			assert.True(t, after.Totals.TotalAmount.Equal(before.Totals.TotalAmount))
			assert.True(t, after.Totals.Charges.Equal(before.Totals.Charges))

			list, err := store.Sales().ListByOwnerAndMonth(context.Background(), testOwnerID, "2024-05")
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.True(t, list[0].BasePrice.Equal(price("1500")))
			assert.True(t, list[0].FeePercentage.Equal(price("10")))
			assert.True(t, list[0].ShippingFee.Equal(price("100")))

			// el siguiente guardado ya usa el catálogo editado
			preview := decode[dto.MatrixResponse](t, do(t, app, http.MethodPost, "/api/sales/2024-06/preview", auth, in))
			require.Len(t, preview.Cells, 1)
			assert.True(t, preview.Cells[0].UnitPrice.Equal(price("2000")))
			assert.True(t, preview.Cells[0].FeePercentage.Equal(price("30")))
			resp = do(t, app, http.MethodPost, "/api/sales/2024-06", auth, in)
			resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			june, err := store.Sales().ListByOwnerAndMonth(context.Background(), testOwnerID, "2024-06")
			require.NoError(t, err)
			require.Len(t, june, 1)
			assert.True(t, june[0].BasePrice.Equal(price("2000")))
			assert.True(t, june[0].FeePercentage.Equal(price("30")))
		})
	}
}

func TestSales_GuardarSinCeldas_Retorna200(t *testing.T) {
	app := buildApp(t)
	auth := tokenFor(t, testOwnerID)
	itemID, _, yID := seedCatalog(t, app, auth)

	resp := do(t, app, http.MethodPost, "/api/sales/2024-05", auth, dto.QuantitiesRequest{Entries: []dto.QuantityEntryDTO{
		{ItemID: itemID, VariantType: "Paper", PlatformID: yID, Quantity: 5},
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.CommitResponse](t, resp)
	assert.Equal(t, 0, out.Entries)
	assert.Empty(t, out.BatchID)
}

func TestSales_MesInvalido_Retorna400(t *testing.T) {
	app := buildApp(t)
	auth := tokenFor(t, testOwnerID)

	resp := do(t, app, http.MethodGet, "/api/sales/2024-13", auth, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_MONTH")
}

func TestSales_Meses(t *testing.T) {
	app := buildApp(t)

	out := decode[dto.MonthOptionsResponse](t, do(t, app, http.MethodGet, "/api/sales/months", tokenFor(t, testOwnerID), nil))

	require.NotEmpty(t, out.Months)
	assert.Equal(t, out.Current, out.Months[0].Value)
	assert.Equal(t, "2020-01", out.Months[len(out.Months)-1].Value)
}

func TestSales_FormatoNoDisponible_Retorna404(t *testing.T) {
	store := memory.NewStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ExportUC:  analytics.NewExportUseCase(store.Sales()),
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})

	resp := do(t, app, http.MethodGet, "/api/sales/2024-05/report.pdf", tokenFor(t, testOwnerID), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequestLogger
// ──────────────────────────────────────────────────────────────────────────────

func TestRequestLogger_RegistraLogYMetricas(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{Env: "production", Level: "info", Service: "test"})
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, metrics.Config{Service: "test"})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log, m))
	app.Get("/ping/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping/1", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"route":"/ping/:id"`)
	n, err := testutil.GatherAndCount(reg, "sales_aggregator_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
