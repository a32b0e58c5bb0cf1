package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/428lab/sales-aggregator/internal/application/analytics"
	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/infrastructure/memory"
)

const owner = "owner-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ledger siembra un libro con tres meses, dos canales y una entrada antigua sin mes ni id de canal.
func ledger(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Sales().CreateBatch(context.Background(), []*entity.Sale{
		{ID: "1", OwnerID: owner, ItemID: "book", ItemName: "Libro", VariantType: "Paper", PlatformID: "x", PlatformName: "X",
			Quantity: 3, BasePrice: d("1500"), FeePercentage: d("10"), ShippingFee: d("100"), TotalAmount: d("5250"), Month: "2024-05"},
		{ID: "2", OwnerID: owner, ItemID: "book", ItemName: "Libro", VariantType: "PDF", PlatformID: "x", PlatformName: "X",
			Quantity: 2, BasePrice: d("800"), FeePercentage: d("20"), TotalAmount: d("1920"), Month: "2024-06"},
		{ID: "3", OwnerID: owner, ItemID: "mug", ItemName: "Taza", VariantType: "std", PlatformName: "Feria",
			Quantity: 1, BasePrice: d("1000"), TotalAmount: d("1000"), SaleDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "4", OwnerID: "otro", ItemID: "book", ItemName: "Libro", VariantType: "Paper", PlatformID: "x",
			Quantity: 9, BasePrice: d("1500"), TotalAmount: d("13500"), Month: "2024-05"},
	}))
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// Report
// ──────────────────────────────────────────────────────────────────────────────

func TestReport_AgrupaTodoElLibro(t *testing.T) {
	uc := analytics.NewAnalyticsUseCase(ledger(t).Sales())

	res, err := uc.Report(context.Background(), owner, dto.AnalyticsRequest{})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Totals.Quantity)
	assert.True(t, res.Totals.TotalAmount.Equal(d("8170")))
	assert.True(t, res.Totals.Subtotal.Equal(d("7100")))
	assert.True(t, res.Totals.Charges.Equal(d("1070")))
	assert.True(t, res.Totals.Payout.Equal(d("6030")))
	assert.Equal(t, 2, res.ItemsCount)

	require.Len(t, res.ByMonth, 3)
	assert.Equal(t, "2024-04", res.ByMonth[0].Key, "la entrada sin mes cae en el mes de su fecha")
	assert.Equal(t, "2024-06", res.ByMonth[2].Key)

	require.Len(t, res.ByItemVariant, 3)
	labels := map[string]dto.LedgerGroupDTO{}
	for _, g := range res.ByItemVariant {
		labels[g.Label] = g
	}
	paper, ok := labels["Libro（Paper）"]
	require.True(t, ok)
	assert.True(t, paper.AveragePrice.Equal(d("1500")))

	require.Len(t, res.ByPlatform, 2)
	assert.Equal(t, "Feria", res.ByPlatform[1].Label, "sin id se agrupa por nombre")
}

func TestReport_FiltraPorRango(t *testing.T) {
	uc := analytics.NewAnalyticsUseCase(ledger(t).Sales())

	res, err := uc.Report(context.Background(), owner, dto.AnalyticsRequest{From: "2024-05", To: "2024-05"})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Totals.Quantity)
	assert.True(t, res.Totals.Payout.Equal(d("3750")))
	assert.Equal(t, 1, res.ItemsCount)
	require.Len(t, res.ByMonth, 1)
}

func TestReport_Errores(t *testing.T) {
	uc := analytics.NewAnalyticsUseCase(ledger(t).Sales())
	ctx := context.Background()

	_, err := uc.Report(ctx, "", dto.AnalyticsRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Report(ctx, owner, dto.AnalyticsRequest{From: "2024/05"})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = uc.Report(ctx, owner, dto.AnalyticsRequest{From: "2024-06", To: "2024-05"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReport_LibroVacio(t *testing.T) {
	uc := analytics.NewAnalyticsUseCase(memory.NewStore().Sales())

	res, err := uc.Report(context.Background(), owner, dto.AnalyticsRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Totals.Quantity)
	assert.True(t, res.Totals.TotalAmount.IsZero())
	assert.Empty(t, res.ByMonth)
	assert.Equal(t, 0, res.ItemsCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Export
// ──────────────────────────────────────────────────────────────────────────────

type stubExporter struct {
	got *dto.LedgerReport
	err error
}

func (s *stubExporter) Export(r *dto.LedgerReport) ([]byte, error) {
	s.got = r
	if s.err != nil {
		return nil, s.err
	}
	return []byte("ok"), nil
}
func (s *stubExporter) ContentType() string { return "text/plain" }
func (s *stubExporter) Extension() string   { return "txt" }

func TestMonthReport_RederivaYAcumula(t *testing.T) {
	uc := analytics.NewExportUseCase(ledger(t).Sales())

	r, err := uc.MonthReport(context.Background(), owner, "2024-05")
	require.NoError(t, err)

	assert.Equal(t, "2024年5月", r.MonthLabel)
	require.Len(t, r.Entries, 1)
	e := r.Entries[0]
	assert.True(t, e.Subtotal.Equal(d("4500")))
	assert.True(t, e.Charges.Equal(d("750")))
	assert.True(t, e.Payout.Equal(d("3750")))
	require.Len(t, r.ByPlatform, 1)
	assert.True(t, r.Totals.TotalAmount.Equal(d("5250")))
}

func TestExport_NombreYErrores(t *testing.T) {
	uc := analytics.NewExportUseCase(ledger(t).Sales())
	ctx := context.Background()

	exp := &stubExporter{}
	data, name, err := uc.Export(ctx, owner, "2024-06", exp)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
	assert.Equal(t, "ventas-2024-06.txt", name)
	require.NotNil(t, exp.got)
	assert.Len(t, exp.got.Entries, 1)

	boom := errors.New("sin fuentes")
	_, _, err = uc.Export(ctx, owner, "2024-06", &stubExporter{err: boom})
	assert.ErrorIs(t, err, boom)

	_, _, err = uc.Export(ctx, owner, "junio", exp)
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}
