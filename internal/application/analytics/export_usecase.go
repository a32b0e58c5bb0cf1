package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/aggregation"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/period"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
)

// ExportUseCase prepara el tramo mensual del libro y lo entrega a un exportador (xlsx, pdf).
type ExportUseCase struct {
	sales repository.SaleRepository
	now   func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(sales repository.SaleRepository) *ExportUseCase {
	return &ExportUseCase{sales: sales, now: time.Now}
}

// MonthReport arma el reporte del mes: entradas ordenadas por canal, artículo y variante,
// acumulados por canal y total del mes.
func (uc *ExportUseCase) MonthReport(ctx context.Context, ownerID, month string) (*dto.LedgerReport, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := period.Parse(month); err != nil {
		return nil, err
	}
	list, err := uc.sales.ListByOwnerAndMonth(ctx, ownerID, month)
	if err != nil {
		return nil, fmt.Errorf("leer ventas del mes: %w", err)
	}

	entries := make([]entity.Sale, 0, len(list))
	for _, s := range list {
		if s != nil {
			entries = append(entries, *s)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.PlatformName != b.PlatformName {
			return a.PlatformName < b.PlatformName
		}
		if a.ItemName != b.ItemName {
			return a.ItemName < b.ItemName
		}
		return a.VariantType < b.VariantType
	})

	rows := make([]dto.LedgerEntryDTO, 0, len(entries))
	for _, s := range entries {
		t := aggregation.Rederive(s)
		rows = append(rows, dto.LedgerEntryDTO{
			ItemName:      s.ItemName,
			VariantType:   s.VariantType,
			PlatformName:  s.PlatformName,
			Quantity:      t.Quantity,
			BasePrice:     s.BasePrice,
			FeePercentage: s.FeePercentage,
			ShippingFee:   s.ShippingFee,
			Subtotal:      t.Subtotal,
			Charges:       t.Charges,
			Payout:        t.Payout,
			TotalAmount:   t.TotalAmount,
		})
	}

	return &dto.LedgerReport{
		OwnerID:     ownerID,
		Month:       month,
		MonthLabel:  period.Label(month),
		GeneratedAt: uc.now().UTC(),
		Entries:     rows,
		ByPlatform:  dto.FromGroups(aggregation.AggregateLedger(entries, aggregation.ByPlatform)),
		Totals:      dto.FromTotals(aggregation.LedgerTotals(entries)),
	}, nil
}

// Export genera el archivo del mes con el exportador dado. Devuelve el contenido y el nombre sugerido.
func (uc *ExportUseCase) Export(ctx context.Context, ownerID, month string, exporter ports.LedgerExporter) ([]byte, string, error) {
	report, err := uc.MonthReport(ctx, ownerID, month)
	if err != nil {
		return nil, "", err
	}
	data, err := exporter.Export(report)
	if err != nil {
		return nil, "", fmt.Errorf("exportar ventas de %s: %w", month, err)
	}
	return data, fmt.Sprintf("ventas-%s.%s", month, exporter.Extension()), nil
}
