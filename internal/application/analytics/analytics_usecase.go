// Package analytics contiene los casos de uso de lectura del libro de ventas:
// resumen por mes, por artículo-variante y por canal, y exportaciones del mes.
package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/aggregation"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/period"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
)

// AnalyticsUseCase resume el libro de ventas del propietario.
//
// Los importes se rederivan de las copias congeladas de cada entrada; nunca se consultan
// precios o tarifas actuales del catálogo.
type AnalyticsUseCase struct {
	sales repository.SaleRepository
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(sales repository.SaleRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{sales: sales}
}

// Report agrupa el libro del propietario dentro del rango [From, To] (ambos opcionales, YYYY-MM).
func (uc *AnalyticsUseCase) Report(ctx context.Context, ownerID string, in dto.AnalyticsRequest) (*dto.AnalyticsResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	from, to, err := monthRange(in)
	if err != nil {
		return nil, err
	}

	list, err := uc.sales.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("leer libro de ventas: %w", err)
	}

	entries := make([]entity.Sale, 0, len(list))
	items := make(map[string]struct{})
	for _, s := range list {
		if s == nil {
			continue
		}
		m, _ := aggregation.ByMonth(*s)
		if from != "" && m < from {
			continue
		}
		if to != "" && m > to {
			continue
		}
		entries = append(entries, *s)
		items[s.ItemID] = struct{}{}
	}

	return &dto.AnalyticsResponse{
		From:          from,
		To:            to,
		Totals:        dto.FromTotals(aggregation.LedgerTotals(entries)),
		ItemsCount:    len(items),
		ByMonth:       dto.FromGroups(aggregation.AggregateLedger(entries, aggregation.ByMonth)),
		ByItemVariant: dto.FromGroups(aggregation.AggregateLedger(entries, aggregation.ByItemVariant)),
		ByPlatform:    dto.FromGroups(aggregation.AggregateLedger(entries, aggregation.ByPlatform)),
	}, nil
}

// monthRange valida los límites del rango; vacío = sin límite.
func monthRange(in dto.AnalyticsRequest) (string, string, error) {
	from := strings.TrimSpace(in.From)
	to := strings.TrimSpace(in.To)
	for _, m := range []string{from, to} {
		if m == "" {
			continue
		}
		if _, err := period.Parse(m); err != nil {
			return "", "", err
		}
	}
	if from != "" && to != "" && from > to {
		return "", "", fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	return from, to, nil
}
