package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/aggregation"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/period"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
)

// MatrixUseCase vista previa de la matriz del mes y precarga de cantidades ya registradas.
type MatrixUseCase struct {
	loader  *SnapshotLoader
	sales   repository.SaleRepository
	metrics ports.SalesMetrics
}

// NewMatrixUseCase construye el caso de uso. metrics puede ser nil.
func NewMatrixUseCase(loader *SnapshotLoader, sales repository.SaleRepository, metrics ports.SalesMetrics) *MatrixUseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &MatrixUseCase{loader: loader, sales: sales, metrics: metrics}
}

// Preview calcula la matriz del mes con las cantidades capturadas, sin persistir nada.
func (uc *MatrixUseCase) Preview(ctx context.Context, ownerID, month string, in dto.QuantitiesRequest) (*dto.MatrixResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := period.Parse(month); err != nil {
		return nil, err
	}
	snap, err := uc.loader.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	m := aggregation.AggregateMatrix(snap.Items, snap.Platforms, QuantitiesFrom(in).Lookup, month)
	uc.metrics.ObservePreview(len(m.Cells))
	return toMatrixResponse(m, snap), nil
}

// LoadMonth devuelve las cantidades registradas en el libro para el mes, sumando las entradas
// de una misma celda. Los registros antiguos sin id de canal se resuelven por nombre; si no se
// puede resolver el canal, la entrada se omite.
func (uc *MatrixUseCase) LoadMonth(ctx context.Context, ownerID, month string) (*dto.MonthQuantitiesResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := period.Parse(month); err != nil {
		return nil, err
	}

	var (
		snap    *ports.Snapshot
		entries []*entity.Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := uc.loader.Load(gctx, ownerID)
		snap = s
		return err
	})
	g.Go(func() error {
		list, err := uc.sales.ListByOwnerAndMonth(gctx, ownerID, month)
		if err != nil {
			return fmt.Errorf("leer ventas del mes: %w", err)
		}
		entries = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byName := make(map[string]string, len(snap.Platforms))
	known := make(map[string]bool, len(snap.Platforms))
	for _, p := range snap.Platforms {
		known[p.ID] = true
		if _, dup := byName[p.Name]; !dup {
			byName[p.Name] = p.ID
		}
	}

	q := aggregation.QuantityMap{}
	for _, e := range entries {
		if e == nil || e.Quantity <= 0 {
			continue
		}
		platformID := e.PlatformID
		if platformID == "" {
			platformID = byName[e.PlatformName]
		}
		if platformID == "" || !known[platformID] {
			continue
		}
		q[aggregation.CellKey{ItemID: e.ItemID, VariantType: e.VariantType, PlatformID: platformID}] += e.Quantity
	}

	out := &dto.MonthQuantitiesResponse{Month: month, Entries: make([]dto.QuantityEntryDTO, 0, len(q))}
	for k, n := range q {
		out.Entries = append(out.Entries, dto.QuantityEntryDTO{
			ItemID: k.ItemID, VariantType: k.VariantType, PlatformID: k.PlatformID, Quantity: n,
		})
	}
	sort.Slice(out.Entries, func(i, j int) bool {
		a, b := out.Entries[i], out.Entries[j]
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		if a.VariantType != b.VariantType {
			return a.VariantType < b.VariantType
		}
		return a.PlatformID < b.PlatformID
	})
	return out, nil
}

// MonthOptions meses seleccionables desde 2020-01 hasta el mes actual, del más reciente al más antiguo.
func (uc *MatrixUseCase) MonthOptions(now time.Time) *dto.MonthOptionsResponse {
	opts := period.Options(now)
	out := &dto.MonthOptionsResponse{Current: period.Of(now), Months: make([]dto.MonthOptionDTO, 0, len(opts))}
	for _, o := range opts {
		out.Months = append(out.Months, dto.MonthOptionDTO{Value: o.Value, Label: o.Label})
	}
	return out
}

// QuantitiesFrom construye el mapa de cantidades; si una celda se repite gana la última.
func QuantitiesFrom(in dto.QuantitiesRequest) aggregation.QuantityMap {
	q := make(aggregation.QuantityMap, len(in.Entries))
	for _, e := range in.Entries {
		q[aggregation.CellKey{ItemID: e.ItemID, VariantType: e.VariantType, PlatformID: e.PlatformID}] = e.Quantity
	}
	return q
}

func toMatrixResponse(m aggregation.Matrix, snap *ports.Snapshot) *dto.MatrixResponse {
	out := &dto.MatrixResponse{
		Month:      m.Month,
		HasData:    m.HasData(),
		Eligible:   []dto.EligibleCellDTO{},
		Cells:      make([]dto.MatrixCellDTO, 0, len(m.Cells)),
		Platforms:  make([]dto.PlatformTotalsDTO, 0, len(snap.Platforms)),
		GrandTotal: dto.FromTotals(m.Grand),
	}
	aggregation.EachEligibleCell(snap.Items, snap.Platforms, m.Month, func(it entity.Item, v entity.Variant, p entity.Platform) {
		out.Eligible = append(out.Eligible, dto.EligibleCellDTO{ItemID: it.ID, VariantType: v.Type, PlatformID: p.ID})
	})
	for _, c := range m.Cells {
		b := c.Breakdown
		out.Cells = append(out.Cells, dto.MatrixCellDTO{
			ItemID:        c.Item.ID,
			ItemName:      c.Item.Name,
			VariantType:   c.Variant.Type,
			PlatformID:    c.Platform.ID,
			PlatformName:  c.Platform.Name,
			Quantity:      b.Quantity,
			UnitPrice:     b.UnitPrice,
			FeePercentage: b.Rate.FeePercentage,
			ShippingFee:   b.Rate.ShippingFee,
			Subtotal:      b.Subtotal,
			Fee:           b.Fee,
			Shipping:      b.Shipping,
			Charges:       b.Charges,
			Payout:        b.Payout,
			TotalAmount:   b.TotalAmount,
		})
	}
	for _, p := range snap.Platforms {
		out.Platforms = append(out.Platforms, dto.PlatformTotalsDTO{
			PlatformID:   p.ID,
			PlatformName: p.Name,
			Totals:       dto.FromTotals(m.PlatformTotals(p.ID)),
		})
	}
	return out
}
