package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/aggregation"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/period"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
	"github.com/428lab/sales-aggregator/pkg/logger"
)

// CommitUseCase guarda las cantidades del mes en el libro de ventas.
//
// Cada celda elegible (artículo no archivado, variante activa, canal habilitado) con cantidad > 0
// produce exactamente una entrada con las tarifas resueltas en ese momento, leídas de la fuente
// y no de la caché. Todas las entradas se envían como un único lote; no hay reintentos ni
// compensación. El libro solo crece: volver a guardar un mes añade otro lote.
type CommitUseCase struct {
	loader  *SnapshotLoader
	sales   repository.SaleRepository
	metrics ports.SalesMetrics
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
}

// NewCommitUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewCommitUseCase(loader *SnapshotLoader, sales repository.SaleRepository, metrics ports.SalesMetrics, log *logger.Logger) *CommitUseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CommitUseCase{
		loader:  loader,
		sales:   sales,
		metrics: metrics,
		log:     log,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Commit calcula la matriz del mes y persiste sus celdas como un lote del libro.
// Si ninguna celda califica devuelve un resultado vacío sin tocar el almacenamiento.
func (uc *CommitUseCase) Commit(ctx context.Context, ownerID, month string, in dto.QuantitiesRequest) (*dto.CommitResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	saleDate, err := period.FirstDay(month)
	if err != nil {
		return nil, err
	}
	snap, err := uc.loader.LoadFresh(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	m := aggregation.AggregateMatrix(snap.Items, snap.Platforms, QuantitiesFrom(in).Lookup, month)
	if !m.HasData() {
		return &dto.CommitResponse{Month: month, GrandTotal: dto.FromTotals(m.Grand)}, nil
	}

	batchID := uc.newID()
	createdAt := uc.now().UTC()
	entries := make([]*entity.Sale, 0, len(m.Cells))
	for _, c := range m.Cells {
		b := c.Breakdown
		entries = append(entries, &entity.Sale{
			ID:            uc.newID(),
			BatchID:       batchID,
			OwnerID:       ownerID,
			ItemID:        c.Item.ID,
			ItemName:      c.Item.Name,
			VariantType:   c.Variant.Type,
			PlatformID:    c.Platform.ID,
			PlatformName:  c.Platform.Name,
			Quantity:      b.Quantity,
			BasePrice:     b.UnitPrice,
			FeePercentage: b.Rate.FeePercentage,
			ShippingFee:   b.Rate.ShippingFee,
			TotalAmount:   b.TotalAmount,
			SaleDate:      saleDate,
			Month:         month,
			CreatedAt:     createdAt,
		})
	}

	if err := uc.sales.CreateBatch(ctx, entries); err != nil {
		uc.metrics.ObserveCommitFailure()
		uc.log.Error().Err(err).Str("owner_id", ownerID).Str("month", month).Int("entries", len(entries)).
			Msg("fallo al guardar el lote de ventas")
		return nil, fmt.Errorf("guardar ventas de %s: %w", month, err)
	}

	uc.metrics.ObserveCommit(len(entries), m.Grand.TotalAmount)
	uc.log.Info().Str("owner_id", ownerID).Str("month", month).Str("batch_id", batchID).
		Int("entries", len(entries)).Str("total_amount", m.Grand.TotalAmount.String()).
		Msg("lote de ventas guardado")

	return &dto.CommitResponse{
		Month:      month,
		BatchID:    batchID,
		Entries:    len(entries),
		GrandTotal: dto.FromTotals(m.Grand),
	}, nil
}
