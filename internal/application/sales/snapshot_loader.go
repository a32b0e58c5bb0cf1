// Package sales contiene los casos de uso de captura mensual: vista previa de la matriz,
// precarga del mes y guardado en el libro de ventas.
package sales

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/428lab/sales-aggregator/internal/application/ports"
	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
	"github.com/428lab/sales-aggregator/pkg/logger"
)

// SnapshotLoader lee catálogo y canales de un propietario en paralelo y los entrega juntos.
// Si el contexto se cancela a mitad de la lectura no se entrega nada.
type SnapshotLoader struct {
	items     repository.ItemRepository
	platforms repository.PlatformRepository
	cache     ports.SnapshotCache
	log       *logger.Logger
	now       func() time.Time
}

// NewSnapshotLoader construye el cargador. cache puede ser nil.
func NewSnapshotLoader(
	items repository.ItemRepository,
	platforms repository.PlatformRepository,
	cache ports.SnapshotCache,
	log *logger.Logger,
) *SnapshotLoader {
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotLoader{items: items, platforms: platforms, cache: cache, log: log, now: time.Now}
}

// Load devuelve el snapshot del propietario, desde caché si está disponible.
// Sin propietario devuelve domain.ErrUnauthorized sin consultar nada.
func (l *SnapshotLoader) Load(ctx context.Context, ownerID string) (*ports.Snapshot, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if l.cache != nil {
		snap, ok, err := l.cache.Get(ctx, ownerID)
		if err != nil {
			l.log.Warn().Err(err).Str("owner_id", ownerID).Msg("caché de snapshot no disponible, se lee de la fuente")
		} else if ok && snap != nil {
			return snap, nil
		}
	}
	return l.read(ctx, ownerID)
}

// LoadFresh lee siempre de la fuente, sin consultar la caché. Lo usa el guardado para congelar
// en el libro los precios y tarifas vigentes.
func (l *SnapshotLoader) LoadFresh(ctx context.Context, ownerID string) (*ports.Snapshot, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	return l.read(ctx, ownerID)
}

// read lee catálogo y canales en paralelo y repuebla la caché. La generación se toma antes de
// leer: si hubo una invalidación durante la lectura, la caché rechaza el snapshot.
func (l *SnapshotLoader) read(ctx context.Context, ownerID string) (*ports.Snapshot, error) {
	cacheable := l.cache != nil
	var gen int64
	if cacheable {
		g, err := l.cache.Generation(ctx, ownerID)
		if err != nil {
			l.log.Warn().Err(err).Str("owner_id", ownerID).Msg("generación de caché no disponible, no se cachea")
			cacheable = false
		}
		gen = g
	}

	var (
		items     []*entity.Item
		platforms []*entity.Platform
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := l.items.ListByOwner(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("leer artículos: %w", err)
		}
		items = list
		return nil
	})
	g.Go(func() error {
		list, err := l.platforms.ListByOwner(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("leer canales: %w", err)
		}
		platforms = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Una cancelación que llegó tras completar ambas lecturas también descarta el resultado.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := &ports.Snapshot{
		OwnerID:    ownerID,
		Items:      derefItems(items),
		Platforms:  derefPlatforms(platforms),
		LoadedAt:   l.now().UTC(),
		Generation: gen,
	}
	if cacheable {
		if err := l.cache.Set(ctx, snap); err != nil {
			l.log.Warn().Err(err).Str("owner_id", ownerID).Msg("no se pudo guardar el snapshot en caché")
		}
	}
	return snap, nil
}

func derefItems(list []*entity.Item) []entity.Item {
	out := make([]entity.Item, 0, len(list))
	for _, it := range list {
		if it != nil {
			out = append(out, *it)
		}
	}
	return out
}

func derefPlatforms(list []*entity.Platform) []entity.Platform {
	out := make([]entity.Platform, 0, len(list))
	for _, p := range list {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
