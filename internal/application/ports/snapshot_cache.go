package ports

import (
	"context"
	"time"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
)

// Snapshot catálogo y canales de un propietario tal como se leyeron juntos.
// Es un valor inmutable: los consumidores lo reemplazan entero, nunca lo modifican.
// Generation es la generación de la caché vigente antes de leer la fuente.
type Snapshot struct {
	OwnerID    string
	Items      []entity.Item
	Platforms  []entity.Platform
	LoadedAt   time.Time
	Generation int64
}

// SnapshotCache define el puerto de salida para cachear snapshots por propietario.
// Un fallo de la caché nunca debe impedir leer de la fuente; los adaptadores devuelven error y el caller lo registra.
//
// Cada Invalidate incrementa la generación del propietario. Set solo guarda si la generación
// sigue siendo snap.Generation, de modo que una lectura iniciada antes de una escritura nunca
// queda en caché después de su invalidación.
type SnapshotCache interface {
	Get(ctx context.Context, ownerID string) (*Snapshot, bool, error)
	Generation(ctx context.Context, ownerID string) (int64, error)
	Set(ctx context.Context, snap *Snapshot) error
	Invalidate(ctx context.Context, ownerID string) error
}
