package cache

import (
	"context"

	"github.com/428lab/sales-aggregator/internal/application/ports"
)

// NoopSnapshotCache no guarda nada: cada lectura va a la fuente.
type NoopSnapshotCache struct{}

var _ ports.SnapshotCache = NoopSnapshotCache{}

func (NoopSnapshotCache) Get(_ context.Context, _ string) (*ports.Snapshot, bool, error) {
	return nil, false, nil
}

func (NoopSnapshotCache) Generation(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (NoopSnapshotCache) Set(_ context.Context, _ *ports.Snapshot) error {
	return nil
}

func (NoopSnapshotCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
