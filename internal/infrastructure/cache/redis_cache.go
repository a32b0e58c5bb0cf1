// Package cache implementa el puerto SnapshotCache sobre Redis, con una variante vacía
// para cuando no hay servidor configurado.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/428lab/sales-aggregator/internal/application/ports"
)

const (
	keyPrefix        = "snapshot:"
	generationPrefix = "snapshot-gen:"
)

// setIfGeneration escribe el snapshot solo si la generación del propietario no cambió
// desde que se leyó. KEYS: snapshot, generación. ARGV: generación esperada, payload, ttl en ms.
var setIfGeneration = redis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if not cur then cur = '0' end
if cur ~= ARGV[1] then return 0 end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// RedisSnapshotCache guarda el snapshot de cada propietario como JSON con expiración,
// junto a un contador de generación por propietario que no expira.
type RedisSnapshotCache struct {
	client redis.Cmdable
	closer func() error
	ttl    time.Duration
}

var _ ports.SnapshotCache = (*RedisSnapshotCache)(nil)

// NewRedisSnapshotCache crea el cliente. La conexión se establece en el primer uso; usar Ping para comprobarla.
func NewRedisSnapshotCache(addr, password string, db int, ttl time.Duration) *RedisSnapshotCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSnapshotCache{client: client, closer: client.Close, ttl: ttl}
}

// NewRedisSnapshotCacheWithClient usa un cliente existente (p. ej. un ClusterClient). Close no lo cierra.
func NewRedisSnapshotCacheWithClient(client redis.Cmdable, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

// Key devuelve la clave Redis del snapshot de ownerID.
func Key(ownerID string) string {
	return keyPrefix + ownerID
}

// GenerationKey devuelve la clave Redis del contador de generación de ownerID.
func GenerationKey(ownerID string) string {
	return generationPrefix + ownerID
}

func (c *RedisSnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSnapshotCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func (c *RedisSnapshotCache) Get(ctx context.Context, ownerID string) (*ports.Snapshot, bool, error) {
	val, err := c.client.Get(ctx, Key(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var snap ports.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, false, err
	}
	// una entrada de otro propietario nunca se entrega
	if snap.OwnerID != ownerID {
		return nil, false, nil
	}
	return &snap, true, nil
}

func (c *RedisSnapshotCache) Generation(ctx context.Context, ownerID string) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set guarda snap si la generación del propietario sigue siendo snap.Generation; si no, lo descarta.
func (c *RedisSnapshotCache) Set(ctx context.Context, snap *ports.Snapshot) error {
	if snap == nil || snap.OwnerID == "" {
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	keys := []string{Key(snap.OwnerID), GenerationKey(snap.OwnerID)}
	return setIfGeneration.Run(ctx, c.client, keys, snap.Generation, payload, c.ttl.Milliseconds()).Err()
}

// Invalidate incrementa la generación y borra el snapshot en una misma transacción.
func (c *RedisSnapshotCache) Invalidate(ctx context.Context, ownerID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey(ownerID))
		pipe.Del(ctx, Key(ownerID))
		return nil
	})
	return err
}
