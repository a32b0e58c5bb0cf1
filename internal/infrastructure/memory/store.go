// Package memory implementa los puertos de persistencia en memoria (desarrollo y tests).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
)

var (
	_ repository.ItemRepository     = (*ItemRepo)(nil)
	_ repository.PlatformRepository = (*PlatformRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
)

// Store guarda artículos, canales y libro de ventas bajo un único mutex.
// Todo lo que entra y sale se copia para que nadie comparta slices con el almacén.
type Store struct {
	mu        sync.RWMutex
	items     map[string]entity.Item
	platforms map[string]entity.Platform
	sales     []entity.Sale
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]entity.Item),
		platforms: make(map[string]entity.Platform),
	}
}

// Items devuelve el adaptador de artículos.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Platforms devuelve el adaptador de canales.
func (s *Store) Platforms() *PlatformRepo { return &PlatformRepo{s: s} }

// Sales devuelve el adaptador del libro de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// ── Artículos ───────────────────────────────────────────────────────────────

// ItemRepo adaptador en memoria de ItemRepository.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Item
	for _, it := range r.s.items {
		if it.OwnerID == ownerID {
			c := cloneItem(it)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	c := cloneItem(it)
	return &c, nil
}

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.items[item.ID] = cloneItem(*item)
	return nil
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := cloneItem(*item)
	c.OwnerID = prev.OwnerID
	c.CreatedAt = prev.CreatedAt
	r.s.items[item.ID] = c
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.items, id)
	return nil
}

// ── Canales ─────────────────────────────────────────────────────────────────

// PlatformRepo adaptador en memoria de PlatformRepository.
type PlatformRepo struct{ s *Store }

func (r *PlatformRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Platform, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Platform
	for _, p := range r.s.platforms {
		if p.OwnerID == ownerID {
			c := clonePlatform(p)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PlatformRepo) GetByID(ctx context.Context, id string) (*entity.Platform, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.platforms[id]
	if !ok {
		return nil, nil
	}
	c := clonePlatform(p)
	return &c, nil
}

func (r *PlatformRepo) Create(ctx context.Context, p *entity.Platform) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.platforms[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.platforms[p.ID] = clonePlatform(*p)
	return nil
}

func (r *PlatformRepo) Update(ctx context.Context, p *entity.Platform) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.platforms[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := clonePlatform(*p)
	c.OwnerID = prev.OwnerID
	c.CreatedAt = prev.CreatedAt
	r.s.platforms[p.ID] = c
	return nil
}

func (r *PlatformRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.platforms, id)
	return nil
}

// ── Libro de ventas ─────────────────────────────────────────────────────────

// SaleRepo adaptador en memoria de SaleRepository. El lote se añade completo bajo el lock.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) CreateBatch(ctx context.Context, sales []*entity.Sale) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range sales {
		r.s.sales = append(r.s.sales, *s)
	}
	return nil
}

func (r *SaleRepo) ListByOwnerAndMonth(ctx context.Context, ownerID, month string) ([]*entity.Sale, error) {
	return r.filter(ctx, func(s entity.Sale) bool { return s.OwnerID == ownerID && s.Month == month })
}

func (r *SaleRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Sale, error) {
	return r.filter(ctx, func(s entity.Sale) bool { return s.OwnerID == ownerID })
}

func (r *SaleRepo) filter(ctx context.Context, keep func(entity.Sale) bool) ([]*entity.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Sale
	for _, s := range r.s.sales {
		if keep(s) {
			c := s
			out = append(out, &c)
		}
	}
	return out, nil
}

func cloneItem(it entity.Item) entity.Item {
	it.Variants = append([]entity.Variant(nil), it.Variants...)
	return it
}

func clonePlatform(p entity.Platform) entity.Platform {
	p.PaymentMethods = append([]entity.PaymentMethod(nil), p.PaymentMethods...)
	settings := make([]entity.ItemSetting, len(p.ItemSettings))
	for i, s := range p.ItemSettings {
		settings[i] = entity.ItemSetting{ItemID: s.ItemID, Variants: append([]entity.VariantOverride(nil), s.Variants...)}
	}
	p.ItemSettings = settings
	return p
}
