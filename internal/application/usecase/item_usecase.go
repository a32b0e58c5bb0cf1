package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/period"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
	"github.com/428lab/sales-aggregator/pkg/logger"
)

// ItemUseCase casos de uso CRUD del catálogo. Cada escritura invalida el snapshot cacheado del propietario.
type ItemUseCase struct {
	repo  repository.ItemRepository
	cache ports.SnapshotCache
	log   *logger.Logger
	now   func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, cache ports.SnapshotCache, log *logger.Logger) *ItemUseCase {
	return &ItemUseCase{repo: repo, cache: cache, log: log, now: time.Now}
}

// Create crea un artículo para ownerID.
func (uc *ItemUseCase) Create(ctx context.Context, ownerID string, in dto.ItemRequest) (*dto.ItemResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	item, err := itemFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	item.ID = uuid.New().String()
	item.OwnerID = ownerID
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, uc.log, ownerID)
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo del propietario.
func (uc *ItemUseCase) GetByID(ctx context.Context, ownerID, id string) (*dto.ItemResponse, error) {
	item, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update reemplaza el artículo con los datos de in.
func (uc *ItemUseCase) Update(ctx context.Context, ownerID, id string, in dto.ItemRequest) (*dto.ItemResponse, error) {
	current, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	item, err := itemFromRequest(in)
	if err != nil {
		return nil, err
	}
	item.ID = current.ID
	item.OwnerID = current.OwnerID
	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, uc.log, ownerID)
	return toItemResponse(item), nil
}

// List lista los artículos del propietario ordenados por mes de activación descendente y luego por nombre.
func (uc *ItemUseCase) List(ctx context.Context, ownerID string) (*dto.ItemListResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listar artículos: %w", err)
	}
	SortItems(list)
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{Items: items}, nil
}

// Delete elimina un artículo del propietario. Las ventas registradas conservan sus copias.
func (uc *ItemUseCase) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uc.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, uc.log, ownerID)
	return nil
}

func (uc *ItemUseCase) owned(ctx context.Context, ownerID, id string) (*entity.Item, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener artículo: %w", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// SortItems ordena por mes de activación descendente (sin mes al final) y luego por nombre.
func SortItems(items []*entity.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.StartMonth != b.StartMonth {
			return a.StartMonth > b.StartMonth
		}
		return a.Name < b.Name
	})
}

// itemFromRequest normaliza y valida la entrada: descarta variantes sin tipo, exige al menos una
// variante si el artículo está activo, tipos únicos, precios no negativos y meses YYYY-MM.
func itemFromRequest(in dto.ItemRequest) (*entity.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	startMonth, err := optionalMonth(in.StartMonth)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	variants := make([]entity.Variant, 0, len(in.Variants))
	for _, v := range in.Variants {
		typ := strings.TrimSpace(v.Type)
		if typ == "" {
			continue
		}
		if seen[typ] {
			return nil, fmt.Errorf("%w: variante %q repetida", domain.ErrInvalidInput, typ)
		}
		seen[typ] = true
		if v.Price.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo en %q", domain.ErrInvalidInput, typ)
		}
		vStart, err := optionalMonth(v.StartMonth)
		if err != nil {
			return nil, err
		}
		requires := true
		if v.RequiresShipping != nil {
			requires = *v.RequiresShipping
		}
		variants = append(variants, entity.Variant{
			Type:             typ,
			Price:            v.Price,
			RequiresShipping: requires,
			StartMonth:       vStart,
		})
	}
	if len(variants) == 0 && !in.Archived {
		return nil, fmt.Errorf("%w: un artículo activo necesita al menos una variante", domain.ErrInvalidInput)
	}

	return &entity.Item{
		Name:       name,
		Variants:   variants,
		Archived:   in.Archived,
		StartMonth: startMonth,
	}, nil
}

func optionalMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := period.Parse(s); err != nil {
		return "", err
	}
	return s, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	variants := make([]dto.VariantDTO, 0, len(it.Variants))
	for _, v := range it.Variants {
		rs := v.RequiresShipping
		variants = append(variants, dto.VariantDTO{
			Type:             v.Type,
			Price:            v.Price,
			RequiresShipping: &rs,
			StartMonth:       v.StartMonth,
		})
	}
	return &dto.ItemResponse{
		ID:         it.ID,
		OwnerID:    it.OwnerID,
		Name:       it.Name,
		Variants:   variants,
		Archived:   it.Archived,
		StartMonth: it.StartMonth,
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
}

// invalidate descarta el snapshot cacheado; un fallo de la caché solo se registra.
func invalidate(ctx context.Context, cache ports.SnapshotCache, log *logger.Logger, ownerID string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, ownerID); err != nil && log != nil {
		log.Warn().Err(err).Str("owner_id", ownerID).Msg("no se pudo invalidar el snapshot en caché")
	}
}
