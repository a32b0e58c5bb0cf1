package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
	"github.com/428lab/sales-aggregator/pkg/logger"
)

var maxFeePercentage = decimal.NewFromInt(100)

// PlatformUseCase casos de uso CRUD de canales de venta y su configuración por artículo.
type PlatformUseCase struct {
	repo  repository.PlatformRepository
	cache ports.SnapshotCache
	log   *logger.Logger
	now   func() time.Time
}

// NewPlatformUseCase construye el caso de uso.
func NewPlatformUseCase(repo repository.PlatformRepository, cache ports.SnapshotCache, log *logger.Logger) *PlatformUseCase {
	return &PlatformUseCase{repo: repo, cache: cache, log: log, now: time.Now}
}

// Create crea un canal para ownerID.
func (uc *PlatformUseCase) Create(ctx context.Context, ownerID string, in dto.PlatformRequest) (*dto.PlatformResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	p, err := platformFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	p.ID = uuid.New().String()
	p.OwnerID = ownerID
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, uc.log, ownerID)
	return toPlatformResponse(p), nil
}

// GetByID obtiene un canal del propietario.
func (uc *PlatformUseCase) GetByID(ctx context.Context, ownerID, id string) (*dto.PlatformResponse, error) {
	p, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return toPlatformResponse(p), nil
}

// Update reemplaza el canal, incluida su configuración por artículo.
func (uc *PlatformUseCase) Update(ctx context.Context, ownerID, id string, in dto.PlatformRequest) (*dto.PlatformResponse, error) {
	current, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	p, err := platformFromRequest(in)
	if err != nil {
		return nil, err
	}
	p.ID = current.ID
	p.OwnerID = current.OwnerID
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, uc.log, ownerID)
	return toPlatformResponse(p), nil
}

// List lista los canales del propietario por nombre.
func (uc *PlatformUseCase) List(ctx context.Context, ownerID string) (*dto.PlatformListResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listar canales: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	items := make([]dto.PlatformResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPlatformResponse(p))
	}
	return &dto.PlatformListResponse{Items: items}, nil
}

// Delete elimina un canal del propietario.
func (uc *PlatformUseCase) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uc.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, uc.log, ownerID)
	return nil
}

func (uc *PlatformUseCase) owned(ctx context.Context, ownerID, id string) (*entity.Platform, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener canal: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// platformFromRequest valida la entrada y descarta configuraciones sin item_id.
// Comisiones entre 0 y 100; envíos no negativos.
func platformFromRequest(in dto.PlatformRequest) (*entity.Platform, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}

	pms := make([]entity.PaymentMethod, 0, len(in.PaymentMethods))
	for _, pm := range in.PaymentMethods {
		pmName := strings.TrimSpace(pm.Name)
		if pmName == "" {
			continue
		}
		if err := validateRate(pm.FeePercentage, pm.ShippingFee); err != nil {
			return nil, fmt.Errorf("medio de pago %q: %w", pmName, err)
		}
		pms = append(pms, entity.PaymentMethod{Name: pmName, FeePercentage: pm.FeePercentage, ShippingFee: pm.ShippingFee})
	}

	settings := make([]entity.ItemSetting, 0, len(in.ItemSettings))
	for _, s := range in.ItemSettings {
		itemID := strings.TrimSpace(s.ItemID)
		if itemID == "" {
			continue
		}
		overrides := make([]entity.VariantOverride, 0, len(s.Variants))
		for _, o := range s.Variants {
			if err := validateRate(o.FeePercentage, o.ShippingFee); err != nil {
				return nil, fmt.Errorf("artículo %s: %w", itemID, err)
			}
			overrides = append(overrides, entity.VariantOverride{
				VariantType:   strings.TrimSpace(o.VariantType),
				FeePercentage: o.FeePercentage,
				ShippingFee:   o.ShippingFee,
			})
		}
		settings = append(settings, entity.ItemSetting{ItemID: itemID, Variants: overrides})
	}

	return &entity.Platform{
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		PaymentMethods: pms,
		ItemSettings:   settings,
	}, nil
}

func validateRate(fee, shipping decimal.Decimal) error {
	if fee.IsNegative() || fee.GreaterThan(maxFeePercentage) {
		return fmt.Errorf("%w: comisión fuera de rango 0-100", domain.ErrInvalidInput)
	}
	if shipping.IsNegative() {
		return fmt.Errorf("%w: envío negativo", domain.ErrInvalidInput)
	}
	return nil
}

func toPlatformResponse(p *entity.Platform) *dto.PlatformResponse {
	if p == nil {
		return nil
	}
	pms := make([]dto.PaymentMethodDTO, 0, len(p.PaymentMethods))
	for _, pm := range p.PaymentMethods {
		pms = append(pms, dto.PaymentMethodDTO{Name: pm.Name, FeePercentage: pm.FeePercentage, ShippingFee: pm.ShippingFee})
	}
	settings := make([]dto.ItemSettingDTO, 0, len(p.ItemSettings))
	for _, s := range p.ItemSettings {
		vs := make([]dto.VariantOverrideDTO, 0, len(s.Variants))
		for _, o := range s.Variants {
			vs = append(vs, dto.VariantOverrideDTO{VariantType: o.VariantType, FeePercentage: o.FeePercentage, ShippingFee: o.ShippingFee})
		}
		settings = append(settings, dto.ItemSettingDTO{ItemID: s.ItemID, Variants: vs})
	}
	return &dto.PlatformResponse{
		ID:             p.ID,
		OwnerID:        p.OwnerID,
		Name:           p.Name,
		Description:    p.Description,
		PaymentMethods: pms,
		ItemSettings:   settings,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
