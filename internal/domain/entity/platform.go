package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform representa un canal de venta (tienda online, evento, consignación...).
// Solo las ItemSettings determinan tarifas y habilitación; PaymentMethods es informativo.
type Platform struct {
	ID             string
	OwnerID        string
	Name           string
	Description    string
	PaymentMethods []PaymentMethod
	ItemSettings   []ItemSetting
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PaymentMethod tarifa por defecto de un medio de pago del canal. Nunca se usa como respaldo en el cálculo.
type PaymentMethod struct {
	Name          string
	FeePercentage decimal.Decimal
	ShippingFee   decimal.Decimal
}

// ItemSetting configuración de un artículo en el canal. Su sola presencia habilita el artículo.
type ItemSetting struct {
	ItemID   string
	Variants []VariantOverride
}

// VariantOverride tarifa de una variante en el canal. VariantType vacío = comodín para todas las variantes.
type VariantOverride struct {
	VariantType   string
	FeePercentage decimal.Decimal // porcentaje, p. ej. 10 = 10%
	ShippingFee   decimal.Decimal // por unidad
}

// IsWildcard indica si el override aplica a cualquier variante.
func (o VariantOverride) IsWildcard() bool {
	return o.VariantType == ""
}

// SettingsFor devuelve los overrides configurados para itemID en el canal (todas las entradas que coincidan).
func (p Platform) SettingsFor(itemID string) []VariantOverride {
	var out []VariantOverride
	for _, s := range p.ItemSettings {
		if s.ItemID == itemID {
			out = append(out, s.Variants...)
		}
	}
	return out
}
