package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodDTO tarifa por defecto de un medio de pago (solo informativa).
type PaymentMethodDTO struct {
	Name          string          `json:"name"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
}

// VariantOverrideDTO tarifa de una variante en el canal. variant_type vacío = todas las variantes.
type VariantOverrideDTO struct {
	VariantType   string          `json:"variant_type"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
}

// ItemSettingDTO habilita un artículo en el canal con sus tarifas.
type ItemSettingDTO struct {
	ItemID   string               `json:"item_id"`
	Variants []VariantOverrideDTO `json:"variants"`
}

// PlatformRequest entrada para crear o reemplazar un canal. Las item_settings sin item_id se descartan.
type PlatformRequest struct {
	Name           string             `json:"name" validate:"required,min=1,max=200"`
	Description    string             `json:"description"`
	PaymentMethods []PaymentMethodDTO `json:"payment_methods"`
	ItemSettings   []ItemSettingDTO   `json:"item_settings"`
}

// PlatformResponse salida de un canal.
type PlatformResponse struct {
	ID             string             `json:"id"`
	OwnerID        string             `json:"owner_id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	PaymentMethods []PaymentMethodDTO `json:"payment_methods"`
	ItemSettings   []ItemSettingDTO   `json:"item_settings"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// PlatformListResponse lista de canales.
type PlatformListResponse struct {
	Items []PlatformResponse `json:"items"`
}
