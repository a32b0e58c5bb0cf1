package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariantDTO variante de precio de un artículo.
type VariantDTO struct {
	Type             string          `json:"type"`
	Price            decimal.Decimal `json:"price"`
	RequiresShipping *bool           `json:"requires_shipping,omitempty"` // ausente = true
	StartMonth       string          `json:"start_month,omitempty"`       // YYYY-MM
}

// ItemRequest entrada para crear o reemplazar un artículo.
// Las variantes con tipo vacío se descartan antes de validar.
type ItemRequest struct {
	Name       string       `json:"name" validate:"required,min=1,max=200"`
	Variants   []VariantDTO `json:"variants" validate:"required,min=1"`
	Archived   bool         `json:"archived"`
	StartMonth string       `json:"start_month"` // YYYY-MM, opcional
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID         string       `json:"id"`
	OwnerID    string       `json:"owner_id"`
	Name       string       `json:"name"`
	Variants   []VariantDTO `json:"variants"`
	Archived   bool         `json:"archived"`
	StartMonth string       `json:"start_month,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// ItemListResponse lista de artículos ordenada por mes de activación descendente y nombre.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}
