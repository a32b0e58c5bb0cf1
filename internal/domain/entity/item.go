package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo con sus variantes de precio.
// StartMonth ("YYYY-MM", opcional) es el mes de activación heredado por las variantes que no definen el suyo.
type Item struct {
	ID         string
	OwnerID    string
	Name       string
	Variants   []Variant
	Archived   bool
	StartMonth string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Variant es una presentación vendible del artículo (p. ej. "Paper", "PDF").
type Variant struct {
	Type             string          // etiqueta única dentro del artículo
	Price            decimal.Decimal // precio unitario, no negativo
	RequiresShipping bool
	StartMonth       string // "YYYY-MM"; vacío = hereda del artículo
}

// EffectiveStartMonth devuelve el mes de activación de la variante: el propio, si no el del artículo.
// Vacío significa siempre activa.
func (i Item) EffectiveStartMonth(v Variant) string {
	if v.StartMonth != "" {
		return v.StartMonth
	}
	return i.StartMonth
}

// FindVariant busca una variante por tipo.
func (i Item) FindVariant(variantType string) (Variant, bool) {
	for _, v := range i.Variants {
		if v.Type == variantType {
			return v, true
		}
	}
	return Variant{}, false
}
