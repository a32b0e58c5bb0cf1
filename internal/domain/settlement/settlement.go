// Package settlement calcula la liquidación de una celda (artículo, variante, canal, cantidad):
// subtotal bruto, cargos deducidos (comisión + envío) y neto a cobrar.
// Es un servicio de dominio puro: no hace I/O ni modifica sus entradas.
package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
)

// Rate tarifa resuelta para una celda.
type Rate struct {
	FeePercentage decimal.Decimal
	ShippingFee   decimal.Decimal
}

// Breakdown resultado del cálculo de una celda.
type Breakdown struct {
	Quantity    int
	UnitPrice   decimal.Decimal // precio efectivo usado (negativo = 0); es el que se congela en el libro
	Rate        Rate
	Subtotal    decimal.Decimal // precio × cantidad
	Fee         decimal.Decimal // subtotal × comisión / 100
	Shipping    decimal.Decimal // envío × cantidad, solo si la variante requiere envío
	Charges     decimal.Decimal // Fee + Shipping
	Payout      decimal.Decimal // Subtotal − Charges
	TotalAmount decimal.Decimal // Subtotal + Charges (lo que se guarda en el libro)
}

// IsZero indica si la celda no aporta nada (cantidad ≤ 0).
func (b Breakdown) IsZero() bool {
	return b.Quantity <= 0
}

// ResolveRate resuelve la tarifa de la variante en el canal.
// Orden: override de la variante exacta, luego comodín del artículo, luego tarifa cero.
// Los defaults de PaymentMethods nunca se usan como respaldo.
func ResolveRate(platform entity.Platform, itemID, variantType string) Rate {
	overrides := platform.SettingsFor(itemID)
	if o, ok := pick(overrides, func(o entity.VariantOverride) bool {
		return !o.IsWildcard() && o.VariantType == variantType
	}); ok {
		return rateOf(o)
	}
	if o, ok := pick(overrides, entity.VariantOverride.IsWildcard); ok {
		return rateOf(o)
	}
	return Rate{FeePercentage: decimal.Zero, ShippingFee: decimal.Zero}
}

// IsEnabled indica si el artículo se puede vender en el canal con esa variante:
// existe un override exacto o un comodín para el artículo.
func IsEnabled(platform entity.Platform, itemID, variantType string) bool {
	for _, o := range platform.SettingsFor(itemID) {
		if o.IsWildcard() || o.VariantType == variantType {
			return true
		}
	}
	return false
}

// IsActiveInMonth indica si la variante está activa en month ("YYYY-MM").
// Sin mes de activación efectivo siempre está activa; si no, activa cuando month >= activación.
func IsActiveInMonth(item entity.Item, variant entity.Variant, month string) bool {
	start := item.EffectiveStartMonth(variant)
	if !wellFormed(start) {
		return true
	}
	return month >= start
}

// ComputeCell calcula la liquidación de quantity unidades de la variante en el canal.
// Cantidad ≤ 0 devuelve todo en cero. El envío se cobra por unidad.
func ComputeCell(item entity.Item, variant entity.Variant, platform entity.Platform, quantity int) Breakdown {
	if quantity <= 0 {
		return zeroBreakdown()
	}
	rate := ResolveRate(platform, item.ID, variant.Type)
	q := decimal.NewFromInt(int64(quantity))

	unit := nonNegative(variant.Price)
	subtotal := unit.Mul(q)
	fee := subtotal.Mul(rate.FeePercentage).Shift(-2)
	shipping := decimal.Zero
	if variant.RequiresShipping {
		shipping = rate.ShippingFee.Mul(q)
	}
	charges := fee.Add(shipping)

	return Breakdown{
		Quantity:    quantity,
		UnitPrice:   unit,
		Rate:        rate,
		Subtotal:    subtotal,
		Fee:         fee,
		Shipping:    shipping,
		Charges:     charges,
		Payout:      subtotal.Sub(charges),
		TotalAmount: subtotal.Add(charges),
	}
}

// pick elige, entre los overrides que cumplen match, el de mayor comisión y luego mayor envío,
// de modo que el resultado no depende del orden de la lista.
func pick(overrides []entity.VariantOverride, match func(entity.VariantOverride) bool) (entity.VariantOverride, bool) {
	var best entity.VariantOverride
	found := false
	for _, o := range overrides {
		if !match(o) {
			continue
		}
		if !found || greater(o, best) {
			best, found = o, true
		}
	}
	return best, found
}

func greater(a, b entity.VariantOverride) bool {
	fa, fb := nonNegative(a.FeePercentage), nonNegative(b.FeePercentage)
	if !fa.Equal(fb) {
		return fa.GreaterThan(fb)
	}
	return nonNegative(a.ShippingFee).GreaterThan(nonNegative(b.ShippingFee))
}

func rateOf(o entity.VariantOverride) Rate {
	return Rate{FeePercentage: nonNegative(o.FeePercentage), ShippingFee: nonNegative(o.ShippingFee)}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func zeroBreakdown() Breakdown {
	return Breakdown{
		UnitPrice:   decimal.Zero,
		Rate:        Rate{FeePercentage: decimal.Zero, ShippingFee: decimal.Zero},
		Subtotal:    decimal.Zero,
		Fee:         decimal.Zero,
		Shipping:    decimal.Zero,
		Charges:     decimal.Zero,
		Payout:      decimal.Zero,
		TotalAmount: decimal.Zero,
	}
}

// wellFormed valida "YYYY-MM" sin depender de time para que la comparación siga siendo lexicográfica.
func wellFormed(month string) bool {
	if len(month) != 7 || month[4] != '-' {
		return false
	}
	for i, c := range month {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	mm := (month[5]-'0')*10 + (month[6] - '0')
	return mm >= 1 && mm <= 12
}
