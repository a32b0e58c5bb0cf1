// Package aggregation suma liquidaciones: la matriz del mes (vista previa) y el libro de ventas (analítica).
// Todas las sumas son decimales exactos, por lo que el resultado no depende del orden de las entradas.
package aggregation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/period"
	"github.com/428lab/sales-aggregator/internal/domain/settlement"
)

// Totals acumulado de cantidad, subtotal, cargos y neto.
type Totals struct {
	Quantity    int
	Subtotal    decimal.Decimal
	Charges     decimal.Decimal
	Payout      decimal.Decimal
	TotalAmount decimal.Decimal
}

// ZeroTotals devuelve un acumulado en cero.
func ZeroTotals() Totals {
	return Totals{Subtotal: decimal.Zero, Charges: decimal.Zero, Payout: decimal.Zero, TotalAmount: decimal.Zero}
}

// AddBreakdown suma una celda calculada.
func (t Totals) AddBreakdown(b settlement.Breakdown) Totals {
	return Totals{
		Quantity:    t.Quantity + b.Quantity,
		Subtotal:    t.Subtotal.Add(b.Subtotal),
		Charges:     t.Charges.Add(b.Charges),
		Payout:      t.Payout.Add(b.Payout),
		TotalAmount: t.TotalAmount.Add(b.TotalAmount),
	}
}

// Add suma dos acumulados.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Quantity:    t.Quantity + o.Quantity,
		Subtotal:    t.Subtotal.Add(o.Subtotal),
		Charges:     t.Charges.Add(o.Charges),
		Payout:      t.Payout.Add(o.Payout),
		TotalAmount: t.TotalAmount.Add(o.TotalAmount),
	}
}

// Equal compara dos acumulados por valor.
func (t Totals) Equal(o Totals) bool {
	return t.Quantity == o.Quantity &&
		t.Subtotal.Equal(o.Subtotal) &&
		t.Charges.Equal(o.Charges) &&
		t.Payout.Equal(o.Payout) &&
		t.TotalAmount.Equal(o.TotalAmount)
}

// ── Matriz del mes ──────────────────────────────────────────────────────────

// CellKey identifica una celda de captura.
type CellKey struct {
	ItemID      string
	VariantType string
	PlatformID  string
}

// QuantityLookup devuelve la cantidad capturada para una celda (0 si no hay).
type QuantityLookup func(itemID, variantType, platformID string) int

// QuantityMap cantidades capturadas por celda.
type QuantityMap map[CellKey]int

// Lookup adapta el mapa a QuantityLookup.
func (m QuantityMap) Lookup(itemID, variantType, platformID string) int {
	return m[CellKey{ItemID: itemID, VariantType: variantType, PlatformID: platformID}]
}

// Cell celda calculada con cantidad positiva.
type Cell struct {
	Item      entity.Item
	Variant   entity.Variant
	Platform  entity.Platform
	Breakdown settlement.Breakdown
}

// Matrix resultado de AggregateMatrix.
type Matrix struct {
	Month      string
	Cells      []Cell
	ByPlatform map[string]Totals // clave: PlatformID
	Grand      Totals
}

// HasData indica si alguna celda tiene cantidad.
func (m Matrix) HasData() bool {
	return len(m.Cells) > 0
}

// PlatformTotals devuelve el acumulado del canal (cero si no tuvo ventas).
func (m Matrix) PlatformTotals(platformID string) Totals {
	if t, ok := m.ByPlatform[platformID]; ok {
		return t
	}
	return ZeroTotals()
}

// EachEligibleCell recorre las celdas elegibles del mes: artículo no archivado, variante activa
// en month y canal habilitado para la variante. El orden es el de las entradas.
func EachEligibleCell(items []entity.Item, platforms []entity.Platform, month string, fn func(entity.Item, entity.Variant, entity.Platform)) {
	for _, item := range items {
		if item.Archived {
			continue
		}
		for _, v := range item.Variants {
			if !settlement.IsActiveInMonth(item, v, month) {
				continue
			}
			for _, p := range platforms {
				if !settlement.IsEnabled(p, item.ID, v.Type) {
					continue
				}
				fn(item, v, p)
			}
		}
	}
}

// AggregateMatrix calcula la matriz del mes: solo celdas elegibles con cantidad > 0,
// totales por canal y total general.
func AggregateMatrix(items []entity.Item, platforms []entity.Platform, lookup QuantityLookup, month string) Matrix {
	m := Matrix{Month: month, ByPlatform: make(map[string]Totals), Grand: ZeroTotals()}
	for _, p := range platforms {
		m.ByPlatform[p.ID] = ZeroTotals()
	}
	if lookup == nil {
		return m
	}
	EachEligibleCell(items, platforms, month, func(item entity.Item, v entity.Variant, p entity.Platform) {
		q := lookup(item.ID, v.Type, p.ID)
		if q <= 0 {
			return
		}
		b := settlement.ComputeCell(item, v, p, q)
		m.Cells = append(m.Cells, Cell{Item: item, Variant: v, Platform: p, Breakdown: b})
		m.ByPlatform[p.ID] = m.ByPlatform[p.ID].AddBreakdown(b)
		m.Grand = m.Grand.AddBreakdown(b)
	})
	return m
}

// ── Libro de ventas ─────────────────────────────────────────────────────────

// KeyFunc devuelve la clave de agrupación y su etiqueta para una entrada.
type KeyFunc func(entity.Sale) (key, label string)

// Group acumulado de un grupo del libro.
type Group struct {
	Key     string
	Label   string
	Entries int
	Totals
}

// AveragePrice ingreso bruto medio por unidad (subtotal / cantidad).
func (g Group) AveragePrice() decimal.Decimal {
	if g.Quantity <= 0 {
		return decimal.Zero
	}
	return g.Subtotal.Div(decimal.NewFromInt(int64(g.Quantity)))
}

// Rederive reconstruye la liquidación de una entrada desde sus copias congeladas:
// subtotal = precio base × cantidad, cargos = max(total − subtotal, 0), neto = subtotal − cargos.
// Los registros antiguos sin precio base ni tarifas toman el total como subtotal.
func Rederive(s entity.Sale) Totals {
	q := s.Quantity
	if q < 0 {
		q = 0
	}
	total := s.TotalAmount
	if total.IsNegative() {
		total = decimal.Zero
	}
	subtotal := s.BasePrice.Mul(decimal.NewFromInt(int64(q)))
	if !s.BasePrice.IsPositive() && !s.FeePercentage.IsPositive() && !s.ShippingFee.IsPositive() {
		subtotal = total
	}
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	charges := total.Sub(subtotal)
	if charges.IsNegative() {
		charges = decimal.Zero
	}
	return Totals{
		Quantity:    q,
		Subtotal:    subtotal,
		Charges:     charges,
		Payout:      subtotal.Sub(charges),
		TotalAmount: total,
	}
}

// AggregateLedger agrupa entradas del libro por la clave de keyFn y suma lo rederivado.
// Los grupos se devuelven ordenados por clave ascendente.
func AggregateLedger(entries []entity.Sale, keyFn KeyFunc) []Group {
	idx := make(map[string]int)
	var groups []Group
	for _, e := range entries {
		key, label := keyFn(e)
		i, ok := idx[key]
		if !ok {
			i = len(groups)
			idx[key] = i
			groups = append(groups, Group{Key: key, Label: label, Totals: ZeroTotals()})
		}
		groups[i].Entries++
		groups[i].Totals = groups[i].Totals.Add(Rederive(e))
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].Key < groups[b].Key })
	return groups
}

// LedgerTotals suma todas las entradas rederivadas.
func LedgerTotals(entries []entity.Sale) Totals {
	t := ZeroTotals()
	for _, e := range entries {
		t = t.Add(Rederive(e))
	}
	return t
}

// ── Claves de agrupación ────────────────────────────────────────────────────

// ByMonth agrupa por mes; si la entrada no tiene mes se toma el de SaleDate.
func ByMonth(s entity.Sale) (string, string) {
	m := period.Normalize(s.Month)
	if m == "" && !s.SaleDate.IsZero() {
		m = period.Of(s.SaleDate)
	}
	return m, m
}

// ByItemVariant agrupa por artículo y variante; la etiqueta es "Nombre（Variante）".
func ByItemVariant(s entity.Sale) (string, string) {
	return s.ItemID + "\x00" + s.VariantType, s.ItemName + "（" + s.VariantType + "）"
}

// ByPlatform agrupa por canal; los registros sin id se agrupan por nombre.
func ByPlatform(s entity.Sale) (string, string) {
	if s.PlatformID == "" {
		return "name:" + s.PlatformName, s.PlatformName
	}
	return "id:" + s.PlatformID, s.PlatformName
}
