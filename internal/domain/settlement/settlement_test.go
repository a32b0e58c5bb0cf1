package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/settlement"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got.String())
}

func bookItem() entity.Item {
	return entity.Item{
		ID:   "item-1",
		Name: "Libro",
		Variants: []entity.Variant{
			{Type: "Paper", Price: d("1500"), RequiresShipping: true},
			{Type: "PDF", Price: d("800"), RequiresShipping: false},
		},
	}
}

func platformX() entity.Platform {
	return entity.Platform{
		ID:   "plat-x",
		Name: "X",
		PaymentMethods: []entity.PaymentMethod{
			{Name: "Tarjeta", FeePercentage: d("5"), ShippingFee: d("50")},
		},
		ItemSettings: []entity.ItemSetting{
			{ItemID: "item-1", Variants: []entity.VariantOverride{
				{VariantType: "Paper", FeePercentage: d("10"), ShippingFee: d("100")},
			}},
		},
	}
}

func TestComputeCell_EscenarioDeReferencia(t *testing.T) {
	item := bookItem()
	b := settlement.ComputeCell(item, item.Variants[0], platformX(), 3)

	assertDec(t, "4500", b.Subtotal, "subtotal")
	assertDec(t, "450", b.Fee, "comisión")
	assertDec(t, "300", b.Shipping, "envío")
	assertDec(t, "750", b.Charges, "cargos")
	assertDec(t, "3750", b.Payout, "neto")
	assertDec(t, "5250", b.TotalAmount, "total")
	assertDec(t, "1500", b.UnitPrice, "precio unitario")
	assert.Equal(t, 3, b.Quantity)
	assert.False(t, b.IsZero())
}

func TestComputeCell_PrecioNegativoSeCongelaComoCero(t *testing.T) {
	item := bookItem()
	item.Variants[0].Price = d("-10")

	b := settlement.ComputeCell(item, item.Variants[0], platformX(), 2)

	assertDec(t, "0", b.UnitPrice, "precio efectivo")
	assertDec(t, "0", b.Subtotal, "subtotal")
	assertDec(t, "200", b.TotalAmount, "total")
	assertDec(t, "1500", bookItem().Variants[0].Price, "el precio de la variante no cambia")
}

func TestComputeCell_CantidadNoPositivaDevuelveCeros(t *testing.T) {
	item := bookItem()
	for _, q := range []int{0, -1, -100} {
		b := settlement.ComputeCell(item, item.Variants[0], platformX(), q)
		assert.True(t, b.IsZero())
		assertDec(t, "0", b.Subtotal, "subtotal")
		assertDec(t, "0", b.Charges, "cargos")
		assertDec(t, "0", b.Payout, "neto")
		assertDec(t, "0", b.TotalAmount, "total")
	}
}

func TestComputeCell_SinEnvioNoCobraEnvio(t *testing.T) {
	item := bookItem()
	p := platformX()
	p.ItemSettings[0].Variants = append(p.ItemSettings[0].Variants,
		entity.VariantOverride{VariantType: "PDF", FeePercentage: d("20"), ShippingFee: d("100")})

	b := settlement.ComputeCell(item, item.Variants[1], p, 2)

	assertDec(t, "1600", b.Subtotal, "subtotal")
	assertDec(t, "320", b.Fee, "comisión")
	assertDec(t, "0", b.Shipping, "envío")
	assertDec(t, "1280", b.Payout, "neto")
}

func TestComputeCell_IdentidadesExactas(t *testing.T) {
	item := entity.Item{ID: "i", Variants: []entity.Variant{{Type: "A", Price: d("333.33"), RequiresShipping: true}}}
	p := entity.Platform{ItemSettings: []entity.ItemSetting{{ItemID: "i", Variants: []entity.VariantOverride{
		{FeePercentage: d("7.5"), ShippingFee: d("12.34")},
	}}}}

	for q := 1; q <= 25; q++ {
		b := settlement.ComputeCell(item, item.Variants[0], p, q)
		assert.True(t, b.Subtotal.Equal(d("333.33").Mul(decimal.NewFromInt(int64(q)))), "subtotal = precio × q")
		assert.True(t, b.Payout.Equal(b.Subtotal.Sub(b.Charges)), "neto = subtotal − cargos")
		assert.True(t, b.TotalAmount.Equal(b.Subtotal.Add(b.Charges)), "total = subtotal + cargos")
		assert.True(t, b.Charges.Equal(b.Fee.Add(b.Shipping)), "cargos = comisión + envío")
	}
}

func TestResolveRate_Prioridad(t *testing.T) {
	p := entity.Platform{ItemSettings: []entity.ItemSetting{{ItemID: "item-1", Variants: []entity.VariantOverride{
		{VariantType: "", FeePercentage: d("8"), ShippingFee: d("0")},
		{VariantType: "Paper", FeePercentage: d("10"), ShippingFee: d("100")},
	}}}}

	exact := settlement.ResolveRate(p, "item-1", "Paper")
	assertDec(t, "10", exact.FeePercentage, "override exacto gana al comodín")
	assertDec(t, "100", exact.ShippingFee, "envío del override exacto")

	wild := settlement.ResolveRate(p, "item-1", "PDF")
	assertDec(t, "8", wild.FeePercentage, "comodín cuando no hay exacto")

	none := settlement.ResolveRate(p, "item-2", "Paper")
	assertDec(t, "0", none.FeePercentage, "sin override la tarifa es cero")
	assertDec(t, "0", none.ShippingFee, "sin override el envío es cero")
}

func TestResolveRate_NoUsaDefaultsDeMedioDePago(t *testing.T) {
	p := platformX()
	p.ItemSettings = nil

	r := settlement.ResolveRate(p, "item-1", "Paper")

	assertDec(t, "0", r.FeePercentage, "los defaults del medio de pago no son respaldo")
	assertDec(t, "0", r.ShippingFee, "los defaults del medio de pago no son respaldo")
}

func TestResolveRate_InvarianteAlReordenar(t *testing.T) {
	overrides := []entity.VariantOverride{
		{VariantType: "Paper", FeePercentage: d("10"), ShippingFee: d("100")},
		{VariantType: "", FeePercentage: d("3"), ShippingFee: d("5")},
		{VariantType: "Paper", FeePercentage: d("12"), ShippingFee: d("0")},
		{VariantType: "", FeePercentage: d("3"), ShippingFee: d("9")},
		{VariantType: "PDF", FeePercentage: d("1"), ShippingFee: d("1")},
	}
	reversed := make([]entity.VariantOverride, len(overrides))
	for i, o := range overrides {
		reversed[len(overrides)-1-i] = o
	}
	a := entity.Platform{ItemSettings: []entity.ItemSetting{{ItemID: "i", Variants: overrides}}}
	b := entity.Platform{ItemSettings: []entity.ItemSetting{{ItemID: "i", Variants: reversed}}}

	for _, v := range []string{"Paper", "PDF", "Otro"} {
		ra := settlement.ResolveRate(a, "i", v)
		rb := settlement.ResolveRate(b, "i", v)
		assert.True(t, ra.FeePercentage.Equal(rb.FeePercentage), "comisión estable para %s", v)
		assert.True(t, ra.ShippingFee.Equal(rb.ShippingFee), "envío estable para %s", v)
	}
	assertDec(t, "12", settlement.ResolveRate(a, "i", "Paper").FeePercentage, "duplicados: mayor comisión")
	assertDec(t, "9", settlement.ResolveRate(a, "i", "Otro").ShippingFee, "duplicados comodín: mayor envío")
}

func TestResolveRate_NegativosSeTratanComoCero(t *testing.T) {
	p := entity.Platform{ItemSettings: []entity.ItemSetting{{ItemID: "i", Variants: []entity.VariantOverride{
		{FeePercentage: d("-5"), ShippingFee: d("-1")},
	}}}}

	r := settlement.ResolveRate(p, "i", "A")

	assertDec(t, "0", r.FeePercentage, "comisión negativa")
	assertDec(t, "0", r.ShippingFee, "envío negativo")
}

func TestIsEnabled(t *testing.T) {
	x := platformX()
	y := entity.Platform{ID: "plat-y", Name: "Y"}
	wild := entity.Platform{ItemSettings: []entity.ItemSetting{{ItemID: "item-1", Variants: []entity.VariantOverride{{}}}}}

	assert.True(t, settlement.IsEnabled(x, "item-1", "Paper"))
	assert.False(t, settlement.IsEnabled(x, "item-1", "PDF"), "sin override para PDF ni comodín")
	assert.False(t, settlement.IsEnabled(y, "item-1", "Paper"), "otro canal no hereda la configuración de X")
	assert.True(t, settlement.IsEnabled(wild, "item-1", "Cualquiera"), "comodín habilita todas las variantes")
	assert.False(t, settlement.IsEnabled(wild, "item-2", "Paper"))
}

func TestIsActiveInMonth(t *testing.T) {
	item := entity.Item{StartMonth: "2024-03"}
	inherit := entity.Variant{Type: "A"}
	own := entity.Variant{Type: "B", StartMonth: "2024-06"}

	cases := []struct {
		name    string
		variant entity.Variant
		month   string
		want    bool
	}{
		{"antes del mes del artículo", inherit, "2024-02", false},
		{"mes exacto del artículo", inherit, "2024-03", true},
		{"después", inherit, "2024-12", true},
		{"variante propia antes", own, "2024-05", false},
		{"variante propia mes exacto", own, "2024-06", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, settlement.IsActiveInMonth(item, tc.variant, tc.month))
		})
	}

	cross := entity.Item{StartMonth: "2024-01"}
	assert.False(t, settlement.IsActiveInMonth(cross, inherit, "2023-12"), "cambio de año")
	assert.True(t, settlement.IsActiveInMonth(entity.Item{}, inherit, "1999-01"), "sin activación siempre activa")
	assert.True(t, settlement.IsActiveInMonth(entity.Item{StartMonth: "mal"}, inherit, "2020-01"), "activación mal formada se ignora")
}

func TestComputeCell_NoModificaEntradas(t *testing.T) {
	item := bookItem()
	p := platformX()
	before := p.ItemSettings[0].Variants[0]

	_ = settlement.ComputeCell(item, item.Variants[0], p, 5)

	require.Len(t, p.ItemSettings, 1)
	assert.Equal(t, before, p.ItemSettings[0].Variants[0])
	assertDec(t, "1500", item.Variants[0].Price, "precio intacto")
}
