package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
)

func TestDecodeVariants_Normaliza(t *testing.T) {
	raw := []byte(`[
		{"type":"Paper","price":1500,"requiresShipping":true,"startMonth":"2024-03"},
		{"type":"PDF","basePrice":"800"},
		{"type":"Roto","price":"abc","startMonth":"marzo"},
		{"type":"Neg","price":-10,"requiresShipping":false}
	]`)

	vs := decodeVariants(raw)

	require.Len(t, vs, 4)
	assert.True(t, vs[0].Price.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "2024-03", vs[0].StartMonth)
	assert.True(t, vs[1].Price.Equal(decimal.NewFromInt(800)), "basePrice antiguo")
	assert.True(t, vs[1].RequiresShipping, "requiresShipping ausente = true")
	assert.True(t, vs[2].Price.IsZero(), "precio no numérico = 0")
	assert.Equal(t, "", vs[2].StartMonth, "mes mal formado se descarta")
	assert.True(t, vs[3].Price.IsZero(), "precio negativo = 0")
	assert.False(t, vs[3].RequiresShipping)
}

func TestDecodeList_ToleraBasura(t *testing.T) {
	assert.Nil(t, decodeVariants(nil))
	assert.Nil(t, decodeVariants([]byte("null")))
	assert.Nil(t, decodeVariants([]byte(`{"type":"x"}`)))
	assert.Nil(t, decodeItemSettings([]byte(`[{"itemId":1}]`)))
}

func TestDecodeItemSettings_DescartaSinItemID(t *testing.T) {
	raw := []byte(`[
		{"itemId":"","variants":[{"variantType":"","feePercentage":10}]},
		{"itemId":"item-1","variants":[{"variantType":"Paper","feePercentage":"10.5","shippingFee":null}]}
	]`)

	settings := decodeItemSettings(raw)

	require.Len(t, settings, 1)
	assert.Equal(t, "item-1", settings[0].ItemID)
	require.Len(t, settings[0].Variants, 1)
	assert.True(t, settings[0].Variants[0].FeePercentage.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, settings[0].Variants[0].ShippingFee.IsZero())
}

func TestEncodeDecode_Platform(t *testing.T) {
	settings := []entity.ItemSetting{{ItemID: "i", Variants: []entity.VariantOverride{
		{VariantType: "", FeePercentage: decimal.RequireFromString("3.6"), ShippingFee: decimal.NewFromInt(100)},
	}}}
	pms := []entity.PaymentMethod{{Name: "Tarjeta", FeePercentage: decimal.NewFromInt(5), ShippingFee: decimal.Zero}}

	rawS, err := encodeItemSettings(settings)
	require.NoError(t, err)
	rawP, err := encodePaymentMethods(pms)
	require.NoError(t, err)

	gotS := decodeItemSettings(rawS)
	gotP := decodePaymentMethods(rawP)

	require.Len(t, gotS, 1)
	assert.True(t, gotS[0].Variants[0].FeePercentage.Equal(decimal.RequireFromString("3.6")))
	assert.True(t, gotS[0].Variants[0].IsWildcard())
	require.Len(t, gotP, 1)
	assert.Equal(t, "Tarjeta", gotP[0].Name)
}

func TestEncodeVariants_GuardaRequiresShippingExplicito(t *testing.T) {
	raw, err := encodeVariants([]entity.Variant{{Type: "PDF", Price: decimal.NewFromInt(800), RequiresShipping: false}})
	require.NoError(t, err)

	got := decodeVariants(raw)

	require.Len(t, got, 1)
	assert.False(t, got[0].RequiresShipping, "false no debe leerse como el default true")
}
