package postgres

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/period"
)

// Las listas anidadas (variantes, medios de pago, configuración por artículo) se guardan como JSONB.
// Al leer se normalizan una sola vez: números ausentes, no numéricos o negativos pasan a 0,
// requiresShipping ausente pasa a true y los meses mal formados se descartan.

type variantDoc struct {
	Type             string          `json:"type"`
	Price            json.RawMessage `json:"price,omitempty"`
	BasePrice        json.RawMessage `json:"basePrice,omitempty"` // nombre antiguo de price
	RequiresShipping *bool           `json:"requiresShipping,omitempty"`
	StartMonth       string          `json:"startMonth,omitempty"`
}

type paymentMethodDoc struct {
	Name          string          `json:"name"`
	FeePercentage json.RawMessage `json:"feePercentage,omitempty"`
	ShippingFee   json.RawMessage `json:"shippingFee,omitempty"`
}

type variantOverrideDoc struct {
	VariantType   string          `json:"variantType"`
	FeePercentage json.RawMessage `json:"feePercentage,omitempty"`
	ShippingFee   json.RawMessage `json:"shippingFee,omitempty"`
}

type itemSettingDoc struct {
	ItemID   string               `json:"itemId"`
	Variants []variantOverrideDoc `json:"variants"`
}

// ── Escritura ───────────────────────────────────────────────────────────────

func encodeVariants(vs []entity.Variant) ([]byte, error) {
	docs := make([]variantDoc, 0, len(vs))
	for _, v := range vs {
		rs := v.RequiresShipping
		docs = append(docs, variantDoc{
			Type:             v.Type,
			Price:            decimalJSON(v.Price),
			RequiresShipping: &rs,
			StartMonth:       v.StartMonth,
		})
	}
	return json.Marshal(docs)
}

func encodePaymentMethods(pms []entity.PaymentMethod) ([]byte, error) {
	docs := make([]paymentMethodDoc, 0, len(pms))
	for _, pm := range pms {
		docs = append(docs, paymentMethodDoc{
			Name:          pm.Name,
			FeePercentage: decimalJSON(pm.FeePercentage),
			ShippingFee:   decimalJSON(pm.ShippingFee),
		})
	}
	return json.Marshal(docs)
}

func encodeItemSettings(settings []entity.ItemSetting) ([]byte, error) {
	docs := make([]itemSettingDoc, 0, len(settings))
	for _, s := range settings {
		vs := make([]variantOverrideDoc, 0, len(s.Variants))
		for _, o := range s.Variants {
			vs = append(vs, variantOverrideDoc{
				VariantType:   o.VariantType,
				FeePercentage: decimalJSON(o.FeePercentage),
				ShippingFee:   decimalJSON(o.ShippingFee),
			})
		}
		docs = append(docs, itemSettingDoc{ItemID: s.ItemID, Variants: vs})
	}
	return json.Marshal(docs)
}

func decimalJSON(d decimal.Decimal) json.RawMessage {
	return json.RawMessage(d.String())
}

// ── Lectura (normalización) ─────────────────────────────────────────────────

func decodeVariants(raw []byte) []entity.Variant {
	var docs []variantDoc
	if !decodeList(raw, &docs) {
		return nil
	}
	out := make([]entity.Variant, 0, len(docs))
	for _, d := range docs {
		price := d.Price
		if isAbsent(price) {
			price = d.BasePrice
		}
		requires := true
		if d.RequiresShipping != nil {
			requires = *d.RequiresShipping
		}
		out = append(out, entity.Variant{
			Type:             d.Type,
			Price:            coerceDecimal(price),
			RequiresShipping: requires,
			StartMonth:       period.Normalize(d.StartMonth),
		})
	}
	return out
}

func decodePaymentMethods(raw []byte) []entity.PaymentMethod {
	var docs []paymentMethodDoc
	if !decodeList(raw, &docs) {
		return nil
	}
	out := make([]entity.PaymentMethod, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.PaymentMethod{
			Name:          d.Name,
			FeePercentage: coerceDecimal(d.FeePercentage),
			ShippingFee:   coerceDecimal(d.ShippingFee),
		})
	}
	return out
}

// decodeItemSettings descarta las entradas sin itemId.
func decodeItemSettings(raw []byte) []entity.ItemSetting {
	var docs []itemSettingDoc
	if !decodeList(raw, &docs) {
		return nil
	}
	out := make([]entity.ItemSetting, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.ItemID) == "" {
			continue
		}
		vs := make([]entity.VariantOverride, 0, len(d.Variants))
		for _, o := range d.Variants {
			vs = append(vs, entity.VariantOverride{
				VariantType:   o.VariantType,
				FeePercentage: coerceDecimal(o.FeePercentage),
				ShippingFee:   coerceDecimal(o.ShippingFee),
			})
		}
		out = append(out, entity.ItemSetting{ItemID: d.ItemID, Variants: vs})
	}
	return out
}

// decodeList tolera NULL, vacío o JSON que no sea una lista (resultado vacío).
func decodeList(raw []byte, dst any) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func isAbsent(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) == 0 || string(s) == "null"
}

// coerceDecimal acepta número JSON o cadena numérica; cualquier otra cosa, o un negativo, es 0.
func coerceDecimal(raw json.RawMessage) decimal.Decimal {
	if isAbsent(raw) {
		return decimal.Zero
	}
	s := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return decimal.Zero
		}
		s = strings.TrimSpace(unq)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
