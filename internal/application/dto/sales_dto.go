package dto

import (
	"github.com/shopspring/decimal"
)

// ── Captura ───────────────────────────────────────────────────────────────────

// QuantityEntryDTO cantidad capturada para una celda (artículo, variante, canal).
type QuantityEntryDTO struct {
	ItemID      string `json:"item_id"`
	VariantType string `json:"variant_type"`
	PlatformID  string `json:"platform_id"`
	Quantity    int    `json:"quantity"`
}

// QuantitiesRequest cuerpo de POST /api/sales/:month y /preview.
// Si una celda aparece varias veces gana la última.
type QuantitiesRequest struct {
	Entries []QuantityEntryDTO `json:"entries"`
}

// MonthQuantitiesResponse cantidades ya registradas en el libro para el mes (para precargar la captura).
type MonthQuantitiesResponse struct {
	Month   string             `json:"month"`
	Entries []QuantityEntryDTO `json:"entries"`
}

// MonthOptionDTO entrada del selector de meses.
type MonthOptionDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MonthOptionsResponse meses disponibles, del más reciente al más antiguo.
type MonthOptionsResponse struct {
	Current string           `json:"current"`
	Months  []MonthOptionDTO `json:"months"`
}

// ── Matriz ────────────────────────────────────────────────────────────────────

// TotalsDTO acumulado de cantidad, subtotal, cargos y neto.
type TotalsDTO struct {
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Charges     decimal.Decimal `json:"charges"`
	Payout      decimal.Decimal `json:"payout"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// MatrixCellDTO celda calculada.
type MatrixCellDTO struct {
	ItemID        string          `json:"item_id"`
	ItemName      string          `json:"item_name"`
	VariantType   string          `json:"variant_type"`
	PlatformID    string          `json:"platform_id"`
	PlatformName  string          `json:"platform_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Fee           decimal.Decimal `json:"fee"`
	Shipping      decimal.Decimal `json:"shipping"`
	Charges       decimal.Decimal `json:"charges"`
	Payout        decimal.Decimal `json:"payout"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// PlatformTotalsDTO total de columna de un canal.
type PlatformTotalsDTO struct {
	PlatformID   string    `json:"platform_id"`
	PlatformName string    `json:"platform_name"`
	Totals       TotalsDTO `json:"totals"`
}

// EligibleCellDTO celda en la que se puede capturar cantidad este mes.
type EligibleCellDTO struct {
	ItemID      string `json:"item_id"`
	VariantType string `json:"variant_type"`
	PlatformID  string `json:"platform_id"`
}

// MatrixResponse vista previa del mes.
type MatrixResponse struct {
	Month      string              `json:"month"`
	HasData    bool                `json:"has_data"`
	Eligible   []EligibleCellDTO   `json:"eligible"`
	Cells      []MatrixCellDTO     `json:"cells"`
	Platforms  []PlatformTotalsDTO `json:"platforms"`
	GrandTotal TotalsDTO           `json:"grand_total"`
}

// CommitResponse resultado de guardar el mes en el libro.
type CommitResponse struct {
	Month      string    `json:"month"`
	BatchID    string    `json:"batch_id,omitempty"`
	Entries    int       `json:"entries"`
	GrandTotal TotalsDTO `json:"grand_total"`
}
