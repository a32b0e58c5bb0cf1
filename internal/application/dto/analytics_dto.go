package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// AnalyticsRequest parámetros de GET /api/analytics.
type AnalyticsRequest struct {
	From string `query:"from"` // YYYY-MM inclusivo; vacío = sin límite
	To   string `query:"to"`   // YYYY-MM inclusivo; vacío = sin límite
}

// ── Respuesta ─────────────────────────────────────────────────────────────────

// LedgerGroupDTO acumulado de un grupo del libro (mes, artículo-variante o canal).
type LedgerGroupDTO struct {
	Key          string          `json:"key"`
	Label        string          `json:"label"`
	Entries      int             `json:"entries"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Charges      decimal.Decimal `json:"charges"`
	Payout       decimal.Decimal `json:"payout"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	AveragePrice decimal.Decimal `json:"average_price"` // subtotal / cantidad, redondeado a 2 decimales
}

// AnalyticsResponse analítica del libro de ventas.
type AnalyticsResponse struct {
	From          string           `json:"from,omitempty"`
	To            string           `json:"to,omitempty"`
	Totals        TotalsDTO        `json:"totals"`
	ItemsCount    int              `json:"items_count"` // artículos distintos con ventas
	ByMonth       []LedgerGroupDTO `json:"by_month"`
	ByItemVariant []LedgerGroupDTO `json:"by_item_variant"`
	ByPlatform    []LedgerGroupDTO `json:"by_platform"`
}

// ── Exportación ───────────────────────────────────────────────────────────────

// LedgerEntryDTO una entrada del libro con su liquidación rederivada.
type LedgerEntryDTO struct {
	ItemName      string          `json:"item_name"`
	VariantType   string          `json:"variant_type"`
	PlatformName  string          `json:"platform_name"`
	Quantity      int             `json:"quantity"`
	BasePrice     decimal.Decimal `json:"base_price"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Charges       decimal.Decimal `json:"charges"`
	Payout        decimal.Decimal `json:"payout"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// LedgerReport tramo del libro de un mes listo para exportar.
type LedgerReport struct {
	OwnerID     string
	Month       string
	MonthLabel  string
	GeneratedAt time.Time
	Entries     []LedgerEntryDTO
	ByPlatform  []LedgerGroupDTO
	Totals      TotalsDTO
}
