package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es una entrada del libro de ventas: una celda (artículo, variante, canal, mes) guardada.
// Nombres y tarifas son copias congeladas al momento de guardar; nunca se actualizan.
type Sale struct {
	ID            string
	BatchID       string // todas las entradas de un mismo guardado comparten lote
	OwnerID       string
	ItemID        string
	ItemName      string
	VariantType   string
	PlatformID    string // puede venir vacío en registros antiguos
	PlatformName  string
	Quantity      int
	BasePrice     decimal.Decimal
	FeePercentage decimal.Decimal
	ShippingFee   decimal.Decimal
	TotalAmount   decimal.Decimal // subtotal + cargos
	SaleDate      time.Time       // primer día del mes, UTC
	Month         string          // "YYYY-MM"
	CreatedAt     time.Time
}
