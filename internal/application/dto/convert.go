package dto

import (
	"github.com/428lab/sales-aggregator/internal/domain/aggregation"
)

// FromTotals convierte un acumulado de dominio a su DTO.
func FromTotals(t aggregation.Totals) TotalsDTO {
	return TotalsDTO{
		Quantity:    t.Quantity,
		Subtotal:    t.Subtotal,
		Charges:     t.Charges,
		Payout:      t.Payout,
		TotalAmount: t.TotalAmount,
	}
}

// FromGroups convierte grupos del libro a DTOs. El precio medio se redondea a 2 decimales.
func FromGroups(groups []aggregation.Group) []LedgerGroupDTO {
	out := make([]LedgerGroupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, LedgerGroupDTO{
			Key:          g.Key,
			Label:        g.Label,
			Entries:      g.Entries,
			Quantity:     g.Quantity,
			Subtotal:     g.Subtotal,
			Charges:      g.Charges,
			Payout:       g.Payout,
			TotalAmount:  g.TotalAmount,
			AveragePrice: g.AveragePrice().Round(2),
		})
	}
	return out
}
