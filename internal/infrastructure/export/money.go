// Package export implementa ports.LedgerExporter: hoja de cálculo (xlsx), reporte PDF y CSV.
package export

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Japanese)

// formatMoney formatea un importe con separador de miles: "¥1,500" o "¥1,234.50" si tiene fracción.
func formatMoney(d decimal.Decimal) string {
	r := d.Round(2)
	if r.Equal(r.Truncate(0)) {
		return printer.Sprintf("¥%d", r.IntPart())
	}
	return printer.Sprintf("¥%.2f", r.InexactFloat64())
}

// formatPercent formatea una comisión: "10%" o "3.6%".
func formatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}
