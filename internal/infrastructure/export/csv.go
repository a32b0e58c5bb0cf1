package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
)

// CSVExporter genera las entradas del mes como CSV. Con ShiftJIS el archivo se codifica en
// Shift_JIS para abrirse directamente en Excel japonés; si no, UTF-8. Los caracteres sin
// representación en Shift_JIS se reemplazan.
type CSVExporter struct {
	ShiftJIS bool
}

var _ ports.LedgerExporter = CSVExporter{}

func (e CSVExporter) ContentType() string {
	if e.ShiftJIS {
		return "text/csv; charset=Shift_JIS"
	}
	return "text/csv; charset=utf-8"
}

func (CSVExporter) Extension() string { return "csv" }

func (e CSVExporter) Export(r *dto.LedgerReport) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("csv: reporte vacío")
	}
	var buf bytes.Buffer
	var w *csv.Writer
	var enc *transform.Writer
	if e.ShiftJIS {
		enc = transform.NewWriter(&buf, encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()))
		w = csv.NewWriter(enc)
	} else {
		w = csv.NewWriter(&buf)
	}

	records := [][]string{{"month", "platform", "item", "variant", "quantity", "base_price", "fee_percentage",
		"shipping_fee", "subtotal", "charges", "payout", "total_amount"}}
	for _, x := range r.Entries {
		records = append(records, []string{
			r.Month, x.PlatformName, x.ItemName, x.VariantType, strconv.Itoa(x.Quantity),
			x.BasePrice.String(), x.FeePercentage.String(), x.ShippingFee.String(),
			x.Subtotal.String(), x.Charges.String(), x.Payout.String(), x.TotalAmount.String(),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("csv: escribir: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("csv: codificar Shift_JIS: %w", err)
		}
	}
	return buf.Bytes(), nil
}
