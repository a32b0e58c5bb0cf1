package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
)

const (
	summarySheet = "resumen"
	entriesSheet = "ventas"
)

// XLSXExporter genera un libro con una hoja de resumen por canal y otra con las entradas del mes.
type XLSXExporter struct{}

var _ ports.LedgerExporter = XLSXExporter{}

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Extension() string { return "xlsx" }

// Export escribe los importes como números para que la hoja pueda recalcular.
func (XLSXExporter) Export(r *dto.LedgerReport) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("xlsx: reporte vacío")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(entriesSheet); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}

	set := func(sheet, cell string, v any) {
		_ = f.SetCellValue(sheet, cell, v)
	}

	// ── resumen ──
	set(summarySheet, "A1", "Ventas del mes")
	set(summarySheet, "B1", r.Month)
	set(summarySheet, "A2", "Generado")
	set(summarySheet, "B2", r.GeneratedAt.Format("2006-01-02 15:04"))
	header(set, summarySheet, 4, "Canal", "Entradas", "Cantidad", "Subtotal", "Cargos", "Neto", "Total")
	row := 5
	for _, g := range r.ByPlatform {
		set(summarySheet, cell("A", row), g.Label)
		set(summarySheet, cell("B", row), g.Entries)
		set(summarySheet, cell("C", row), g.Quantity)
		set(summarySheet, cell("D", row), g.Subtotal.InexactFloat64())
		set(summarySheet, cell("E", row), g.Charges.InexactFloat64())
		set(summarySheet, cell("F", row), g.Payout.InexactFloat64())
		set(summarySheet, cell("G", row), g.TotalAmount.InexactFloat64())
		row++
	}
	set(summarySheet, cell("A", row), "Total")
	set(summarySheet, cell("C", row), r.Totals.Quantity)
	set(summarySheet, cell("D", row), r.Totals.Subtotal.InexactFloat64())
	set(summarySheet, cell("E", row), r.Totals.Charges.InexactFloat64())
	set(summarySheet, cell("F", row), r.Totals.Payout.InexactFloat64())
	set(summarySheet, cell("G", row), r.Totals.TotalAmount.InexactFloat64())

	// ── entradas ──
	header(set, entriesSheet, 1, "Canal", "Artículo", "Variante", "Cantidad", "Precio", "Comisión %", "Envío",
		"Subtotal", "Cargos", "Neto", "Total")
	for i, e := range r.Entries {
		n := i + 2
		set(entriesSheet, cell("A", n), e.PlatformName)
		set(entriesSheet, cell("B", n), e.ItemName)
		set(entriesSheet, cell("C", n), e.VariantType)
		set(entriesSheet, cell("D", n), e.Quantity)
		set(entriesSheet, cell("E", n), e.BasePrice.InexactFloat64())
		set(entriesSheet, cell("F", n), e.FeePercentage.InexactFloat64())
		set(entriesSheet, cell("G", n), e.ShippingFee.InexactFloat64())
		set(entriesSheet, cell("H", n), e.Subtotal.InexactFloat64())
		set(entriesSheet, cell("I", n), e.Charges.InexactFloat64())
		set(entriesSheet, cell("J", n), e.Payout.InexactFloat64())
		set(entriesSheet, cell("K", n), e.TotalAmount.InexactFloat64())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func header(set func(sheet, cell string, v any), sheet string, row int, labels ...string) {
	for i, l := range labels {
		set(sheet, cell(string(rune('A'+i)), row), l)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
