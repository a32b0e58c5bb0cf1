package export

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
)

// Layout de la página A4 apaisada:
//
//	┌──────────────────────────────────────────────────────────┐
//	│  HEADER: título + mes        │  fecha de generación      │
//	│  ──────────────────────────────────────────────────────  │
//	│  TABLA: Canal | Artículo | Variante | Cant | ... | Neto  │
//	│  ──────────────────────────────────────────────────────  │
//	│  RESUMEN POR CANAL                                       │
//	│  TOTALES: Subtotal / Cargos / NETO                       │
//	└──────────────────────────────────────────────────────────┘

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// PDFExporter genera el reporte mensual del libro con Maroto v2.
type PDFExporter struct{}

var _ ports.LedgerExporter = PDFExporter{}

func (PDFExporter) ContentType() string { return "application/pdf" }

func (PDFExporter) Extension() string { return "pdf" }

// Export genera el PDF y devuelve sus bytes.
func (PDFExporter) Export(r *dto.LedgerReport) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ventas "+r.Month, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(entryRows(r.Entries)...)
	if len(r.Entries) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin ventas registradas en el mes.", props.Text{Size: 9, Color: colorGray, Top: 2}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(platformRows(r.ByPlatform)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalsRow(r.Totals))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.LedgerReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE VENTAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Mes: "+r.Month, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Canal", 2, align.Left),
		h("Artículo", 2, align.Left),
		h("Variante", 1, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio", 1, align.Right),
		h("Com.", 1, align.Center),
		h("Subtotal", 1, align.Right),
		h("Cargos", 1, align.Right),
		h("Neto", 1, align.Right),
		h("Total", 1, align.Right),
	)
}

func entryRows(entries []dto.LedgerEntryDTO) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row.New(6).Add(
			cell(e.PlatformName, 2, align.Left),
			cell(e.ItemName, 2, align.Left),
			cell(e.VariantType, 1, align.Left),
			cell(strconv.Itoa(e.Quantity), 1, align.Center),
			cell(formatMoney(e.BasePrice), 1, align.Right),
			cell(formatPercent(e.FeePercentage), 1, align.Center),
			cell(formatMoney(e.Subtotal), 1, align.Right),
			cell(formatMoney(e.Charges), 1, align.Right),
			cell(formatMoney(e.Payout), 1, align.Right),
			cell(formatMoney(e.TotalAmount), 1, align.Right),
		))
	}
	return rows
}

func platformRows(groups []dto.LedgerGroupDTO) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("RESUMEN POR CANAL", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)),
	}
	for _, g := range groups {
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(g.Label, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(strconv.Itoa(g.Quantity)+" u.", props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(formatMoney(g.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(formatMoney(g.Charges), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(formatMoney(g.Payout), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(t dto.TotalsDTO) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 2),
			label("Cargos:", 8),
			text.New("NETO:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 14}),
		),
		col.New(3).Add(
			value(formatMoney(t.Subtotal), 2),
			value(formatMoney(t.Charges), 8),
			text.New(formatMoney(t.Payout), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 14}),
		),
	)
}
