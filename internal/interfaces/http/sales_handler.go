package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/428lab/sales-aggregator/internal/application/analytics"
	"github.com/428lab/sales-aggregator/internal/application/dto"
	"github.com/428lab/sales-aggregator/internal/application/ports"
	"github.com/428lab/sales-aggregator/internal/application/sales"
)

// Exporters formatos de descarga del libro. Un formato nil responde 404.
type Exporters struct {
	XLSX        ports.LedgerExporter
	PDF         ports.LedgerExporter
	CSV         ports.LedgerExporter
	CSVShiftJIS ports.LedgerExporter
}

// SalesHandler captura mensual: selector de meses, precarga, vista previa, guardado y exportaciones.
type SalesHandler struct {
	matrix   *sales.MatrixUseCase
	commit   *sales.CommitUseCase
	exporter *analytics.ExportUseCase
	formats  Exporters
	now      func() time.Time
}

// NewSalesHandler construye el handler.
func NewSalesHandler(
	matrix *sales.MatrixUseCase,
	commit *sales.CommitUseCase,
	exporter *analytics.ExportUseCase,
	formats Exporters,
) *SalesHandler {
	return &SalesHandler{matrix: matrix, commit: commit, exporter: exporter, formats: formats, now: time.Now}
}

// Months godoc
// @Summary      Meses seleccionables
// @Description  Desde 2020-01 hasta el mes actual, del más reciente al más antiguo.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MonthOptionsResponse
// @Router       /api/sales/months [get]
func (h *SalesHandler) Months(c *fiber.Ctx) error {
	return c.JSON(h.matrix.MonthOptions(h.now()))
}

// LoadMonth godoc
// @Summary      Cantidades registradas del mes
// @Description  Suma las entradas del libro por celda (artículo, variante, canal) para precargar la captura.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        month  path  string  true  "Mes YYYY-MM"
// @Success      200    {object}  dto.MonthQuantitiesResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/sales/{month} [get]
func (h *SalesHandler) LoadMonth(c *fiber.Ctx) error {
	out, err := h.matrix.LoadMonth(c.UserContext(), GetOwnerID(c), c.Params("month"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Preview godoc
// @Summary      Vista previa de la matriz
// @Description  Calcula subtotales, cargos y neto por celda y por canal sin guardar nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        month  path  string                 true  "Mes YYYY-MM"
// @Param        body   body  dto.QuantitiesRequest  true  "Cantidades capturadas"
// @Success      200    {object}  dto.MatrixResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/sales/{month}/preview [post]
func (h *SalesHandler) Preview(c *fiber.Ctx) error {
	var in dto.QuantitiesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.matrix.Preview(c.UserContext(), GetOwnerID(c), c.Params("month"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Commit godoc
// @Summary      Guardar ventas del mes
// @Description  Añade un lote al libro con una entrada por celda elegible con cantidad > 0. Volver a guardar añade otro lote.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        month  path  string                 true  "Mes YYYY-MM"
// @Param        body   body  dto.QuantitiesRequest  true  "Cantidades capturadas"
// @Success      201    {object}  dto.CommitResponse
// @Success      200    {object}  dto.CommitResponse  "sin celdas que guardar"
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/sales/{month} [post]
func (h *SalesHandler) Commit(c *fiber.Ctx) error {
	var in dto.QuantitiesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.commit.Commit(c.UserContext(), GetOwnerID(c), c.Params("month"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out.Entries == 0 {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ExportXLSX godoc
// @Summary      Exportar ventas del mes (xlsx)
// @Tags         sales
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        month  path  string  true  "Mes YYYY-MM"
// @Success      200    {file}  binary
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/sales/{month}/export.xlsx [get]
func (h *SalesHandler) ExportXLSX(c *fiber.Ctx) error {
	return h.download(c, h.formats.XLSX)
}

// ExportCSV godoc
// @Summary      Exportar ventas del mes (csv)
// @Tags         sales
// @Security     Bearer
// @Produce      text/csv
// @Param        month     path   string  true   "Mes YYYY-MM"
// @Param        encoding  query  string  false  "sjis para Shift_JIS; por defecto UTF-8"
// @Success      200       {file}  binary
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/sales/{month}/export.csv [get]
func (h *SalesHandler) ExportCSV(c *fiber.Ctx) error {
	if c.Query("encoding") == "sjis" {
		return h.download(c, h.formats.CSVShiftJIS)
	}
	return h.download(c, h.formats.CSV)
}

// ReportPDF godoc
// @Summary      Reporte PDF de ventas del mes
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        month  path  string  true  "Mes YYYY-MM"
// @Success      200    {file}  binary
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/sales/{month}/report.pdf [get]
func (h *SalesHandler) ReportPDF(c *fiber.Ctx) error {
	return h.download(c, h.formats.PDF)
}

func (h *SalesHandler) download(c *fiber.Ctx, exp ports.LedgerExporter) error {
	if exp == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "FORMAT_UNAVAILABLE", Message: "formato de exportación no disponible"})
	}
	data, filename, err := h.exporter.Export(c.UserContext(), GetOwnerID(c), c.Params("month"), exp)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, exp.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
