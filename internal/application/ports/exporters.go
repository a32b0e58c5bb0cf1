package ports

import (
	"github.com/428lab/sales-aggregator/internal/application/dto"
)

// LedgerExporter genera un archivo descargable (xlsx, pdf) con un tramo del libro de ventas.
type LedgerExporter interface {
	Export(report *dto.LedgerReport) ([]byte, error)
	ContentType() string
	Extension() string
}
