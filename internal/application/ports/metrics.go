package ports

import "github.com/shopspring/decimal"

// SalesMetrics puerto para instrumentar guardados del libro. NoopMetrics lo satisface sin hacer nada.
type SalesMetrics interface {
	ObserveCommit(entries int, totalAmount decimal.Decimal)
	ObserveCommitFailure()
	ObservePreview(cells int)
}

// NoopMetrics implementación vacía de SalesMetrics.
type NoopMetrics struct{}

func (NoopMetrics) ObserveCommit(int, decimal.Decimal) {}
func (NoopMetrics) ObserveCommitFailure()              {}
func (NoopMetrics) ObservePreview(int)                 {}
