// Package metrics expone contadores Prometheus del libro de ventas y de la API HTTP.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/428lab/sales-aggregator/internal/application/ports"
)

const namespace = "sales_aggregator"

const (
	resultOK    = "ok"
	resultError = "error"
)

// Config etiquetas constantes de todas las series.
type Config struct {
	Service     string
	Environment string
}

// Metrics implementa ports.SalesMetrics y registra la latencia de la API.
type Metrics struct {
	commits          *prometheus.CounterVec
	committedEntries prometheus.Counter
	committedAmount  prometheus.Counter
	previews         prometheus.Counter
	previewCells     prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

var _ ports.SalesMetrics = (*Metrics)(nil)

// New crea las series y las registra en registerer (prometheus.DefaultRegisterer si es nil).
func New(registerer prometheus.Registerer, cfg Config) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	service := strings.TrimSpace(cfg.Service)
	if service == "" {
		service = "sales-aggregator"
	}
	env := strings.TrimSpace(cfg.Environment)
	if env == "" {
		env = "unknown"
	}
	constLabels := prometheus.Labels{"service": service, "env": env}

	m := &Metrics{
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "commits_total",
			Help:        "Lotes de ventas guardados por resultado.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		committedEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "committed_entries_total",
			Help:        "Entradas añadidas al libro de ventas.",
			ConstLabels: constLabels,
		}),
		committedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "committed_amount_total",
			Help:        "Importe bruto acumulado de los lotes guardados.",
			ConstLabels: constLabels,
		}),
		previews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "previews_total",
			Help:        "Vistas previas de la matriz calculadas.",
			ConstLabels: constLabels,
		}),
		previewCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "preview_cells",
			Help:        "Celdas con cantidad por vista previa.",
			Buckets:     []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			ConstLabels: constLabels,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help:        "Peticiones HTTP por ruta y código.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:        "Latencia de las peticiones HTTP.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{
		m.commits, m.committedEntries, m.committedAmount, m.previews, m.previewCells, m.httpRequests, m.httpDuration,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveCommit(entries int, totalAmount decimal.Decimal) {
	m.commits.WithLabelValues(resultOK).Inc()
	m.committedEntries.Add(float64(entries))
	if totalAmount.IsPositive() {
		m.committedAmount.Add(totalAmount.InexactFloat64())
	}
}

func (m *Metrics) ObserveCommitFailure() {
	m.commits.WithLabelValues(resultError).Inc()
}

func (m *Metrics) ObservePreview(cells int) {
	m.previews.Inc()
	m.previewCells.Observe(float64(cells))
}

// ObserveRequest registra una petición HTTP. route es el patrón de la ruta, no la URL, para acotar la cardinalidad.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
