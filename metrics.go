package pdfkiwi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK             = "ok"
	resultAPIError       = "api_error"
	resultTransportError = "transport_error"
)

var (
	requestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdfkiwi_requests_total",
		Help: "Number of render requests sent to the API.",
	}, []string{"result"})

	requestsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pdfkiwi_request_duration_seconds",
		Help:    "Render request response time.",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"status"})

	queuePending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pdfkiwi_queue_pending",
		Help: "Number of conversions waiting for their turn.",
	})
)

func trackRequest(start time.Time, status, result string) {
	requestsCounter.WithLabelValues(result).Inc()
	requestsDuration.
		WithLabelValues(status).
		Observe(time.Since(start).Seconds())
}
