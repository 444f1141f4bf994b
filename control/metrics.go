// Stat histogram: per-(operation, outcome) counters and latency, plus a
// request-size distribution, mirroring the original's optional stats
// histogram (op_counter/bytes_counter/lat_counter keyed by bucket) but
// backed by github.com/prometheus/client_golang vectors instead of a
// hand-rolled 512-entry bucket array.
package control

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/intel/dto/api"
)

// Histogram is the DTO_COLLECT_STATS sink. A nil *Histogram is valid and
// every method becomes a no-op, so callers need not branch on whether
// stats collection is enabled.
type Histogram struct {
	ops     *prometheus.CounterVec
	bytes   *prometheus.CounterVec
	latency *prometheus.HistogramVec
	sizes   *prometheus.HistogramVec
}

// NewHistogram builds the vectors and, if reg is non-nil, registers them.
func NewHistogram(reg prometheus.Registerer) *Histogram {
	h := &Histogram{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dto",
			Name:      "op_total",
			Help:      "Memory operations serviced, by kind and outcome.",
		}, []string{"op", "outcome"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dto",
			Name:      "bytes_total",
			Help:      "Bytes serviced, by operation kind and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dto",
			Name:      "latency_seconds",
			Help:      "Per-call latency, by operation kind and outcome.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op", "outcome"}),
		sizes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dto",
			Name:      "request_bytes",
			Help:      "Request-size distribution, by operation kind.",
			Buckets:   sizeBuckets(),
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(h.ops, h.bytes, h.latency, h.sizes)
	}
	return h
}

// sizeBuckets reproduces the original's 512 buckets of 4096 bytes each
// (spec §3 "Stat histogram").
func sizeBuckets() []float64 {
	const (
		count = 512
		width = 4096
	)
	b := make([]float64, count)
	for i := range b {
		b[i] = float64((i + 1) * width)
	}
	return b
}

// Observe records one completed call.
func (h *Histogram) Observe(op api.MemOp, outcome api.PathOutcome, n int, lat time.Duration) {
	if h == nil {
		return
	}
	h.ops.WithLabelValues(op.String(), outcome.String()).Inc()
	h.bytes.WithLabelValues(op.String(), outcome.String()).Add(float64(n))
	h.latency.WithLabelValues(op.String(), outcome.String()).Observe(lat.Seconds())
	h.sizes.WithLabelValues(op.String()).Observe(float64(n))
}
