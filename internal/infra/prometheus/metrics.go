package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slugurl"

// LinkMetrics records slug generation and visit counters.
type LinkMetrics struct {
	created    prometheus.Counter
	attempts   prometheus.Histogram
	collisions prometheus.Counter
	reserved   prometheus.Counter
	exhausted  prometheus.Counter
	visits     prometheus.Counter
}

// NewLinkMetrics registers the link collectors on reg.
func NewLinkMetrics(reg prometheus.Registerer) *LinkMetrics {
	factory := promauto.With(reg)
	return &LinkMetrics{
		created: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Short links successfully created.",
		}),
		attempts: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "link_create_attempts",
			Help:      "Candidate slugs tried per successful creation.",
			Buckets:   []float64{1, 2, 3, 5, 10},
		}),
		collisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slug_collisions_total",
			Help:      "Inserts rejected by the unique slug index.",
		}),
		reserved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slug_reserved_skips_total",
			Help:      "Generated candidates discarded because they are reserved words.",
		}),
		exhausted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slug_attempts_exhausted_total",
			Help:      "Creations that ran out of slug attempts.",
		}),
		visits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_visits_total",
			Help:      "Successful slug resolutions.",
		}),
	}
}

func (m *LinkMetrics) LinkCreated(attempts int) {
	m.created.Inc()
	m.attempts.Observe(float64(attempts))
}

func (m *LinkMetrics) SlugCollision()       { m.collisions.Inc() }
func (m *LinkMetrics) ReservedSlugSkipped() { m.reserved.Inc() }
func (m *LinkMetrics) AttemptsExhausted()   { m.exhausted.Inc() }
func (m *LinkMetrics) LinkVisited()         { m.visits.Inc() }
