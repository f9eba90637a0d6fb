package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/siherrmann/wikigrapher/model"
)

// Metrics counts the outcome of pipeline runs.
type Metrics struct {
	pages   *prometheus.CounterVec // pages by status
	triples prometheus.Counter
	skips   *prometheus.CounterVec // skipped fields by reason
}

// NewMetrics creates the pipeline metrics and registers them on registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikigrapher",
			Subsystem: "pipeline",
			Name:      "pages_total",
			Help:      "Total number of processed pages by status",
		}, []string{"status"}),

		triples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikigrapher",
			Subsystem: "pipeline",
			Name:      "triples_total",
			Help:      "Total number of emitted triples",
		}),

		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikigrapher",
			Subsystem: "pipeline",
			Name:      "skipped_fields_total",
			Help:      "Total number of field values skipped on purpose by reason",
		}, []string{"reason"}),
	}

	for _, collector := range []prometheus.Collector{m.pages, m.triples, m.skips} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(report *model.PageReport) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(string(report.Status)).Inc()
	m.triples.Add(float64(report.Triples))
	for _, skip := range report.Skips {
		m.skips.WithLabelValues(string(skip.Reason)).Inc()
	}
}

func (m *Metrics) observeMaterialized(count int) {
	if m == nil {
		return
	}
	m.triples.Add(float64(count))
}
