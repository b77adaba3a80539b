package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the domain counters exported by the content service.
type Metrics struct {
	reads *prometheus.CounterVec
	saves *prometheus.CounterVec
	leads prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "site_content_reads_total",
				Help: "Site document reads by outcome (found, new_system, error).",
			},
			[]string{"result"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "site_content_saves_total",
				Help: "Site document saves by outcome (success, error).",
			},
			[]string{"result"},
		),
		leads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "site_lead_events_total",
			Help: "Lead events acknowledged by the persistence endpoint.",
		}),
	}
	for _, c := range []prometheus.Collector{m.reads, m.saves, m.leads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
