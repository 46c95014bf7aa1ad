package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the App executes.
type Metrics struct {
	Units       *prometheus.CounterVec
	SubMessages *prometheus.CounterVec
	Replies     *prometheus.CounterVec
	BlockHeight prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "membership",
			Subsystem: "host",
			Name:      "units_total",
			Help:      "Units of work by kind and result code.",
		}, []string{"kind", "code"}),
		SubMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "membership",
			Subsystem: "host",
			Name:      "sub_messages_total",
			Help:      "Dispatched sub-operations by message kind and outcome.",
		}, []string{"kind", "result"}),
		Replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "membership",
			Subsystem: "host",
			Name:      "replies_total",
			Help:      "Delivered continuations by tag and outcome.",
		}, []string{"id", "result"}),
		BlockHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "membership",
			Subsystem: "host",
			Name:      "block_height",
			Help:      "Current block height.",
		}),
	}
}

// Register adds every collector to r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Units, m.SubMessages, m.Replies, m.BlockHeight} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
