package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts registry activity.
type Metrics struct {
	Handles    *prometheus.CounterVec
	Operations *prometheus.CounterVec
	Traps      *prometheus.CounterVec
}

// NewMetrics creates the registry counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		Handles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handles_allocated_total",
			Help:      "Number of handles issued by the registry, by value kind.",
		}, []string{"kind"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Number of registry operations, by operation name.",
		}, []string{"op"}),
		Traps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traps_total",
			Help:      "Number of fatal registry failures, by error kind.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.Handles, m.Operations, m.Traps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
