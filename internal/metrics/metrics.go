package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Sink records scheduling events. Implementations must be safe for use from
// the scheduling loop goroutine.
type Sink interface {
	RecordDelivery(outcome string)
	RecordRebuild(success bool)
	RecordLookupMiss()
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordDelivery(string) {}
func (NopSink) RecordRebuild(bool)    {}
func (NopSink) RecordLookupMiss()     {}

// PromSink records scheduling events in Prometheus metrics.
type PromSink struct {
	deliveries   *prometheus.CounterVec
	rebuilds     *prometheus.CounterVec
	lookupMisses prometheus.Counter
}

// NewPromSink registers the lesson metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lesson_deliveries_total",
		Help: "Total number of announcement delivery events by outcome",
	}, []string{"outcome"})
	rebuilds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lesson_schedule_rebuilds_total",
		Help: "Total number of daily schedule rebuilds by outcome",
	}, []string{"outcome"})
	lookupMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lesson_catalog_misses_total",
		Help: "Total number of lessons skipped because the subject was missing from the catalog",
	})

	if err := reg.Register(deliveries); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			deliveries = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(rebuilds); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rebuilds = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(lookupMisses); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			lookupMisses = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{deliveries: deliveries, rebuilds: rebuilds, lookupMisses: lookupMisses}, nil
}

func (s *PromSink) RecordDelivery(outcome string) {
	s.deliveries.WithLabelValues(outcome).Inc()
}

func (s *PromSink) RecordRebuild(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	s.rebuilds.WithLabelValues(outcome).Inc()
}

func (s *PromSink) RecordLookupMiss() {
	s.lookupMisses.Inc()
}
