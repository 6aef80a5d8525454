// Package metrics exposes the advisor's operational Prometheus metrics.
//
// Metrics exposed:
//   - scaling_advisor_cycles_total: cycles by deployment and status
//   - scaling_advisor_cycle_duration_seconds: end-to-end cycle latency
//   - scaling_advisor_stage_duration_seconds: latency per pipeline stage
//   - scaling_advisor_decisions_total: decisions by action
//   - scaling_advisor_scaling_total: replica changes applied, by direction
//   - scaling_advisor_errors_total: failed cycles by error kind
//   - scaling_advisor_replicas: replica count after the last cycle
//   - scaling_advisor_circuit_breaker_state: 0 closed, 1 open, 2 half-open
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OldStager01/scaling-advisor/internal/resilience"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

const namespace = "scaling_advisor"

const (
	StageNormalize = "normalize"
	StageAggregate = "aggregate"
	StageDecide    = "decide"
	StageExecute   = "execute"
)

type Metrics struct {
	CyclesTotal         *prometheus.CounterVec
	CycleDuration       *prometheus.HistogramVec
	StageDuration       *prometheus.HistogramVec
	DecisionsTotal      *prometheus.CounterVec
	ScalingTotal        *prometheus.CounterVec
	ErrorsTotal         *prometheus.CounterVec
	Replicas            *prometheus.GaugeVec
	CircuitBreakerState *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New registers every metric with reg. A nil reg uses the default registry,
// which only tolerates one call per process.
func New(reg *prometheus.Registry) *Metrics {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	factory := promauto.With(registerer)

	return &Metrics{
		CyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Decision cycles run, by outcome",
		}, []string{"deployment", "status"}),

		CycleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Time spent on one decision cycle",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"deployment"}),

		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),

		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Scaling decisions produced, by action",
		}, []string{"deployment", "action"}),

		ScalingTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scaling_total",
			Help:      "Replica changes applied, by direction",
		}, []string{"deployment", "direction"}),

		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed cycles, by error kind",
		}, []string{"deployment", "kind"}),

		Replicas: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "replicas",
			Help:      "Replica count observed after the last cycle",
		}, []string{"deployment"}),

		CircuitBreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		}, []string{"name"}),

		gatherer: gatherer,
	}
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordCycle accounts one finished cycle. It is safe on a nil receiver so
// callers can run without metrics.
func (m *Metrics) RecordCycle(deployment string, resp models.CycleResponse, d time.Duration) {
	if m == nil {
		return
	}

	m.CyclesTotal.WithLabelValues(deployment, string(resp.Status)).Inc()
	m.CycleDuration.WithLabelValues(deployment).Observe(d.Seconds())

	if !resp.OK() {
		m.ErrorsTotal.WithLabelValues(deployment, string(resp.ErrorKind)).Inc()
		return
	}
	if resp.Decision != nil {
		m.DecisionsTotal.WithLabelValues(deployment, string(resp.Decision.Action)).Inc()
	}
	if r := resp.Result; r != nil {
		m.Replicas.WithLabelValues(deployment).Set(float64(r.NewReplicas))
		switch {
		case r.Delta() > 0:
			m.ScalingTotal.WithLabelValues(deployment, "up").Inc()
		case r.Delta() < 0:
			m.ScalingTotal.WithLabelValues(deployment, "down").Inc()
		}
	}
}

// BreakerStateChanged matches resilience.CircuitBreakerConfig.OnStateChange.
func (m *Metrics) BreakerStateChanged(name string, _, to resilience.State) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// NewServer returns an unstarted server exposing /metrics on port.
func (m *Metrics) NewServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
