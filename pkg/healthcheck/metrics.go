package healthcheck

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HealthMetrics provides Prometheus metrics for health checks
type HealthMetrics struct {
	checksTotal         *prometheus.CounterVec
	checkDuration       *prometheus.HistogramVec
	healthStatus        prometheus.Gauge
	circuitBreakerState *prometheus.GaugeVec
}

// NewHealthMetrics registers health metrics under namespace with reg
func NewHealthMetrics(reg prometheus.Registerer, namespace string) *HealthMetrics {
	factory := promauto.With(reg)
	return &HealthMetrics{
		checksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "healthcheck",
				Name:      "checks_total",
				Help:      "Total number of health checks performed",
			},
			[]string{"check_name", "status"},
		),
		checkDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "healthcheck",
				Name:      "check_duration_seconds",
				Help:      "Duration of individual health checks",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"check_name"},
		),
		healthStatus: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "healthcheck",
				Name:      "status",
				Help:      "Overall health: 1 healthy, 0.5 degraded, 0 unhealthy",
			},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "healthcheck",
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open",
			},
			[]string{"name"},
		),
	}
}

// RecordCheck records one check outcome
func (hm *HealthMetrics) RecordCheck(checkName string, status Status, duration time.Duration) {
	hm.checksTotal.WithLabelValues(checkName, string(status)).Inc()
	hm.checkDuration.WithLabelValues(checkName).Observe(duration.Seconds())
}

// UpdateHealthStatus sets the overall status gauge
func (hm *HealthMetrics) UpdateHealthStatus(status Status) {
	hm.healthStatus.Set(statusToFloat(status))
}

// RecordCircuitBreakerState sets the state gauge of a breaker
func (hm *HealthMetrics) RecordCircuitBreakerState(name string, state CircuitBreakerState) {
	hm.circuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// OnStateChange adapts RecordCircuitBreakerState to CircuitBreakerConfig.OnStateChange
func (hm *HealthMetrics) OnStateChange(name string, _, to CircuitBreakerState) {
	hm.RecordCircuitBreakerState(name, to)
}

func statusToFloat(status Status) float64 {
	switch status {
	case StatusHealthy:
		return 1
	case StatusDegraded:
		return 0.5
	default:
		return 0
	}
}
