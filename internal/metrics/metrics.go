// Package metrics содержит Prometheus-метрики конвейера приёма алертов.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Значения метки result для rescue_intakes_total
const (
	IntakeAccepted       = "accepted"
	IntakeInvalid        = "invalid"
	IntakeNoResponder    = "no_responder"
	IntakeStorageFailure = "storage_failure"
	IntakeInfraFailure   = "infrastructure_failure"
)

// Metrics хранит метрики приёма, классификации, запуска workflow и доставки событий
type Metrics struct {
	IntakesTotal           *prometheus.CounterVec
	IntakeDuration         prometheus.Histogram
	ClassificationsTotal   *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram
	WorkflowTriggersTotal  *prometheus.CounterVec
	EventsPublishedTotal   *prometheus.CounterVec
	WebhookDeliveriesTotal *prometheus.CounterVec
}

// NewMetrics регистрирует метрики в переданном registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IntakesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rescue_intakes_total",
			Help: "Total alert intakes by result.",
		}, []string{"result"}),
		IntakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rescue_intake_duration_seconds",
			Help:    "End-to-end duration of alert intakes in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s .. ~51s
		}),
		ClassificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rescue_classifications_total",
			Help: "Image classifications by outcome (success or fallback).",
		}, []string{"outcome"}),
		ClassificationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rescue_classification_duration_seconds",
			Help:    "Duration of classifier calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. ~32s
		}),
		WorkflowTriggersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rescue_workflow_triggers_total",
			Help: "Workflow trigger attempts by outcome.",
		}, []string{"outcome"}),
		EventsPublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rescue_events_published_total",
			Help: "Alert lifecycle events published by type and outcome.",
		}, []string{"type", "outcome"}),
		WebhookDeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rescue_webhook_deliveries_total",
			Help: "Outbound event webhook deliveries by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.IntakesTotal,
		m.IntakeDuration,
		m.ClassificationsTotal,
		m.ClassificationDuration,
		m.WorkflowTriggersTotal,
		m.EventsPublishedTotal,
		m.WebhookDeliveriesTotal,
	)

	return m
}

// ObserveIntake учитывает завершённый приём алерта
func (m *Metrics) ObserveIntake(result string, seconds float64) {
	if m == nil {
		return
	}
	m.IntakesTotal.WithLabelValues(result).Inc()
	m.IntakeDuration.Observe(seconds)
}

// ObserveClassification учитывает вызов классификатора
func (m *Metrics) ObserveClassification(fallback bool, seconds float64) {
	if m == nil {
		return
	}
	outcome := "success"
	if fallback {
		outcome = "fallback"
	}
	m.ClassificationsTotal.WithLabelValues(outcome).Inc()
	m.ClassificationDuration.Observe(seconds)
}

// ObserveWorkflowTrigger учитывает попытку запуска workflow: success, unavailable, rejected, skipped
func (m *Metrics) ObserveWorkflowTrigger(outcome string) {
	if m == nil {
		return
	}
	m.WorkflowTriggersTotal.WithLabelValues(outcome).Inc()
}

// ObserveEventPublished учитывает публикацию события
func (m *Metrics) ObserveEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.EventsPublishedTotal.WithLabelValues(eventType, outcome).Inc()
}

// ObserveWebhookDelivery учитывает доставку вебхука: delivered, failed, skipped
func (m *Metrics) ObserveWebhookDelivery(outcome string) {
	if m == nil {
		return
	}
	m.WebhookDeliveriesTotal.WithLabelValues(outcome).Inc()
}
