package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the dialogue engine.
// All methods are nil-safe so wiring metrics stays optional.
type ConversationMetrics struct {
	turnsTotal          *prometheus.CounterVec
	completionsTotal    *prometheus.CounterVec
	candidatesTotal     *prometheus.CounterVec
	collaboratorErrors  *prometheus.CounterVec
	turnLatency         *prometheus.HistogramVec
	questionsAskedTotal *prometheus.CounterVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadline",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total processed turns",
		}, []string{"merchant_id", "intent"}),
		completionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadline",
			Subsystem: "conversation",
			Name:      "completions_total",
			Help:      "Total conversations that reached completion",
		}, []string{"merchant_id", "booked"}),
		candidatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadline",
			Subsystem: "extraction",
			Name:      "candidates_total",
			Help:      "Extraction candidates by field and outcome",
		}, []string{"field", "outcome"}),
		collaboratorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadline",
			Subsystem: "conversation",
			Name:      "collaborator_errors_total",
			Help:      "Failures talking to retrieval, booking or the state store",
		}, []string{"collaborator"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadline",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of end-to-end turn processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"merchant_id"}),
		questionsAskedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadline",
			Subsystem: "scheduler",
			Name:      "questions_asked_total",
			Help:      "Questions scheduled per field",
		}, []string{"field"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.turnsTotal,
		m.completionsTotal,
		m.candidatesTotal,
		m.collaboratorErrors,
		m.turnLatency,
		m.questionsAskedTotal,
	)
	return m
}

func (m *ConversationMetrics) ObserveTurn(merchantID, intent string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(merchantID, intent).Inc()
	m.turnLatency.WithLabelValues(merchantID).Observe(seconds)
}

func (m *ConversationMetrics) ObserveCompletion(merchantID string, booked bool) {
	if m == nil {
		return
	}
	label := "false"
	if booked {
		label = "true"
	}
	m.completionsTotal.WithLabelValues(merchantID, label).Inc()
}

func (m *ConversationMetrics) ObserveCandidate(field, outcome string) {
	if m == nil {
		return
	}
	m.candidatesTotal.WithLabelValues(field, outcome).Inc()
}

func (m *ConversationMetrics) ObserveCollaboratorError(collaborator string) {
	if m == nil {
		return
	}
	m.collaboratorErrors.WithLabelValues(collaborator).Inc()
}

func (m *ConversationMetrics) ObserveQuestionAsked(field string) {
	if m == nil {
		return
	}
	m.questionsAskedTotal.WithLabelValues(field).Inc()
}
