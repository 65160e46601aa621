package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values shared by the pipeline collectors.
const (
	OutcomeOK        = "ok"
	OutcomeFallback  = "fallback"
	OutcomeError     = "error"
	OutcomeSkipped   = "skipped"
	OutcomeThrottled = "throttled" // refused by an outbound quota
)

var (
	// weatherLookups counts enrichment results by outcome.
	weatherLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dietplan_weather_lookups_total",
			Help: "Weather enrichment results by outcome.",
		},
		[]string{"outcome"},
	)

	// llmRequests counts model calls by provider and outcome.
	llmRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dietplan_llm_requests_total",
			Help: "Language model calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	// llmLatency records model call duration. Buckets cover the slow tail of
	// multi-day plan generation.
	llmLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dietplan_llm_request_duration_seconds",
			Help:    "Duration of language model calls in seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"provider"},
	)

	// deliveryAttempts counts individual send attempts by transport and result.
	deliveryAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dietplan_delivery_attempts_total",
			Help: "Mail send attempts by transport and outcome.",
		},
		[]string{"transport", "outcome"},
	)

	// deliveries counts final delivery outcomes: sent, skipped or failed.
	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dietplan_deliveries_total",
			Help: "Final delivery outcomes.",
		},
		[]string{"outcome"},
	)

	// deliveriesInflight gauges detached deliveries still running.
	deliveriesInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dietplan_deliveries_inflight",
			Help: "Detached deliveries currently running.",
		},
	)
)

func init() {
	prometheus.MustRegister(weatherLookups, llmRequests, llmLatency, deliveryAttempts, deliveries, deliveriesInflight)
}

// ObserveWeather records one enrichment outcome.
func ObserveWeather(outcome string) { weatherLookups.WithLabelValues(outcome).Inc() }

// ObserveLLM records one model call.
func ObserveLLM(provider, outcome string, d time.Duration) {
	llmRequests.WithLabelValues(provider, outcome).Inc()
	llmLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveDeliveryAttempt records one send attempt.
func ObserveDeliveryAttempt(transport, outcome string) {
	deliveryAttempts.WithLabelValues(transport, outcome).Inc()
}

// ObserveDelivery records a final delivery outcome.
func ObserveDelivery(outcome string) { deliveries.WithLabelValues(outcome).Inc() }

// DeliveryStarted and DeliveryFinished bracket one detached delivery.
func DeliveryStarted()  { deliveriesInflight.Inc() }
func DeliveryFinished() { deliveriesInflight.Dec() }
