// Package metrics provides Prometheus metric collection and exposition.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics interface consumed by services and adapters.
type Recorder interface {
	RecordAnswer(source string)
	RecordAnswerLatency(d time.Duration)
	RecordTranslation(outcome string)
	RecordTranscription(outcome string)
	RecordQuestionSaved()
}

// Answer sources.
const (
	AnswerSourceRemote   = "remote"
	AnswerSourceFallback = "fallback"
)

// Adapter call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeUnavailable = "unavailable"
)

// Collector implements Recorder backed by Prometheus metrics.
type Collector struct {
	answers        *prometheus.CounterVec
	answerLatency  prometheus.Histogram
	translations   *prometheus.CounterVec
	transcriptions *prometheus.CounterVec
	questionsSaved prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduvoice_answers_total",
			Help: "Answers produced, by source (remote or fallback).",
		}, []string{"source"}),
		answerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eduvoice_answer_latency_seconds",
			Help:    "Latency of answer generation including fallback.",
			Buckets: prometheus.DefBuckets,
		}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduvoice_translations_total",
			Help: "Translation attempts, by outcome.",
		}, []string{"outcome"}),
		transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduvoice_transcriptions_total",
			Help: "Speech transcription attempts, by outcome.",
		}, []string{"outcome"}),
		questionsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eduvoice_questions_saved_total",
			Help: "QA records persisted.",
		}),
	}

	reg.MustRegister(
		c.answers,
		c.answerLatency,
		c.translations,
		c.transcriptions,
		c.questionsSaved,
	)
	return c
}

func (c *Collector) RecordAnswer(source string) {
	c.answers.WithLabelValues(source).Inc()
}

func (c *Collector) RecordAnswerLatency(d time.Duration) {
	c.answerLatency.Observe(d.Seconds())
}

func (c *Collector) RecordTranslation(outcome string) {
	c.translations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordTranscription(outcome string) {
	c.transcriptions.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordQuestionSaved() {
	c.questionsSaved.Inc()
}

// Handler returns the Prometheus exposition handler for a registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards all observations. Used in tests and when
// metrics are disabled.
type Nop struct{}

func (Nop) RecordAnswer(string)               {}
func (Nop) RecordAnswerLatency(time.Duration) {}
func (Nop) RecordTranslation(string)          {}
func (Nop) RecordTranscription(string)        {}
func (Nop) RecordQuestionSaved()              {}
