// Package metrics counts extraction outcomes with Prometheus collectors. A CLI run
// has no scrape endpoint, so the registry is written out in the textfile
// collector format at the end of the run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sigdump/internal/domain"
)

const namespace = "sigdump"

// Recorder implements port.MetricsRecorder on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	documentsTotal      *prometheus.CounterVec
	documentErrorsTotal prometheus.Counter
	signaturesTotal     *prometheus.CounterVec
	rejectedTotal       *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		// documentsTotal counts processed documents.
		// Labels: source (parsed, cached)
		documentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "processed_total",
			Help:      "Documents processed by source",
		}, []string{"source"}),

		documentErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "errors_total",
			Help:      "Documents that could not be read or parsed",
		}),

		// signaturesTotal counts signature blocks by outcome.
		// Labels: outcome (not_function, parse_failed, accepted, rejected)
		signaturesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signatures",
			Name:      "total",
			Help:      "Signature blocks by extraction outcome",
		}, []string{"outcome"}),

		// rejectedTotal counts rejected signatures by the rule that dropped them.
		rejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signatures",
			Name:      "rejected_total",
			Help:      "Rejected signatures by acceptance rule",
		}, []string{"reason"}),
	}
}

func (r *Recorder) RecordDocument(cached bool) {
	source := "parsed"
	if cached {
		source = "cached"
	}
	r.documentsTotal.WithLabelValues(source).Inc()
}

func (r *Recorder) RecordDocumentError() {
	r.documentErrorsTotal.Inc()
}

func (r *Recorder) RecordStats(stats domain.ExtractStats) {
	r.signaturesTotal.WithLabelValues("not_function").Add(float64(stats.SignatureBlocks - stats.Functions))
	r.signaturesTotal.WithLabelValues("parse_failed").Add(float64(stats.ParseFailures))
	r.signaturesTotal.WithLabelValues("accepted").Add(float64(stats.Accepted))
	r.signaturesTotal.WithLabelValues("rejected").Add(float64(stats.RejectedTotal()))
	for reason, n := range stats.Rejected {
		r.rejectedTotal.WithLabelValues(string(reason)).Add(float64(n))
	}
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current values for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
