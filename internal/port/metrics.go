package port

import "sigdump/internal/domain"

// MetricsRecorder receives extraction counters.
type MetricsRecorder interface {
	RecordDocument(cached bool)
	RecordStats(stats domain.ExtractStats)
	RecordDocumentError()
}
