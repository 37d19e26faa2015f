package port

import "sigdump/internal/domain"

// ResultStore caches per-document extraction results between runs.
type ResultStore interface {
	// GetResult returns the cached result for a document path. ok is false when
	// nothing is cached.
	GetResult(path string) (result domain.DocumentResult, ok bool, err error)

	PutResult(result domain.DocumentResult) error

	DeleteResult(path string) error

	ListResults() ([]domain.DocumentResult, error)

	Close() error
}
