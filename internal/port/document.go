package port

import "sigdump/internal/domain"

// DocumentParser reduces a loaded document to its declaration blocks, each holding
// the classified lexemes of its signatures.
type DocumentParser interface {
	Parse(content []byte) ([]domain.DeclarationBlock, error)
}

// ArtifactWriter persists the aggregated output, replacing whatever was there.
type ArtifactWriter interface {
	Write(content string) error
}
