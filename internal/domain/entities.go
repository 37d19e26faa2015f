package domain

import "time"

// LexemeClass is the syntactic class a documentation renderer attached to a text fragment.
type LexemeClass int

const (
	// Untagged covers whitespace and comment runs between classified fragments.
	Untagged LexemeClass = iota
	Keyword
	Structural
)

func (c LexemeClass) String() string {
	switch c {
	case Keyword:
		return "keyword"
	case Structural:
		return "structural"
	default:
		return "untagged"
	}
}

type Lexeme struct {
	Text  string
	Class LexemeClass
}

// Classified reports whether the lexeme carries a syntactic class.
func (l Lexeme) Classified() bool {
	return l.Class != Untagged
}

type SignatureBlock struct {
	Lexemes []Lexeme
}

type DeclarationBlock struct {
	Signatures []SignatureBlock
}

type Document struct {
	ID      string
	Path    string
	Hash    string
	ModTime time.Time
}

// RejectReason names the acceptance rule that dropped a rendered signature.
type RejectReason string

const (
	RejectNone            RejectReason = ""
	RejectQualified       RejectReason = "qualified_reference"
	RejectUnresolvable    RejectReason = "unresolvable"
	RejectErrorClass      RejectReason = "error_class"
	RejectSuspend         RejectReason = "suspend"
	RejectMultiArgGeneric RejectReason = "multi_arg_generic"
	RejectOptional        RejectReason = "optional"
	RejectDenylisted      RejectReason = "denylisted_type"
)

type ExtractStats struct {
	Declarations    int                  `json:"declarations"`
	SignatureBlocks int                  `json:"signature_blocks"`
	Functions       int                  `json:"functions"`
	Accepted        int                  `json:"accepted"`
	ParseFailures   int                  `json:"parse_failures"`
	Rejected        map[RejectReason]int `json:"rejected,omitempty"`
}

// Add folds other into s.
func (s *ExtractStats) Add(other ExtractStats) {
	s.Declarations += other.Declarations
	s.SignatureBlocks += other.SignatureBlocks
	s.Functions += other.Functions
	s.Accepted += other.Accepted
	s.ParseFailures += other.ParseFailures
	for reason, n := range other.Rejected {
		s.Reject(reason, n)
	}
}

func (s *ExtractStats) Reject(reason RejectReason, n int) {
	if s.Rejected == nil {
		s.Rejected = make(map[RejectReason]int)
	}
	s.Rejected[reason] += n
}

// RejectedTotal sums rejections over all reasons.
func (s ExtractStats) RejectedTotal() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

// DocumentResult is the extraction outcome for one document.
type DocumentResult struct {
	Document   Document     `json:"document"`
	Signatures []string     `json:"signatures"`
	Stats      ExtractStats `json:"stats"`
	Cached     bool         `json:"-"`
}
