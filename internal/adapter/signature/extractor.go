package signature

import "sigdump/internal/domain"

// Outcome records what happened to one signature block.
type Outcome struct {
	IsFunction bool
	Rendered   string
	Verdict    Verdict
	Err        error
}

// Emitted reports whether the block produced an output line.
func (o Outcome) Emitted() bool {
	return o.IsFunction && o.Err == nil && o.Verdict.Accepted
}

// Extractor chains classification, parsing, rendering and filtering for a single
// signature block. It keeps no state between blocks.
type Extractor struct {
	filter *Filter
	render RenderOptions
}

func NewExtractor(filter *Filter, render RenderOptions) *Extractor {
	if filter == nil {
		filter = NewFilter(nil)
	}
	return &Extractor{filter: filter, render: render}
}

func (x *Extractor) Extract(block domain.SignatureBlock) Outcome {
	if !IsFunction(block) {
		return Outcome{}
	}

	decl, err := Parse(block)
	if err != nil {
		return Outcome{IsFunction: true, Err: err}
	}

	rendered := decl.Render(x.render)
	return Outcome{
		IsFunction: true,
		Rendered:   rendered,
		Verdict:    x.filter.Check(rendered),
	}
}
