package signature

import (
	"regexp"
	"strings"

	"sigdump/internal/domain"
)

// DefaultDenylist holds stream types whose signatures are never emitted.
var DefaultDenylist = []string{"PrintWriter", "PrintStream"}

const errorClassMarker = "ERROR CLASS"

var multiArgGeneric = regexp.MustCompile(`<.*,.*>`)

// Verdict is the Filter's decision on one rendered signature.
type Verdict struct {
	Accepted bool
	Reason   domain.RejectReason
	// Match is the text that triggered the rejection.
	Match string
}

// Filter holds the substring heuristics that decide whether a rendered signature
// was normalized confidently. The checks run in a fixed order and the first hit
// wins.
type Filter struct {
	denylist []string
}

// NewFilter returns a filter rejecting the given type names. A nil denylist falls
// back to DefaultDenylist; an empty non-nil one disables the check.
func NewFilter(denylist []string) *Filter {
	if denylist == nil {
		denylist = DefaultDenylist
	}
	return &Filter{denylist: denylist}
}

func (f *Filter) Check(rendered string) Verdict {
	type rule struct {
		reason domain.RejectReason
		marker string
	}
	rules := []rule{
		{domain.RejectQualified, "."},
		{domain.RejectUnresolvable, Unresolvable},
		{domain.RejectErrorClass, errorClassMarker},
		{domain.RejectSuspend, "suspend"},
	}
	for _, r := range rules {
		if strings.Contains(rendered, r.marker) {
			return Verdict{Reason: r.reason, Match: r.marker}
		}
	}

	if m := multiArgGeneric.FindString(rendered); m != "" {
		return Verdict{Reason: domain.RejectMultiArgGeneric, Match: m}
	}
	if strings.Contains(rendered, "Optional") {
		return Verdict{Reason: domain.RejectOptional, Match: "Optional"}
	}
	for _, name := range f.denylist {
		if name != "" && strings.Contains(rendered, name) {
			return Verdict{Reason: domain.RejectDenylisted, Match: name}
		}
	}
	return Verdict{Accepted: true}
}

// Accept is Check reduced to a boolean.
func (f *Filter) Accept(rendered string) bool {
	return f.Check(rendered).Accepted
}
