package signature

import (
	"errors"
	"fmt"
	"strings"

	"sigdump/internal/domain"
)

// ErrUnexpectedEnd is returned when a signature runs out of lexemes before a token
// the grammar requires.
var ErrUnexpectedEnd = errors.New("unexpected end of signature")

const (
	keywordFun = "fun"
	separator  = ":"
)

// Phase names the parser step that failed.
type Phase string

const (
	PhaseSkip       Phase = "skip"
	PhaseName       Phase = "name"
	PhaseParameters Phase = "parameters"
	PhaseReturn     Phase = "return"
)

type ParseError struct {
	Phase Phase
	Pos   int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s phase at lexeme %d: %v", e.Phase, e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func underrun(phase Phase, c Cursor) error {
	return &ParseError{Phase: phase, Pos: c.Pos(), Err: ErrUnexpectedEnd}
}

// Declaration is a parsed function signature. Parameters and ReturnType hold
// normalized types; an empty ReturnType means none was written.
type Declaration struct {
	Name       string
	Parameters []string
	ReturnType string
}

// Parse runs the phases over one signature block: skip to the fun keyword and past
// an optional generic clause, read the receiver-qualified name, the parameter
// types, then the return type.
func Parse(block domain.SignatureBlock) (Declaration, error) {
	var decl Declaration

	c, err := skipPreamble(NewCursor(block))
	if err != nil {
		return decl, err
	}
	if c, err = parseName(c, &decl); err != nil {
		return decl, err
	}
	if c, err = parseParameters(c, &decl); err != nil {
		return decl, err
	}
	parseReturnType(c, &decl)
	return decl, nil
}

// skipPreamble drops annotations and modifiers up to and including fun, then a
// declaration-level <...> clause if one follows.
func skipPreamble(c Cursor) (Cursor, error) {
	scan, c := c.ScanUntil(keywordFun)
	if !scan.Matched() {
		return c, underrun(PhaseSkip, c)
	}

	text, ok := c.Peek()
	if !ok {
		return c, underrun(PhaseSkip, c)
	}
	if text != "<" {
		return c, nil
	}

	_, c, _ = c.Next()
	scan, c = c.ScanUntil(">")
	if !scan.Matched() {
		return c, underrun(PhaseSkip, c)
	}
	return c, nil
}

// parseName reads the dotted path before the parameter list. Everything before the
// last dot is the receiver type, recorded as the first parameter.
func parseName(c Cursor, decl *Declaration) (Cursor, error) {
	scan, c := c.ScanUntil("(")
	if !scan.Matched() {
		return c, underrun(PhaseName, c)
	}

	path := scan.Text
	if i := strings.LastIndex(path, "."); i >= 0 {
		decl.Parameters = append(decl.Parameters, NormalizeType(path[:i]))
		decl.Name = path[i+1:]
	} else {
		decl.Name = path
	}
	return c, nil
}

func parseParameters(c Cursor, decl *Declaration) (Cursor, error) {
	for {
		var scan Scan
		scan, c = c.ScanUntil(separator, ")")
		switch scan.Stop {
		case StopNone:
			return c, underrun(PhaseParameters, c)
		case StopSecond:
			return c, nil
		}

		scan, c = c.ScanUntil(")", ",")
		if !scan.Matched() {
			return c, underrun(PhaseParameters, c)
		}
		decl.Parameters = append(decl.Parameters, NormalizeType(scan.Text))
		if scan.Stop == StopFirst {
			return c, nil
		}
	}
}

// parseReturnType reads ": <type>" to the end of the block. Anything else means the
// function returns Unit.
func parseReturnType(c Cursor, decl *Declaration) Cursor {
	text, c, ok := c.Next()
	if !ok || text != separator {
		return c
	}
	raw, c := c.ScanToEnd()
	decl.ReturnType = NormalizeType(raw)
	return c
}

// RenderOptions controls the canonical string layout.
type RenderOptions struct {
	// UnitForEmptyParams renders a parameterless function as "(Unit)" instead of "()".
	UnitForEmptyParams bool
}

// Render builds "<name>: (<params>) -> <return>". A colon left in the parameter or
// return part means a nested declaration escaped normalization, so the result is
// tagged Unresolvable.
func (d Declaration) Render(opts RenderOptions) string {
	params := strings.Join(d.Parameters, ", ")
	if len(d.Parameters) == 0 && opts.UnitForEmptyParams {
		params = Unit
	}

	ret := d.ReturnType
	if ret == "" {
		ret = Unit
	}

	body := "(" + params + ") -> " + ret
	if strings.Contains(body, separator) {
		body += Unresolvable
	}
	return d.Name + ": " + body
}

func (d Declaration) String() string {
	return d.Render(RenderOptions{})
}
