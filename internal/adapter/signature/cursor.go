// Package signature turns the classified lexemes of a rendered declaration into a
// canonical "name: (params) -> return" string and decides whether that string is
// safe to emit.
package signature

import (
	"strings"

	"sigdump/internal/domain"
)

var entityDecoder = strings.NewReplacer(
	"&nbsp;", "",
	"&lt;", "<",
	"&gt;", ">",
)

// decodeLexeme strips the entity encodings doc renderers leave in code spans and
// trims surrounding whitespace, including non-breaking spaces.
func decodeLexeme(text string) string {
	return strings.TrimSpace(entityDecoder.Replace(text))
}

// Cursor is a position in one signature block's lexemes. It is a value: every
// advancing operation returns the moved cursor and leaves the receiver untouched.
type Cursor struct {
	lexemes    []domain.Lexeme
	pos        int
	parenDepth int
	angleDepth int
}

func NewCursor(block domain.SignatureBlock) Cursor {
	return Cursor{lexemes: block.Lexemes}
}

// Pos returns the index of the next lexeme to be examined.
func (c Cursor) Pos() int {
	return c.pos
}

// Balanced reports whether both nesting counters are at zero.
func (c Cursor) Balanced() bool {
	return c.parenDepth == 0 && c.angleDepth == 0
}

// Next skips untagged lexemes and returns the decoded text of the next classified
// one. ok is false at end of input.
func (c Cursor) Next() (text string, next Cursor, ok bool) {
	for c.pos < len(c.lexemes) {
		lx := c.lexemes[c.pos]
		c.pos++
		if lx.Classified() {
			return decodeLexeme(lx.Text), c, true
		}
	}
	return "", c, false
}

// Peek returns what Next would return without moving.
func (c Cursor) Peek() (string, bool) {
	text, _, ok := c.Next()
	return text, ok
}

// AtEnd reports whether no classified lexeme remains.
func (c Cursor) AtEnd() bool {
	_, ok := c.Peek()
	return !ok
}
