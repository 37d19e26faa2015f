package signature

import (
	"strings"

	"sigdump/internal/domain"
)

const keywordInterface = "interface"

// IsFunction scans the block's keywords in order. fun marks the block a function
// and a later interface unmarks it, so "fun interface" declarations are excluded
// while an interface keyword ahead of fun is not.
func IsFunction(block domain.SignatureBlock) bool {
	is := false
	for _, lx := range block.Lexemes {
		if lx.Class != domain.Keyword {
			continue
		}
		switch strings.TrimSpace(lx.Text) {
		case keywordFun:
			is = true
		case keywordInterface:
			is = false
		}
	}
	return is
}
