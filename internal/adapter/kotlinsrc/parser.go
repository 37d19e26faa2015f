// Package kotlinsrc lexes Kotlin source with tree-sitter into the same classified
// lexemes the HTML reference pages carry, so source files and ad-hoc signature
// text go through the same extraction path.
package kotlinsrc

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"

	"sigdump/internal/domain"
)

// declarationTypes are the nodes whose headers become signature blocks.
var declarationTypes = map[string]bool{
	"function_declaration": true,
	"class_declaration":    true,
	"object_declaration":   true,
}

// bodyTypes end a declaration header.
var bodyTypes = map[string]bool{
	"function_body":   true,
	"class_body":      true,
	"enum_class_body": true,
}

// identifierTypes hold soft keywords used as names; their leaves are not keywords.
var identifierTypes = map[string]bool{
	"simple_identifier": true,
	"type_identifier":   true,
}

// Parser produces declaration blocks from Kotlin source files.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// funInterface finds "fun interface" declarations, which the grammar does not
// know. The fun keyword is blanked out before parsing and given back to the lexer
// in front of the interface keyword.
var funInterface = regexp.MustCompile(`\bfun(\s+)interface\b`)

// source is Kotlin text prepared for the grammar.
type source struct {
	src []byte
	// funInterfaces holds the byte offsets of interface keywords that followed a
	// blanked fun.
	funInterfaces map[uint32]bool
}

func prepare(content []byte) source {
	src := append([]byte(nil), content...)
	s := source{src: src, funInterfaces: make(map[uint32]bool)}
	for _, m := range funInterface.FindAllSubmatchIndex(src, -1) {
		for i := m[0]; i < m[0]+len("fun"); i++ {
			src[i] = ' '
		}
		s.funInterfaces[uint32(m[3])] = true
	}
	return s
}

func parseTree(ctx context.Context, src []byte) (*sitter.Node, error) {
	p := sitter.NewParser()
	p.SetLanguage(kotlin.GetLanguage())
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kotlin source: %w", err)
	}
	return tree.RootNode(), nil
}

// Parse turns every top-level declaration into a declaration block holding its own
// header and the headers of the declarations nested in its body.
func (p *Parser) Parse(content []byte) ([]domain.DeclarationBlock, error) {
	s := prepare(content)
	root, err := parseTree(context.Background(), s.src)
	if err != nil {
		return nil, err
	}

	var blocks []domain.DeclarationBlock
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if !declarationTypes[child.Type()] {
			continue
		}
		var block domain.DeclarationBlock
		collectHeaders(child, s, &block)
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func collectHeaders(n *sitter.Node, s source, block *domain.DeclarationBlock) {
	if declarationTypes[n.Type()] {
		block.Signatures = append(block.Signatures, header(n, s))
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		collectHeaders(n.NamedChild(i), s, block)
	}
}

// header lexes a declaration up to its body.
func header(n *sitter.Node, s source) domain.SignatureBlock {
	lx := &lexer{source: s, offset: n.StartByte()}
	lx.walk(n)
	lx.finish(n.EndByte())
	return domain.SignatureBlock{Lexemes: lx.lexemes}
}

// Lex lexes a snippet such as "fun add(a: Int, b: Int): Int" into one signature
// block. Lexing stops at the first body or opening brace; syntax errors before that
// do not stop it.
func Lex(ctx context.Context, snippet string) (domain.SignatureBlock, error) {
	s := prepare([]byte(snippet))
	root, err := parseTree(ctx, s.src)
	if err != nil {
		return domain.SignatureBlock{}, err
	}
	lx := &lexer{source: s, stopAtBrace: true}
	lx.walk(root)
	lx.finish(uint32(len(s.src)))
	return domain.SignatureBlock{Lexemes: lx.lexemes}, nil
}

type lexer struct {
	source
	offset      uint32
	lexemes     []domain.Lexeme
	stopped     bool
	stopAtBrace bool
}

func (l *lexer) walk(n *sitter.Node) {
	if l.stopped {
		return
	}
	if bodyTypes[n.Type()] {
		l.stop(n.StartByte())
		return
	}
	if isComment(n) {
		l.emit(n, domain.Untagged)
		return
	}
	if n.ChildCount() == 0 {
		if l.stopAtBrace && n.Type() == "{" {
			l.stop(n.StartByte())
			return
		}
		l.emit(n, classify(n))
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		l.walk(n.Child(i))
	}
}

func (l *lexer) stop(at uint32) {
	l.gap(at)
	l.stopped = true
}

// finish emits whatever text the grammar left between the last token and end.
func (l *lexer) finish(end uint32) {
	if !l.stopped {
		l.gap(end)
	}
}

// emit appends the gap before n, then n itself.
func (l *lexer) emit(n *sitter.Node, class domain.LexemeClass) {
	start, end := n.StartByte(), n.EndByte()
	l.gap(start)
	if end <= start {
		return
	}
	if class == domain.Keyword && l.funInterfaces[start] {
		l.lexemes = append(l.lexemes, domain.Lexeme{Text: "fun", Class: domain.Keyword})
	}
	l.lexemes = append(l.lexemes, domain.Lexeme{Text: n.Content(l.src), Class: class})
	if end > l.offset {
		l.offset = end
	}
}

// gap emits the source between the last token and pos. Tokens the grammar folds
// into a parent node, such as the nullable marker, only show up here, so anything
// that is not whitespace is kept as structural text.
func (l *lexer) gap(pos uint32) {
	if pos > uint32(len(l.src)) {
		pos = uint32(len(l.src))
	}
	if pos <= l.offset {
		return
	}
	l.lexemes = append(l.lexemes, splitGap(string(l.src[l.offset:pos]))...)
	l.offset = pos
}

// splitGap separates whitespace runs (untagged) from everything else (structural).
func splitGap(text string) []domain.Lexeme {
	var out []domain.Lexeme
	start := 0
	for i, r := range text {
		if i == start {
			continue
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if unicode.IsSpace(prev) != unicode.IsSpace(r) {
			out = append(out, gapLexeme(text[start:i]))
			start = i
		}
	}
	if start < len(text) {
		out = append(out, gapLexeme(text[start:]))
	}
	return out
}

func gapLexeme(text string) domain.Lexeme {
	r, _ := utf8.DecodeRuneInString(text)
	if unicode.IsSpace(r) {
		return domain.Lexeme{Text: text, Class: domain.Untagged}
	}
	return domain.Lexeme{Text: text, Class: domain.Structural}
}

func isComment(n *sitter.Node) bool {
	return strings.HasSuffix(n.Type(), "comment")
}

// classify marks anonymous word tokens as keywords unless they sit in an
// identifier position.
func classify(n *sitter.Node) domain.LexemeClass {
	if n.IsNamed() || !isWord(n.Type()) {
		return domain.Structural
	}
	if parent := n.Parent(); parent != nil && identifierTypes[parent.Type()] {
		return domain.Structural
	}
	return domain.Keyword
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
