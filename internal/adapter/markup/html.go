// Package markup reads rendered API reference HTML and reduces each documented
// signature to its classified lexemes.
package markup

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"sigdump/internal/domain"
)

const (
	DefaultDeclarationSelector = ".api-declarations-list .declarations"
	DefaultSignatureSelector   = ".signature"
	DefaultKeywordClass        = "keyword"
)

var codeSelector = cascadia.MustCompile("code")

// HTMLParser queries declaration and signature blocks out of an HTML page.
type HTMLParser struct {
	declarations cascadia.Selector
	signatures   cascadia.Selector
	keyword      cascadia.Selector
}

// NewHTMLParser builds a parser from CSS selectors. Empty arguments take the
// defaults matching the Kotlin reference site layout.
func NewHTMLParser(declarationSelector, signatureSelector, keywordClass string) (*HTMLParser, error) {
	if declarationSelector == "" {
		declarationSelector = DefaultDeclarationSelector
	}
	if signatureSelector == "" {
		signatureSelector = DefaultSignatureSelector
	}
	if keywordClass == "" {
		keywordClass = DefaultKeywordClass
	}

	decl, err := cascadia.Compile(declarationSelector)
	if err != nil {
		return nil, fmt.Errorf("declaration selector: %w", err)
	}
	sig, err := cascadia.Compile(signatureSelector)
	if err != nil {
		return nil, fmt.Errorf("signature selector: %w", err)
	}
	kw, err := cascadia.Compile("." + keywordClass)
	if err != nil {
		return nil, fmt.Errorf("keyword class: %w", err)
	}

	return &HTMLParser{
		declarations: decl,
		signatures:   sig,
		keyword:      kw,
	}, nil
}

func (p *HTMLParser) Parse(content []byte) ([]domain.DeclarationBlock, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var blocks []domain.DeclarationBlock
	for _, declNode := range cascadia.QueryAll(root, p.declarations) {
		var block domain.DeclarationBlock
		for _, sigNode := range cascadia.QueryAll(declNode, p.signatures) {
			block.Signatures = append(block.Signatures, p.signatureBlock(sigNode))
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// signatureBlock turns the children of the signature's first code element into
// lexemes. Element children carry a class; text and comment children do not.
func (p *HTMLParser) signatureBlock(sig *html.Node) domain.SignatureBlock {
	var block domain.SignatureBlock
	code := cascadia.Query(sig, codeSelector)
	if code == nil {
		return block
	}

	for c := code.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			class := domain.Structural
			if p.keyword.Match(c) {
				class = domain.Keyword
			}
			block.Lexemes = append(block.Lexemes, domain.Lexeme{Text: innerText(c), Class: class})
		case html.TextNode, html.CommentNode:
			block.Lexemes = append(block.Lexemes, domain.Lexeme{Text: c.Data, Class: domain.Untagged})
		}
	}
	return block
}

// innerText concatenates every text node below n.
func innerText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(innerText(c))
	}
	return sb.String()
}
