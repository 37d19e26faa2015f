package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"sigdump/internal/domain"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<div class="api-declarations-list">
  <div class="declarations">
    <div class="signature"><code><span class="keyword">fun </span><span class="identifier">add</span><span class="symbol">(</span><span class="parameterName">a</span><span class="symbol">:</span>&nbsp;<span class="identifier">Int</span><span class="symbol">,</span> <span class="parameterName">b</span><span class="symbol">:</span> <span class="identifier">Int</span><span class="symbol">)</span><span class="symbol">:</span> <span class="identifier">Int</span></code><code>ignored</code></div>
    <div class="signature"><code><span class="keyword">fun</span> <span class="keyword">interface</span> <span class="identifier">Runnable</span></code></div>
  </div>
  <div class="declarations">
    <div class="signature"><code><span class="keyword">fun</span> <span class="symbol">&lt;</span><span class="identifier">T</span><span class="symbol">&gt;</span> <!-- generic --><span class="identifier">identity</span><span class="symbol">(</span><span class="parameterName">x</span><span class="symbol">:</span> <span class="identifier">T</span><span class="symbol">)</span></code></div>
    <div class="signature">no code here</div>
  </div>
</div>
<div class="declarations"><div class="signature"><code><span class="keyword">fun</span> <span>outside</span></code></div></div>
</body></html>`

func TestHTMLParser_Parse(t *testing.T) {
	p, err := NewHTMLParser("", "", "")
	require.NoError(t, err)

	blocks, err := p.Parse([]byte(samplePage))
	require.NoError(t, err)
	require.Len(t, blocks, 2, "declarations outside the list are not selected")

	require.Len(t, blocks[0].Signatures, 2)
	require.Len(t, blocks[1].Signatures, 2)

	first := blocks[0].Signatures[0].Lexemes
	require.NotEmpty(t, first)
	assert.Equal(t, domain.Lexeme{Text: "fun ", Class: domain.Keyword}, first[0])
	assert.Equal(t, domain.Lexeme{Text: "add", Class: domain.Structural}, first[1])

	var untagged int
	for _, lx := range first {
		if lx.Class == domain.Untagged {
			untagged++
		}
	}
	assert.Equal(t, 4, untagged, "whitespace between spans is untagged")

	generic := blocks[1].Signatures[0].Lexemes
	assert.Equal(t, "<", generic[2].Text)
	assert.Equal(t, ">", generic[4].Text)

	assert.Empty(t, blocks[1].Signatures[1].Lexemes, "signature without code yields no lexemes")
}

func TestHTMLParser_CustomKeywordClass(t *testing.T) {
	page := `<div class="decl"><pre class="sig"><code><b class="kw">fun</b><i>f</i></code></pre></div>`
	p, err := NewHTMLParser(".decl", "pre.sig", "kw")
	require.NoError(t, err)

	blocks, err := p.Parse([]byte(page))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Signatures, 1)

	lexemes := blocks[0].Signatures[0].Lexemes
	require.Len(t, lexemes, 2)
	assert.Equal(t, domain.Keyword, lexemes[0].Class)
	assert.Equal(t, domain.Structural, lexemes[1].Class)
}

func TestNewHTMLParser_InvalidSelector(t *testing.T) {
	_, err := NewHTMLParser("div[", "", "")
	assert.ErrorContains(t, err, "declaration selector")

	_, err = NewHTMLParser("", ".signature >", "")
	assert.ErrorContains(t, err, "signature selector")

	_, err = NewHTMLParser("", "", "1bad")
	assert.ErrorContains(t, err, "keyword class")
}

func TestHTMLParser_ChildCombinator(t *testing.T) {
	page := `<div class="list"><div class="decl" id="direct"><div class="sig"><code><span class="keyword">fun</span><span>a</span></code></div></div>` +
		`<section><div class="decl"><div class="sig"><code><span>nested</span></code></div></div></section></div>`

	p, err := NewHTMLParser(".list > .decl", ".sig", "")
	require.NoError(t, err)

	blocks, err := p.Parse([]byte(page))
	require.NoError(t, err)
	require.Len(t, blocks, 1, "only the direct child matches")
	require.Len(t, blocks[0].Signatures, 1)
	assert.Equal(t, "fun", blocks[0].Signatures[0].Lexemes[0].Text)
	assert.Equal(t, domain.Keyword, blocks[0].Signatures[0].Lexemes[0].Class)
}

func TestInnerText(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<p><b>Int</b><i>&lt;<u>T</u>&gt;</i></p>`))
	require.NoError(t, err)
	assert.Equal(t, "Int<T>", innerText(root))
}
