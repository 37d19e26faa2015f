package kotlinsrc

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigdump/internal/adapter/signature"
	"sigdump/internal/domain"
)

const sampleSource = `package demo

class Greeter {
    // says hello
    fun greet(name: String): String = "hi $name"
}

fun Int.double(): Int {
    return this * 2
}

fun reset() {}
`

func TestParser_Parse(t *testing.T) {
	blocks, err := NewParser().Parse([]byte(sampleSource))
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	x := signature.NewExtractor(nil, signature.RenderOptions{})

	require.Len(t, blocks[0].Signatures, 2)
	assert.False(t, signature.IsFunction(blocks[0].Signatures[0]), "class header")
	assert.Equal(t, "greet: (String) -> String", x.Extract(blocks[0].Signatures[1]).Rendered)

	require.Len(t, blocks[1].Signatures, 1)
	assert.Equal(t, "double: (Int) -> Int", x.Extract(blocks[1].Signatures[0]).Rendered)

	require.Len(t, blocks[2].Signatures, 1)
	assert.Equal(t, "reset: () -> Unit", x.Extract(blocks[2].Signatures[0]).Rendered)
}

func TestParser_HeaderStopsAtBody(t *testing.T) {
	blocks, err := NewParser().Parse([]byte(sampleSource))
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	for _, lx := range blocks[1].Signatures[0].Lexemes {
		assert.NotContains(t, lx.Text, "return", "body leaked into header")
	}
}

func TestLex_Snippet(t *testing.T) {
	block, err := Lex(context.Background(), "fun add(a: Int, b: Int): Int")
	require.NoError(t, err)
	require.NotEmpty(t, block.Lexemes)

	first := block.Lexemes[0]
	assert.Equal(t, domain.Lexeme{Text: "fun", Class: domain.Keyword}, first)

	var text strings.Builder
	for _, lx := range block.Lexemes {
		text.WriteString(lx.Text)
	}
	assert.Equal(t, "fun add(a: Int, b: Int): Int", text.String(), "lexemes cover the source")

	out := signature.NewExtractor(nil, signature.RenderOptions{}).Extract(block)
	require.NoError(t, out.Err)
	assert.True(t, out.Emitted())
	assert.Equal(t, "add: (Int, Int) -> Int", out.Rendered)
}

func TestLex_NullableReturnRejected(t *testing.T) {
	block, err := Lex(context.Background(), "fun readLine(): String?")
	require.NoError(t, err)

	out := signature.NewExtractor(nil, signature.RenderOptions{}).Extract(block)
	require.NoError(t, out.Err)
	assert.Equal(t, "readLine: () -> Optional<String>", out.Rendered)
	assert.Equal(t, domain.RejectOptional, out.Verdict.Reason)
}

func TestLex_NullableParameterRejected(t *testing.T) {
	block, err := Lex(context.Background(), "fun f(a: Int, b: String?): Unit {}")
	require.NoError(t, err)

	out := signature.NewExtractor(nil, signature.RenderOptions{}).Extract(block)
	require.NoError(t, out.Err)
	assert.Equal(t, "f: (Int, Optional<String>) -> Unit", out.Rendered)
	assert.Equal(t, domain.RejectOptional, out.Verdict.Reason)
	assert.False(t, out.Emitted())
}

func TestLex_StopsAtBody(t *testing.T) {
	block, err := Lex(context.Background(), "fun f(): Unit { println(1) }")
	require.NoError(t, err)

	out := signature.NewExtractor(nil, signature.RenderOptions{}).Extract(block)
	require.NoError(t, out.Err)
	assert.Equal(t, "f: () -> Unit", out.Rendered)
	assert.True(t, out.Emitted())
}

func TestLex_FunInterface(t *testing.T) {
	block, err := Lex(context.Background(), "fun interface Runnable { fun run() }")
	require.NoError(t, err)

	var keywords []string
	for _, lx := range block.Lexemes {
		if lx.Class == domain.Keyword {
			keywords = append(keywords, lx.Text)
		}
		assert.NotEqual(t, "{", lx.Text, "body leaked into snippet")
	}
	assert.Equal(t, []string{"fun", "interface"}, keywords)
	assert.False(t, signature.IsFunction(block))
}

func TestParser_FunInterface(t *testing.T) {
	src := `fun interface Runnable {
    fun run()
}

fun greet(name: String?): String = "hi"
`
	blocks, err := NewParser().Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	x := signature.NewExtractor(nil, signature.RenderOptions{})

	require.Len(t, blocks[0].Signatures, 2)
	assert.False(t, signature.IsFunction(blocks[0].Signatures[0]), "fun interface header")
	run := x.Extract(blocks[0].Signatures[1])
	assert.Equal(t, "run: () -> Unit", run.Rendered)
	assert.True(t, run.Emitted())

	require.Len(t, blocks[1].Signatures, 1)
	greet := x.Extract(blocks[1].Signatures[0])
	assert.Equal(t, "greet: (Optional<String>) -> String", greet.Rendered)
	assert.Equal(t, domain.RejectOptional, greet.Verdict.Reason)
}

func TestSplitGap(t *testing.T) {
	assert.Nil(t, splitGap(""))
	assert.Equal(t, []domain.Lexeme{{Text: "?", Class: domain.Structural}}, splitGap("?"))
	assert.Equal(t, []domain.Lexeme{
		{Text: "?", Class: domain.Structural},
		{Text: "  ", Class: domain.Untagged},
		{Text: "!!", Class: domain.Structural},
	}, splitGap("?  !!"))
}

func TestIsWord(t *testing.T) {
	assert.True(t, isWord("fun"))
	assert.True(t, isWord("interface"))
	assert.False(t, isWord("->"))
	assert.False(t, isWord("("))
	assert.False(t, isWord(""))
}
