package parse

import (
	"strings"
	"testing"

	"github.com/dekarrin/parsegen/lex"
	"github.com/dekarrin/parsegen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// calcLexer tokenizes the same surface syntax exprGrammar() accepts:
// integers as "id", the four operator/grouping characters as themselves,
// whitespace discarded.
func calcLexer(t *testing.T) *lex.Lexer {
	lx := lex.NewLexer()
	for _, term := range []string{"+", "*", "(", ")", "id"} {
		lx.AddClass(types.MakeDefaultClass(term), lex.InitialCondition)
	}
	require.NoError(t, lx.AddPattern(`[0-9]+`, lex.LexAs("id"), lex.InitialCondition))
	require.NoError(t, lx.AddPattern(`\+`, lex.LexAs("+"), lex.InitialCondition))
	require.NoError(t, lx.AddPattern(`\*`, lex.LexAs("*"), lex.InitialCondition))
	require.NoError(t, lx.AddPattern(`\(`, lex.LexAs("("), lex.InitialCondition))
	require.NoError(t, lx.AddPattern(`\)`, lex.LexAs(")"), lex.InitialCondition))
	require.NoError(t, lx.AddPattern(`\s+`, lex.Discard(), lex.InitialCondition))
	return lx
}

func Test_Parser_evaluatesCalculatorOverLL1(t *testing.T) {
	g := exprGrammar()
	drv, err := NewLL1Parser(g, WithHandlers(calcHandlers()))
	require.NoError(t, err)

	p := NewParser(drv, "LL1", calcLexer(t))

	res, err := p.Parse("2 + 2 * 2", nil)
	require.NoError(t, err)
	assert.Equal(t, "accept", res.Status)
	assert.Equal(t, 6, res.Value)
}

func Test_Parser_evaluatesCalculatorOverLALR1(t *testing.T) {
	g := exprGrammar()
	drv, _, err := NewLALR1Parser(g, WithHandlers(calcHandlers()))
	require.NoError(t, err)

	p := NewParser(drv, "LALR1", calcLexer(t))

	res, err := p.Parse("(2 + 2) * 2", nil)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Value)
}

func Test_Parser_optionsScoping(t *testing.T) {
	g := exprGrammar()
	drv, err := NewLL1Parser(g, WithHandlers(calcHandlers()))
	require.NoError(t, err)

	p := NewParser(drv, "LL1", calcLexer(t))
	before := p.GetOptions()
	assert.False(t, before.CaptureLocations)

	_, err = p.Parse("2 + 2", &Options{CaptureLocations: true})
	require.NoError(t, err)

	after := p.GetOptions()
	assert.Equal(t, before, after)
}

func Test_Parser_hooksFire(t *testing.T) {
	g := exprGrammar()
	drv, err := NewLL1Parser(g, WithHandlers(calcHandlers()))
	require.NoError(t, err)

	p := NewParser(drv, "LL1", calcLexer(t))

	var gotInput string
	var gotValue any
	p.OnParseBegin(func(input string, tok Tokenizer, opts Options) {
		gotInput = input
	})
	p.OnParseEnd(func(value any) {
		gotValue = value
	})

	_, err = p.Parse("2 + 2", nil)
	require.NoError(t, err)
	assert.Equal(t, "2 + 2", gotInput)
	assert.Equal(t, 4, gotValue)
}

// countingTokenizer wraps calcLexer's output to prove SetTokenizer actually
// substitutes the scan path: it counts how many tokens it hands out.
type countingTokenizer struct {
	lx     *lex.Lexer
	stream types.TokenStream
	count  int
}

func (c *countingTokenizer) InitString(input string) error {
	stream, err := c.lx.Lex(strings.NewReader(input))
	if err != nil {
		return err
	}
	c.stream = stream
	return nil
}

func (c *countingTokenizer) HasMoreTokens() bool {
	return c.stream.HasNext()
}

func (c *countingTokenizer) GetNextToken() types.Token {
	c.count++
	return c.stream.Next()
}

func Test_Parser_setTokenizerSubstitutesScan(t *testing.T) {
	g := exprGrammar()
	drv, err := NewLL1Parser(g, WithHandlers(calcHandlers()))
	require.NoError(t, err)

	p := NewParser(drv, "LL1", nil)
	custom := &countingTokenizer{lx: calcLexer(t)}
	p.SetTokenizer(custom)

	assert.True(t, p.GetOptions().CustomTokenizer)

	res, err := p.Parse("2 + 2 * 2", nil)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Value)
	assert.Equal(t, 5, custom.count)
}
