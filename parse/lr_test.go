package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SLRParser_acceptsValidInput(t *testing.T) {
	g := exprGrammar()
	p, warnings, err := NewSLRParser(g)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	stream := newFakeStream([2]string{"id", "a"}, [2]string{"+", "+"}, [2]string{"id", "b"}, [2]string{"*", "*"}, [2]string{"id", "c"})

	tree, err := p.Parse(stream)
	require.NoError(t, err)
	assert.Equal(t, "$accept", tree.Value)

	leaves := tree.Leaves()
	require.Len(t, leaves, 6) // 5 input tokens plus trailing end-of-text
	assert.Equal(t, "a", leaves[0].Lexeme())
}

func Test_SLRParser_rejectsInvalidInput(t *testing.T) {
	g := exprGrammar()
	p, _, err := NewSLRParser(g)
	require.NoError(t, err)

	stream := newFakeStream([2]string{"+", "+"}, [2]string{"id", "a"})
	_, err = p.Parse(stream)
	assert.Error(t, err)
}

func Test_LALR1Parser_acceptsValidInput(t *testing.T) {
	g := exprGrammar()
	p, warnings, err := NewLALR1Parser(g)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	stream := newFakeStream([2]string{"id", "a"}, [2]string{"*", "*"}, [2]string{"(", "("}, [2]string{"id", "b"}, [2]string{"+", "+"}, [2]string{"id", "c"}, [2]string{")", ")"})

	_, err = p.Parse(stream)
	require.NoError(t, err)
}

func Test_CLR1Parser_acceptsValidInput(t *testing.T) {
	g := exprGrammar()
	p, warnings, err := NewCLR1Parser(g)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	stream := newFakeStream([2]string{"id", "a"})
	tree, err := p.Parse(stream)
	require.NoError(t, err)
	require.Len(t, tree.Leaves(), 2)
}

func Test_LR0Parser_conflictsOnExprGrammar(t *testing.T) {
	// The expression grammar needs at least one symbol of lookahead to
	// decide between shifting '+'/'*' and reducing the epsilon productions
	// of E'/T', so plain LR(0) construction must fail.
	g := exprGrammar()
	_, _, err := NewLR0Parser(g)
	assert.Error(t, err)
}

func Test_SLRParser_traceEmitsShiftsAndReduces(t *testing.T) {
	g := exprGrammar()
	var lines []string
	p, _, err := NewSLRParser(g, WithTrace(func(s string) { lines = append(lines, s) }))
	require.NoError(t, err)

	stream := newFakeStream([2]string{"id", "a"})
	_, err = p.Parse(stream)
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
}
