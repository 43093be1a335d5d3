package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LL1Parser_acceptsValidInput(t *testing.T) {
	g := exprGrammar()
	p, err := NewLL1Parser(g)
	require.NoError(t, err)

	stream := newFakeStream([2]string{"id", "a"}, [2]string{"+", "+"}, [2]string{"id", "b"}, [2]string{"*", "*"}, [2]string{"id", "c"})

	tree, err := p.Parse(stream)
	require.NoError(t, err)
	assert.Equal(t, "E", tree.Value)
	assert.False(t, tree.Terminal)

	leaves := tree.Leaves()
	require.Len(t, leaves, 5)
	assert.Equal(t, "a", leaves[0].Lexeme())
	assert.Equal(t, "+", leaves[1].Lexeme())
	assert.Equal(t, "b", leaves[2].Lexeme())
	assert.Equal(t, "*", leaves[3].Lexeme())
	assert.Equal(t, "c", leaves[4].Lexeme())
}

func Test_LL1Parser_rejectsInvalidInput(t *testing.T) {
	g := exprGrammar()
	p, err := NewLL1Parser(g)
	require.NoError(t, err)

	// "+ id" is not a valid expression: no LL(1) entry for E on "+".
	stream := newFakeStream([2]string{"+", "+"}, [2]string{"id", "a"})

	_, err = p.Parse(stream)
	assert.Error(t, err)
}

func Test_LL1Parser_tracesProductions(t *testing.T) {
	g := exprGrammar()
	var applied []string
	p, err := NewLL1Parser(g, WithTrace(func(s string) { applied = append(applied, s) }))
	require.NoError(t, err)

	stream := newFakeStream([2]string{"id", "a"})
	_, err = p.Parse(stream)
	require.NoError(t, err)
	assert.NotEmpty(t, applied)
}
