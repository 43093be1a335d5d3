package parse

import (
	"strconv"
	"testing"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// calcHandlers binds a semantic action to every production of exprGrammar()
// that evaluates it as arithmetic over int, left-associatively, using the
// standard trick for expressing left-fold in a synthesized-only attribute
// scheme over a left-factored (LL(1)-friendly) grammar: the "tail"
// non-terminals (E', T') synthesize a continuation function taking the
// accumulated value so far, rather than a value directly.
func calcHandlers() *Handlers {
	h := NewHandlers()

	identity := func(args []SymbolValue) (any, error) {
		return func(left int) int { return left }, nil
	}
	h.Bind("E'", grammar.Epsilon, identity)
	h.Bind("T'", grammar.Epsilon, identity)

	h.Bind("E'", grammar.Production{"+", "T", "E'"}, func(args []SymbolValue) (any, error) {
		t := args[1].Value.(int)
		tail := args[2].Value.(func(int) int)
		return func(left int) int { return tail(left + t) }, nil
	})
	h.Bind("T'", grammar.Production{"*", "F", "T'"}, func(args []SymbolValue) (any, error) {
		f := args[1].Value.(int)
		tail := args[2].Value.(func(int) int)
		return func(left int) int { return tail(left * f) }, nil
	})

	h.Bind("E", grammar.Production{"T", "E'"}, func(args []SymbolValue) (any, error) {
		t := args[0].Value.(int)
		tail := args[1].Value.(func(int) int)
		return tail(t), nil
	})
	h.Bind("T", grammar.Production{"F", "T'"}, func(args []SymbolValue) (any, error) {
		f := args[0].Value.(int)
		tail := args[1].Value.(func(int) int)
		return tail(f), nil
	})

	h.Bind("F", grammar.Production{"(", "E", ")"}, func(args []SymbolValue) (any, error) {
		return args[1].Value.(int), nil
	})
	h.Bind("F", grammar.Production{"id"}, func(args []SymbolValue) (any, error) {
		tok := args[0].Value.(types.Token)
		return strconv.Atoi(tok.Lexeme())
	})

	return h
}

func Test_LL1Parser_evaluatesCalculator(t *testing.T) {
	g := exprGrammar()
	p, err := NewLL1Parser(g, WithHandlers(calcHandlers()))
	require.NoError(t, err)

	stream := newFakeStream([2]string{"id", "2"}, [2]string{"+", "+"}, [2]string{"id", "2"}, [2]string{"*", "*"}, [2]string{"id", "2"})
	tree, err := p.Parse(stream)
	require.NoError(t, err)

	assert.Equal(t, 6, tree.Attr)
}

// Test_LALR1Parser_evaluatesCalculator checks the same evaluation through
// the LR driver. Its root is the synthetic $accept node, whose first child
// is the actual start symbol E, since LR parsing works over the augmented
// grammar.
func Test_LALR1Parser_evaluatesCalculator(t *testing.T) {
	g := exprGrammar()
	p, _, err := NewLALR1Parser(g, WithHandlers(calcHandlers()))
	require.NoError(t, err)

	stream := newFakeStream([2]string{"id", "2"}, [2]string{"+", "+"}, [2]string{"id", "2"}, [2]string{"*", "*"}, [2]string{"id", "2"})
	tree, err := p.Parse(stream)
	require.NoError(t, err)

	require.NotEmpty(t, tree.Children)
	assert.Equal(t, 6, tree.Children[0].Attr)
}
