package automaton

import (
	"testing"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func term(id string) types.TokenClass {
	return types.MakeDefaultClass(id)
}

// balancedParensGrammar is the textbook example used to exercise LR(0)
// construction:
//
//	S -> ( S ) S | ε
func balancedParensGrammar() grammar.Grammar {
	g := grammar.New()
	g.AddTerm("(", term("("))
	g.AddTerm(")", term(")"))
	g.AddRule("S", grammar.Production{"(", "S", ")", "S"})
	g.AddRule("S", grammar.Epsilon)
	g.SetStartSymbol("S")
	return g
}

// exprGrammar mirrors grammar_test.go's expression grammar, used here for
// SLR(1)/LALR(1)/CLR(1) automaton construction tests.
func exprGrammar() grammar.Grammar {
	g := grammar.New()
	g.AddTerm("+", term("+"))
	g.AddTerm("*", term("*"))
	g.AddTerm("(", term("("))
	g.AddTerm(")", term(")"))
	g.AddTerm("id", term("id"))

	g.AddRule("E", grammar.Production{"T", "E'"})
	g.AddRule("E'", grammar.Production{"+", "T", "E'"})
	g.AddRule("E'", grammar.Epsilon)
	g.AddRule("T", grammar.Production{"F", "T'"})
	g.AddRule("T'", grammar.Production{"*", "F", "T'"})
	g.AddRule("T'", grammar.Epsilon)
	g.AddRule("F", grammar.Production{"(", "E", ")"})
	g.AddRule("F", grammar.Production{"id"})

	g.SetStartSymbol("E")
	return g
}

func Test_NewLR0ViablePrefixDFA_reachesAllStates(t *testing.T) {
	g := balancedParensGrammar()
	dfa := NewLR0ViablePrefixDFA(g)

	require.NotEmpty(t, dfa.Start)
	assert.Greater(t, len(dfa.States), 1)

	// every state must be reachable from start by walking transitions
	seen := map[string]bool{dfa.Start: true}
	queue := []string{dfa.Start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, to := range dfa.States[cur].Transitions {
			if !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	assert.Len(t, seen, len(dfa.States))
}

func Test_NewLR1ViablePrefixDFA_hasAtLeastAsManyStatesAsLR0(t *testing.T) {
	g := exprGrammar()
	lr0 := NewLR0ViablePrefixDFA(g)
	lr1 := NewLR1ViablePrefixDFA(g)

	// canonical LR(1) collections are never smaller than the LR(0)/SLR(1)
	// collection for the same grammar, since lookaheads can only split
	// states further.
	assert.GreaterOrEqual(t, len(lr1.States), len(lr0.States))
}

func Test_LALR1Constructions_agree(t *testing.T) {
	g := exprGrammar()

	byCLR, err := NewLALR1ViablePrefixDFA(g)
	require.NoError(t, err)

	lr0, kernels, err := NewLALR1KernelsBySLR(g)
	require.NoError(t, err)

	assert.Equal(t, len(lr0.States), len(byCLR.States),
		"by-SLR kernels should produce one state per LR(0) state, same count as the by-CLR merge")

	aug := g.Augmented()
	for _, name := range lr0.StateNames() {
		closed := aug.LR1_CLOSURE(kernels[name])
		core := grammar.CoreSet(closed)

		foundMatch := false
		for _, clrName := range byCLR.StateNames() {
			if grammar.EqualCoreSets(closed, byCLR.GetValue(clrName)) {
				foundMatch = true
				break
			}
		}
		assert.True(t, foundMatch, "no by-CLR state matches by-SLR state %s (core %s)", name, core.StringOrdered())
	}
}
