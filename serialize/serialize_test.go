package serialize

import (
	"testing"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/parse"
	"github.com/dekarrin/parsegen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func term(id string) types.TokenClass {
	return types.MakeDefaultClass(id)
}

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

func Test_EncodeDecodeLRTable_roundTrips(t *testing.T) {
	g := exprGrammar()
	p, _, err := parse.NewLALR1Parser(g)
	require.NoError(t, err)

	data, err := EncodeLRTable(g, p.Table(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	wt, err := DecodeLRTable(data)
	require.NoError(t, err)

	assert.Equal(t, "LALR(1)", wt.ParserType)
	assert.Equal(t, p.Table().Initial(), wt.Initial)
	assert.ElementsMatch(t, p.Table().States(), wt.States)

	eot, ok := wt.Symbol(0)
	require.True(t, ok)
	assert.Equal(t, grammar.EndOfTextSymbol, eot.Name)

	// every production the grammar has should be represented with a
	// correctly sized RHS.
	for _, np := range g.AllProductions() {
		wp, ok := wt.Production(np.Num)
		require.True(t, ok)
		assert.Equal(t, len(np.Body), wp.RHSLen)
	}

	// the accept cell for state 0... on the augmented start rule must
	// exist somewhere as "acc".
	foundAccept := false
	for _, row := range wt.Actions {
		for _, cell := range row {
			if cell == "acc" {
				foundAccept = true
			}
		}
	}
	assert.True(t, foundAccept, "expected an accept cell in the encoded table")
}

func Test_EncodeLL1Table_roundTrips(t *testing.T) {
	g := exprGrammar()
	table, err := g.LLParseTable()
	require.NoError(t, err)

	data, err := EncodeLL1Table(g, table, nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	wt, err := DecodeLRTable(data)
	require.NoError(t, err)
	assert.Equal(t, "LL(1)", wt.ParserType)
	assert.NotEmpty(t, wt.Actions[""])
}
