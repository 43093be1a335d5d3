package grammar

import (
	"testing"

	"github.com/dekarrin/parsegen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func term(id string) types.TokenClass {
	return types.MakeDefaultClass(id)
}

// exprGrammar builds the classic left-factored expression grammar used
// throughout the dragon-book examples:
//
//	E  -> T E'
//	E' -> + T E' | ε
//	T  -> F T'
//	T' -> * F T' | ε
//	F  -> ( E ) | id
func exprGrammar() Grammar {
	g := New()
	g.AddTerm("+", term("+"))
	g.AddTerm("*", term("*"))
	g.AddTerm("(", term("("))
	g.AddTerm(")", term(")"))
	g.AddTerm("id", term("id"))

	g.AddRule("E", Production{"T", "E'"})
	g.AddRule("E'", Production{"+", "T", "E'"})
	g.AddRule("E'", Epsilon)
	g.AddRule("T", Production{"F", "T'"})
	g.AddRule("T'", Production{"*", "F", "T'"})
	g.AddRule("T'", Epsilon)
	g.AddRule("F", Production{"(", "E", ")"})
	g.AddRule("F", Production{"id"})

	g.SetStartSymbol("E")
	return g
}

func Test_Grammar_Validate_ok(t *testing.T) {
	g := exprGrammar()
	assert.NoError(t, g.Validate())
}

func Test_Grammar_Validate_undefinedSymbol(t *testing.T) {
	g := New()
	g.AddTerm("id", term("id"))
	g.AddRule("E", Production{"NOPE"})
	g.SetStartSymbol("E")

	err := g.Validate()
	require.Error(t, err)
}

func Test_Grammar_Validate_unreachable(t *testing.T) {
	g := exprGrammar()
	g.AddRule("UNUSED", Production{"id"})

	err := g.Validate()
	require.Error(t, err)
}

func Test_Grammar_FIRST(t *testing.T) {
	g := exprGrammar()

	testCases := []struct {
		sym      string
		expected []string
	}{
		{"F", []string{"(", "id"}},
		{"T", []string{"(", "id"}},
		{"T'", []string{"*", Epsilon[0]}},
		{"E", []string{"(", "id"}},
		{"E'", []string{"+", Epsilon[0]}},
	}

	for _, tc := range testCases {
		t.Run(tc.sym, func(t *testing.T) {
			actual := g.FIRST(tc.sym)
			assert.Equal(t, len(tc.expected), actual.Len(), "FIRST(%s) = %s", tc.sym, actual.StringOrdered())
			for _, exp := range tc.expected {
				assert.True(t, actual.Has(exp), "FIRST(%s) missing %q; got %s", tc.sym, exp, actual.StringOrdered())
			}
		})
	}
}

func Test_Grammar_FOLLOW(t *testing.T) {
	g := exprGrammar()

	testCases := []struct {
		sym      string
		expected []string
	}{
		{"E", []string{")", EndOfTextSymbol}},
		{"E'", []string{")", EndOfTextSymbol}},
		{"T", []string{"+", ")", EndOfTextSymbol}},
		{"T'", []string{"+", ")", EndOfTextSymbol}},
		{"F", []string{"+", "*", ")", EndOfTextSymbol}},
	}

	for _, tc := range testCases {
		t.Run(tc.sym, func(t *testing.T) {
			actual := g.FOLLOW(tc.sym)
			assert.Equal(t, len(tc.expected), actual.Len(), "FOLLOW(%s) = %s", tc.sym, actual.StringOrdered())
			for _, exp := range tc.expected {
				assert.True(t, actual.Has(exp), "FOLLOW(%s) missing %q; got %s", tc.sym, exp, actual.StringOrdered())
			}
		})
	}
}

func Test_Grammar_LLParseTable_noConflicts(t *testing.T) {
	g := exprGrammar()
	table, err := g.LLParseTable()
	require.NoError(t, err)

	assert.Equal(t, Production{"F", "T'"}, table.Get("T", "id"))
	assert.Equal(t, Production{"F", "T'"}, table.Get("T", "("))
	assert.Equal(t, Epsilon, table.Get("T'", ")"))
	assert.Equal(t, Error, table.Get("T'", "id"))
}

func Test_Grammar_LLParseTable_conflict(t *testing.T) {
	g := New()
	g.AddTerm("a", term("a"))
	// ambiguous: both alternatives predict on "a"
	g.AddRule("S", Production{"a"})
	g.AddRule("S", Production{"a", "a"})
	g.SetStartSymbol("S")

	_, err := g.LLParseTable()
	assert.Error(t, err)
}

func Test_Grammar_Augmented(t *testing.T) {
	g := exprGrammar()
	aug := g.Augmented()

	assert.Equal(t, AugmentedStartSymbol, aug.StartSymbol())
	r := aug.Rule(AugmentedStartSymbol)
	require.Len(t, r.Productions, 1)
	assert.Equal(t, Production{"E", EndOfTextSymbol}, r.Productions[0])
	assert.True(t, aug.IsTerminal(EndOfTextSymbol))
}

func Test_Grammar_LR0Items(t *testing.T) {
	g := New()
	g.AddTerm("id", term("id"))
	g.AddRule("S", Production{"id"})
	g.SetStartSymbol("S")

	items := g.LR0Items()
	require.Len(t, items, 2)
	assert.Equal(t, "S -> . id", items[0].String())
	assert.Equal(t, "S -> id .", items[1].String())
}

func Test_LR0Item_ParseAndString_roundTrip(t *testing.T) {
	s := "S -> id ."
	item := MustParseLR0Item(s)
	assert.Equal(t, s, item.String())
}
