package parse

import (
	"testing"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_PrecedenceTable_resolveShiftReduce(t *testing.T) {
	g := exprGrammar()
	pt := NewPrecedenceTable()
	pt.SetLeft("+", 1)
	pt.SetLeft("*", 2)

	// An empty precedence table declares no levels, so nothing is resolved.
	assert.Equal(t, resUnresolved, resolveShiftReduce(g, NewPrecedenceTable(), "+", "E'", grammar.Epsilon))

	// '+' has a level, but the production it would compete with has none.
	pt2 := NewPrecedenceTable()
	pt2.SetLeft("+", 1)
	res := resolveShiftReduce(g, pt2, "+", "T", grammar.Production{"F", "T'"})
	assert.Equal(t, resUnresolved, res) // "F T'" has no declared-precedence terminal, so still unresolved
}

func Test_PrecedenceTable_associativityRules(t *testing.T) {
	g := exprGrammar()
	pt := NewPrecedenceTable()
	pt.SetLeft("+", 1)
	pt.ProductionSym[grammar.Production{"+", "T", "E'"}.String()] = "+"

	assert.Equal(t, resReduce, resolveShiftReduce(g, pt, "+", "E'", grammar.Production{"+", "T", "E'"}))

	ptRight := NewPrecedenceTable()
	ptRight.SetRight("+", 1)
	ptRight.ProductionSym[grammar.Production{"+", "T", "E'"}.String()] = "+"
	assert.Equal(t, resShift, resolveShiftReduce(g, ptRight, "+", "E'", grammar.Production{"+", "T", "E'"}))

	ptNon := NewPrecedenceTable()
	ptNon.SetNonAssoc("+", 1)
	ptNon.ProductionSym[grammar.Production{"+", "T", "E'"}.String()] = "+"
	assert.Equal(t, resSyntaxError, resolveShiftReduce(g, ptNon, "+", "E'", grammar.Production{"+", "T", "E'"}))
}
