// Package parse builds LR(0)/SLR(1)/CLR(1)/LALR(1) and LL(1) parse tables
// from a grammar.Grammar and drives them over a types.TokenStream to produce
// a types.ParseTree.
package parse

import (
	"fmt"

	"github.com/dekarrin/parsegen/grammar"
)

// LRActionType identifies what an LRAction does.
type LRActionType int

const (
	LRError LRActionType = iota
	LRShift
	LRReduce
	LRAccept
)

func (t LRActionType) String() string {
	switch t {
	case LRShift:
		return "shift"
	case LRReduce:
		return "reduce"
	case LRAccept:
		return "accept"
	default:
		return "error"
	}
}

// LRAction is a single cell of an LR parse table's ACTION function.
type LRAction struct {
	Type       LRActionType
	State      string           // target state, for LRShift
	Production grammar.Production // reduced production, for LRReduce
	NonTerminal string          // LHS of the reduced production, for LRReduce
}

func (a LRAction) String() string {
	switch a.Type {
	case LRShift:
		return fmt.Sprintf("shift %s", a.State)
	case LRReduce:
		return fmt.Sprintf("reduce %s -> %s", a.NonTerminal, a.Production.String())
	case LRAccept:
		return "accept"
	default:
		return "error"
	}
}

// Equal returns whether a and o describe the same action.
func (a LRAction) Equal(o LRAction) bool {
	if a.Type != o.Type {
		return false
	}
	switch a.Type {
	case LRShift:
		return a.State == o.State
	case LRReduce:
		return a.NonTerminal == o.NonTerminal && a.Production.Equal(o.Production)
	default:
		return true
	}
}

// Associativity describes how a terminal used as an operator associates,
// for resolving shift/reduce conflicts between equal-precedence operators.
type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

// PrecedenceTable assigns a precedence level and associativity to operator
// terminals, and optionally overrides which terminal governs a specific
// production's precedence (the conventional "last terminal in the RHS"
// default, as used by yacc-family tools, applies when no override is set).
type PrecedenceTable struct {
	Level         map[string]int
	Assoc         map[string]Associativity
	ProductionSym map[string]string // production.String() -> terminal
}

// NewPrecedenceTable returns an empty, ready-to-use PrecedenceTable.
func NewPrecedenceTable() PrecedenceTable {
	return PrecedenceTable{
		Level:         map[string]int{},
		Assoc:         map[string]Associativity{},
		ProductionSym: map[string]string{},
	}
}

// SetLeft declares term as left-associative at the given precedence level.
// Higher levels bind tighter.
func (pt PrecedenceTable) SetLeft(term string, level int) {
	pt.Level[term] = level
	pt.Assoc[term] = AssocLeft
}

// SetRight declares term as right-associative at the given precedence
// level.
func (pt PrecedenceTable) SetRight(term string, level int) {
	pt.Level[term] = level
	pt.Assoc[term] = AssocRight
}

// SetNonAssoc declares term as non-associative at the given precedence
// level: a chain of two uses of term at the same level is a syntax error
// rather than being resolved by shifting or reducing.
func (pt PrecedenceTable) SetNonAssoc(term string, level int) {
	pt.Level[term] = level
	pt.Assoc[term] = AssocNone
}

func (pt PrecedenceTable) ruleTerm(g grammar.Grammar, nt string, p grammar.Production) (string, bool) {
	if override, ok := pt.ProductionSym[p.String()]; ok {
		return override, true
	}
	for i := len(p) - 1; i >= 0; i-- {
		if _, hasLevel := pt.Level[p[i]]; hasLevel && g.IsTerminal(p[i]) {
			return p[i], true
		}
	}
	return "", false
}

// resolution describes the outcome of resolving a shift/reduce conflict.
type resolution int

const (
	resUnresolved resolution = iota
	resShift
	resReduce
	resSyntaxError // non-associative operator used without parens
)

// resolveShiftReduce decides between shifting on lookahead term and reducing
// by (nt -> p), using pt if given (pt may be the zero PrecedenceTable, in
// which case every conflict is reported unresolved).
func resolveShiftReduce(g grammar.Grammar, pt PrecedenceTable, term string, nt string, p grammar.Production) resolution {
	shiftLevel, hasShift := pt.Level[term]
	if !hasShift {
		return resUnresolved
	}
	ruleTerm, ok := pt.ruleTerm(g, nt, p)
	if !ok {
		return resUnresolved
	}
	reduceLevel := pt.Level[ruleTerm]

	if shiftLevel > reduceLevel {
		return resShift
	}
	if shiftLevel < reduceLevel {
		return resReduce
	}

	switch pt.Assoc[term] {
	case AssocLeft:
		return resReduce
	case AssocRight:
		return resShift
	default:
		return resSyntaxError
	}
}

// conflictMessage renders a human-readable description of an unresolved
// conflict between two actions on the same input, in the style used for
// perr.ErrConflict errors raised during table construction.
func conflictMessage(state, input string, a, b LRAction) string {
	describe := func(act LRAction) string {
		switch act.Type {
		case LRShift:
			return fmt.Sprintf("shift to state %s", act.State)
		case LRReduce:
			return fmt.Sprintf("reduce by %s -> %s", act.NonTerminal, act.Production.String())
		case LRAccept:
			return "accept"
		default:
			return "error"
		}
	}
	return fmt.Sprintf("conflict in state %s on input %q: both %s and %s apply", state, input, describe(a), describe(b))
}
