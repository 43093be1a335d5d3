// Package grammar implements the data model and set/table construction
// algorithms that the automaton and parse packages build on: symbols,
// productions, rules, a Grammar type with validation and augmentation, the
// FIRST/FOLLOW/PREDICT sets engine, LR(0)/LR(1) item closures and gotos, and
// LL(1) parse table construction.
package grammar

import (
	"fmt"
	"sort"

	"github.com/dekarrin/parsegen/internal/pgutil"
	"github.com/dekarrin/parsegen/perr"
	"github.com/dekarrin/parsegen/types"
)

// Production is the right-hand side of a grammar rule alternative: an
// ordered sequence of terminal and non-terminal symbols. Production{""} (the
// value of Epsilon) denotes the empty string.
type Production []string

// Equal returns whether p and o name the same sequence of symbols.
func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasEpsilon returns whether p is the epsilon production.
func (p Production) HasEpsilon() bool {
	return len(p) == 1 && p[0] == Epsilon[0]
}

func (p Production) String() string {
	if p.HasEpsilon() {
		return "ε"
	}
	s := ""
	for i, sym := range p {
		if i > 0 {
			s += " "
		}
		s += sym
	}
	return s
}

// Rule is a non-terminal together with all of its alternative productions.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a deep copy of r.
func (r Rule) Copy() Rule {
	n := Rule{NonTerminal: r.NonTerminal}
	n.Productions = make([]Production, len(r.Productions))
	for i, p := range r.Productions {
		n.Productions[i] = append(Production{}, p...)
	}
	return n
}

const (
	// AugmentedStartSymbol is the synthetic start non-terminal introduced by
	// Augmented.
	AugmentedStartSymbol = "$accept"

	// EndOfTextSymbol is the synthetic lookahead terminal representing the
	// end of the token stream, introduced by Augmented.
	EndOfTextSymbol = "$"
)

// Grammar holds a context-free grammar: a set of terminals (each associated
// with a types.TokenClass), a set of non-terminal rules, and a designated
// start symbol.
//
// The FIRST and FOLLOW sets are computed lazily and cached the first time
// they are asked for; any mutation to the grammar (AddRule, AddTerm,
// SetStartSymbol) invalidates the cache so it is recomputed on next use.
type Grammar struct {
	rules     map[string]Rule
	ruleOrder []string
	terms     map[string]types.TokenClass
	termOrder []string
	start     string

	firsts  map[string]pgutil.StringSet
	follows map[string]pgutil.StringSet
}

// New returns an empty, ready-to-use Grammar.
func New() Grammar {
	return Grammar{
		rules: map[string]Rule{},
		terms: map[string]types.TokenClass{},
	}
}

func (g *Grammar) invalidateCaches() {
	g.firsts = nil
	g.follows = nil
}

// AddTerm registers a terminal symbol with the given ID and token class. The
// ID is the symbol's name as it will appear in productions.
func (g *Grammar) AddTerm(id string, class types.TokenClass) {
	if g.terms == nil {
		g.terms = map[string]types.TokenClass{}
	}
	if _, ok := g.terms[id]; !ok {
		g.termOrder = append(g.termOrder, id)
	}
	g.terms[id] = class
	g.invalidateCaches()
}

// AddRule adds one production alternative for the given non-terminal,
// creating the Rule if this is the first alternative seen for it.
func (g *Grammar) AddRule(nonTerminal string, prod Production) {
	if g.rules == nil {
		g.rules = map[string]Rule{}
	}
	r, ok := g.rules[nonTerminal]
	if !ok {
		r = Rule{NonTerminal: nonTerminal}
		g.ruleOrder = append(g.ruleOrder, nonTerminal)
	}
	r.Productions = append(r.Productions, prod)
	g.rules[nonTerminal] = r
	g.invalidateCaches()
}

// Rule returns the Rule for the given non-terminal. The zero Rule is
// returned if it does not exist.
func (g Grammar) Rule(nonTerminal string) Rule {
	return g.rules[nonTerminal]
}

// HasRule returns whether nonTerminal has at least one production defined.
func (g Grammar) HasRule(nonTerminal string) bool {
	_, ok := g.rules[nonTerminal]
	return ok
}

// SetStartSymbol sets the grammar's start non-terminal.
func (g *Grammar) SetStartSymbol(s string) {
	g.start = s
	g.invalidateCaches()
}

// StartSymbol returns the grammar's start non-terminal.
func (g Grammar) StartSymbol() string {
	return g.start
}

// Term returns the token class registered for terminal id, and whether it
// was found.
func (g Grammar) Term(id string) (types.TokenClass, bool) {
	c, ok := g.terms[id]
	return c, ok
}

// IsTerminal returns whether sym is a registered terminal, the epsilon
// marker, or the end-of-text symbol. Everything else is treated as a
// non-terminal reference (whether or not it has a Rule defined; Validate is
// what catches dangling references).
func (g Grammar) IsTerminal(sym string) bool {
	if sym == Epsilon[0] || sym == EndOfTextSymbol {
		return true
	}
	_, ok := g.terms[sym]
	return ok
}

// Terminals returns the IDs of all registered terminals, sorted.
func (g Grammar) Terminals() []string {
	ids := make([]string, 0, len(g.terms))
	for id := range g.terms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NonTerminals returns the names of all non-terminals with at least one
// rule, sorted.
func (g Grammar) NonTerminals() []string {
	names := make([]string, 0, len(g.rules))
	for name := range g.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateUniqueTerminal returns a terminal ID starting with prefix that is
// not already in use as a terminal or non-terminal name in g. It is used
// when a synthetic symbol (such as an augmented start symbol) must be
// introduced without colliding with user-defined ones.
func (g Grammar) GenerateUniqueTerminal(prefix string) string {
	candidate := prefix
	n := 0
	for g.IsTerminal(candidate) || g.HasRule(candidate) {
		n++
		candidate = fmt.Sprintf("%s%d", prefix, n)
	}
	return candidate
}

// Copy returns a deep copy of g.
func (g Grammar) Copy() Grammar {
	n := New()
	n.start = g.start
	for _, id := range g.termOrder {
		n.AddTerm(id, g.terms[id])
	}
	for _, name := range g.ruleOrder {
		r := g.rules[name]
		for _, p := range r.Productions {
			n.AddRule(name, append(Production{}, p...))
		}
	}
	return n
}

// Augmented returns a copy of g with a synthetic start rule
// "$accept -> S $" added, where S is g's original start symbol and $ is the
// end-of-text terminal. This is the form required for canonical-collection
// construction (the dot must be able to advance past the "real" start
// symbol and see end-of-input to know when to accept).
func (g Grammar) Augmented() Grammar {
	n := g.Copy()
	accept := AugmentedStartSymbol
	for n.HasRule(accept) || n.IsTerminal(accept) {
		accept = accept + "'"
	}
	n.AddTerm(EndOfTextSymbol, types.TokenEndOfText)
	n.AddRule(accept, Production{g.start, EndOfTextSymbol})
	n.SetStartSymbol(accept)
	return n
}

// Validate checks that the grammar is well-formed: a start symbol is set and
// has at least one rule, every non-terminal referenced in a production has
// a rule defined for it, and every non-terminal is reachable from the start
// symbol.
func (g Grammar) Validate() error {
	if g.start == "" {
		return perr.New("grammar has no start symbol set", perr.ErrGrammar)
	}
	if !g.HasRule(g.start) {
		return perr.New(fmt.Sprintf("start symbol %q has no productions", g.start), perr.ErrGrammar)
	}

	for _, name := range g.ruleOrder {
		r := g.rules[name]
		if len(r.Productions) == 0 {
			return perr.New(fmt.Sprintf("non-terminal %q has no productions", name), perr.ErrGrammar)
		}
		for _, p := range r.Productions {
			if p.HasEpsilon() {
				continue
			}
			for _, sym := range p {
				if g.IsTerminal(sym) {
					continue
				}
				if !g.HasRule(sym) {
					return perr.New(fmt.Sprintf("non-terminal %q references undefined symbol %q", name, sym), perr.ErrGrammar)
				}
			}
		}
	}

	reachable := pgutil.StringSet{}
	var visit func(nt string)
	visit = func(nt string) {
		if reachable.Has(nt) {
			return
		}
		reachable.Add(nt)
		for _, p := range g.rules[nt].Productions {
			for _, sym := range p {
				if !g.IsTerminal(sym) && g.HasRule(sym) {
					visit(sym)
				}
			}
		}
	}
	visit(g.start)
	for _, name := range g.ruleOrder {
		if !reachable.Has(name) {
			return perr.New(fmt.Sprintf("non-terminal %q is unreachable from start symbol %q", name, g.start), perr.ErrGrammar)
		}
	}

	return nil
}
