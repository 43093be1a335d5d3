package parse

import (
	"github.com/dekarrin/parsegen/automaton"
	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/pgutil"
	"github.com/dekarrin/parsegen/types"
)

type dfaLR0Set = pgutil.SVSet[grammar.LR0Item]
type dfaLR1Set = pgutil.SVSet[grammar.LR1Item]

// options configure an LR table build.
type options struct {
	precedence     PrecedenceTable
	allowAmbiguous bool
	trace          func(string)
	handlers       *Handlers
}

// Option configures table construction and the resulting driver.
type Option func(*options)

// WithPrecedence supplies operator precedence/associativity declarations
// used to resolve shift/reduce conflicts.
func WithPrecedence(pt PrecedenceTable) Option {
	return func(o *options) { o.precedence = pt }
}

// WithAmbiguityAllowed causes any shift/reduce conflict left unresolved by
// precedence to be resolved in favor of shift (with a returned warning)
// instead of failing table construction.
func WithAmbiguityAllowed() Option {
	return func(o *options) { o.allowAmbiguous = true }
}

// WithTrace registers a callback invoked with a description of every shift,
// reduce, and goto the driver performs.
func WithTrace(fn func(string)) Option {
	return func(o *options) { o.trace = fn }
}

// WithHandlers binds semantic actions to productions; once a parse is
// accepted, the resulting parser computes each production's synthesized
// value bottom-up over the parse tree, available as that node's Attr.
func WithHandlers(h *Handlers) Option {
	return func(o *options) { o.handlers = h }
}

func applyOptions(opts []Option) options {
	o := options{precedence: NewPrecedenceTable()}
	for _, f := range opts {
		f(&o)
	}
	return o
}

// NewLR0Parser builds a plain LR(0) parser: reduce actions are taken
// unconditionally from any completed item, with no lookahead consulted.
// Table construction fails if a state has a completed item alongside a
// possible shift, unless declared precedence or WithAmbiguityAllowed
// resolves it. A state with more than one completed item is resolved in
// favor of the lower-numbered production, with a returned warning.
func NewLR0Parser(g grammar.Grammar, opts ...Option) (*LRParser, []string, error) {
	o := applyOptions(opts)
	dfa := automaton.NewLR0ViablePrefixDFA(g)
	t, warnings, err := buildFromLR0(types.ParserLR0, g, dfa, o.precedence, o.allowAmbiguous, false)
	if err != nil {
		return nil, warnings, err
	}
	return &LRParser{table: t, g: g, trace: o.trace, handlers: o.handlers}, warnings, nil
}

// NewSLRParser builds an SLR(1) parser: reduce actions from a completed
// item for non-terminal A are taken on every terminal in FOLLOW(A).
func NewSLRParser(g grammar.Grammar, opts ...Option) (*LRParser, []string, error) {
	o := applyOptions(opts)
	dfa := automaton.NewLR0ViablePrefixDFA(g)
	t, warnings, err := buildFromLR0(types.ParserSLR1, g, dfa, o.precedence, o.allowAmbiguous, true)
	if err != nil {
		return nil, warnings, err
	}
	return &LRParser{table: t, g: g, trace: o.trace, handlers: o.handlers}, warnings, nil
}

// NewCLR1Parser builds a canonical LR(1) parser from the full (unmerged)
// LR(1) collection.
func NewCLR1Parser(g grammar.Grammar, opts ...Option) (*LRParser, []string, error) {
	o := applyOptions(opts)
	dfa := automaton.NewLR1ViablePrefixDFA(g)
	t, warnings, err := buildFromLR1(types.ParserCLR1, g, dfa, o.precedence, o.allowAmbiguous)
	if err != nil {
		return nil, warnings, err
	}
	return &LRParser{table: t, g: g, trace: o.trace, handlers: o.handlers}, warnings, nil
}

// NewLALR1Parser builds an LALR(1) parser using the by-CLR merge strategy
// (see automaton.NewLALR1ViablePrefixDFA).
func NewLALR1Parser(g grammar.Grammar, opts ...Option) (*LRParser, []string, error) {
	o := applyOptions(opts)
	dfa, err := automaton.NewLALR1ViablePrefixDFA(g)
	if err != nil {
		return nil, nil, err
	}
	t, warnings, err := buildFromLR1(types.ParserLALR1, g, dfa, o.precedence, o.allowAmbiguous)
	if err != nil {
		return nil, warnings, err
	}
	return &LRParser{table: t, g: g, trace: o.trace, handlers: o.handlers}, warnings, nil
}
