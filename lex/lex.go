// Package lex implements a regex-driven, state-stack tokenizer: a set of
// (pattern, action) rules grouped by "start condition" (flex terminology),
// with actions that can scan a token, discard the lexeme, and/or change the
// active start condition. Conditions form a stack rather than a single
// current value, so one condition can be entered with Push and exited with
// a plain Pop without needing to remember what was active before — the
// stack never pops below its initial condition.
package lex

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dekarrin/parsegen/types"
)

// InitialCondition is the start condition every lexer begins in, and the
// floor of the start-condition stack: Pop never removes it.
const InitialCondition = "INITIAL"

type patAct struct {
	src string
	pat *regexp.Regexp
	act Action
}

// Lexer holds the compiled pattern/action rules for a tokenizer. It is a
// template: Lex may be called any number of times, each producing an
// independent types.TokenStream over its own input.
type Lexer struct {
	patterns map[string][]patAct
	classes  map[string]map[string]types.TokenClass
}

// NewLexer returns an empty Lexer with no patterns or classes defined.
func NewLexer() *Lexer {
	return &Lexer{
		patterns: map[string][]patAct{},
		classes:  map[string]map[string]types.TokenClass{},
	}
}

// AddClass registers a token class as usable by LexAs/LexAndBegin/etc.
// actions attached to patterns in the given start condition.
func (lx *Lexer) AddClass(cl types.TokenClass, forState string) {
	forState = foldKey(forState)
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]types.TokenClass{}
	}
	stateClasses[foldKey(cl.ID())] = cl
	lx.classes[forState] = stateClasses
}

// AddPattern compiles pat as a Go regexp and registers it, with action, to
// fire in the given start condition. Patterns within a condition are tried
// in the order added, and the earliest-added pattern that matches wins, even
// if a later pattern would match a longer lexeme.
func (lx *Lexer) AddPattern(pat string, action Action, forState string) error {
	forState = foldKey(forState)

	compiled, err := regexp.Compile(pat)
	if err != nil {
		return fmt.Errorf("compiling pattern %q: %w", pat, err)
	}

	if action.Type == ActionScan || action.Type == ActionScanAndBegin || action.Type == ActionScanAndPush || action.Type == ActionScanAndPop {
		if _, ok := lx.classes[forState][action.ClassID]; !ok {
			return fmt.Errorf("%q is not a defined token class in state %q; call AddClass first", action.ClassID, forState)
		}
	}
	if action.Type == ActionBegin || action.Type == ActionScanAndBegin || action.Type == ActionPush || action.Type == ActionScanAndPush {
		if action.State == "" {
			return fmt.Errorf("action changes start condition but does not name one to change to")
		}
	}

	lx.patterns[forState] = append(lx.patterns[forState], patAct{src: pat, pat: compiled, act: action})
	return nil
}

// Lex builds a lazy types.TokenStream over input: tokens are produced one at
// a time as the stream is read, not all up front.
func (lx *Lexer) Lex(input io.Reader) (types.TokenStream, error) {
	active := &lazyLex{
		r:        newRegexReader(input),
		patterns: map[string]*regexp.Regexp{},
		actions:  map[string][]Action{},
		classes:  map[string]map[string]types.TokenClass{},
		stack:    []string{foldKey(InitialCondition)},
		curLine:  1,
		curPos:   1,
	}

	for state, acts := range lx.patterns {
		var superPattern strings.Builder
		superPattern.WriteString("^(?:")
		stateActions := make([]Action, len(acts))
		for i, pa := range acts {
			superPattern.WriteString("(" + pa.src + ")")
			if i+1 < len(acts) {
				superPattern.WriteRune('|')
			}
			stateActions[i] = pa.act
		}
		superPattern.WriteRune(')')

		compiled, err := regexp.Compile(superPattern.String())
		if err != nil {
			return nil, fmt.Errorf("composing patterns for state %q: %w", state, err)
		}
		active.patterns[state] = compiled
		active.actions[state] = stateActions
	}

	for state, classes := range lx.classes {
		stateClasses := make(map[string]types.TokenClass, len(classes))
		for id, cl := range classes {
			stateClasses[id] = cl
		}
		active.classes[state] = stateClasses
	}

	return active, nil
}

// ImmediatelyLex runs Lex, then eagerly drains the resulting stream into an
// in-memory slice, returning a lexical error immediately instead of
// embedding it as a types.TokenError token in the stream.
func (lx *Lexer) ImmediatelyLex(input io.Reader) (types.TokenStream, error) {
	lazyCore, err := lx.Lex(input)
	if err != nil {
		return nil, err
	}

	var toks []types.Token
	for lazyCore.HasNext() {
		next := lazyCore.Next()
		if next.Class().ID() == types.TokenError.ID() {
			return nil, fmt.Errorf("lexical error at line %d, col %d: %s", next.Line(), next.LinePos(), next.Lexeme())
		}
		toks = append(toks, next)
	}
	toks = append(toks, lazyCore.Next())

	return &immediateTokenStream{tokens: toks}, nil
}
