// Package service exposes a parsegen-backed HTTP front end: admin endpoints
// to assemble and cache a grammar's parse table, and a public endpoint to
// run a parse against one, grounded on the teacher's server/api/result/
// middle trio (simplified to this toolkit's smaller surface).
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/parsegen/cache"
	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/parse"
	"github.com/dekarrin/parsegen/types"
)

// TerminalSpec describes one terminal symbol of a submitted grammar.
type TerminalSpec struct {
	ID string `json:"id"`
}

// RuleSpec describes one production alternative for a non-terminal. An
// empty Body means the epsilon production.
type RuleSpec struct {
	NonTerminal string   `json:"nonTerminal"`
	Body        []string `json:"body"`
}

// GrammarRequest is the body of POST /grammars: enough to assemble a
// grammar.Grammar through its builder methods and construct a table for it.
type GrammarRequest struct {
	Name        string         `json:"name"`
	ParserType  string         `json:"parserType"` // LL1, LR0, SLR1, CLR1, LALR1
	Terminals   []TerminalSpec `json:"terminals"`
	Rules       []RuleSpec     `json:"rules"`
	StartSymbol string         `json:"startSymbol"`
}

// builtGrammar is what the in-memory registry keeps per cached name: the
// live grammar plus whichever driver was built for it, ready to parse
// without hitting the cache store again.
type builtGrammar struct {
	grammar    grammar.Grammar
	parserType string
	ll1        *parse.LL1Parser
	lr         *parse.LRParser
	warnings   []string
}

// Service holds everything needed to answer HTTP requests: the persistent
// table cache, JWT signing secret, and an in-memory registry of grammars
// built this process's lifetime (a WireTable is good for inspection and
// transport, but a live driver is always rebuilt from the grammar it names,
// see serialize.DecodeLRTable's doc comment).
type Service struct {
	store       *cache.Store
	jwtSecret   []byte
	unauthDelay time.Duration
	logFn       func(string)

	mu       sync.RWMutex
	registry map[string]*builtGrammar
}

// New builds a Service backed by store, signing tokens with secret.
func New(store *cache.Store, secret []byte) *Service {
	return &Service{
		store:       store,
		jwtSecret:   secret,
		unauthDelay: time.Second,
		registry:    map[string]*builtGrammar{},
	}
}

// SetLogger installs a logging callback invoked once per request with a
// one-line summary.
func (s *Service) SetLogger(fn func(string)) { s.logFn = fn }

func buildGrammar(req GrammarRequest) (grammar.Grammar, error) {
	g := grammar.New()
	for _, term := range req.Terminals {
		g.AddTerm(term.ID, types.MakeDefaultClass(term.ID))
	}
	for _, rule := range req.Rules {
		body := grammar.Production(rule.Body)
		if len(body) == 0 {
			body = grammar.Epsilon
		}
		g.AddRule(rule.NonTerminal, body)
	}
	g.SetStartSymbol(req.StartSymbol)
	if err := g.Validate(); err != nil {
		return grammar.Grammar{}, err
	}
	return g, nil
}

// Build assembles req into a grammar, constructs the requested parser, and
// stores both the live driver (in-memory, for this process) and its
// serialized table (in the sqlite cache, for inspection) under req.Name.
func (s *Service) Build(ctx context.Context, req GrammarRequest) ([]string, error) {
	g, err := buildGrammar(req)
	if err != nil {
		return nil, fmt.Errorf("invalid grammar: %w", err)
	}

	bg := &builtGrammar{grammar: g, parserType: req.ParserType}
	var warnings []string

	switch req.ParserType {
	case "LL1", "":
		p, err := parse.NewLL1Parser(g)
		if err != nil {
			return nil, err
		}
		bg.ll1 = p
		bg.parserType = "LL1"

		table, err := g.LLParseTable()
		if err != nil {
			return nil, err
		}
		if err := s.store.PutLL1Table(ctx, req.Name, cache.HashGrammar(g), g, table, nil); err != nil {
			return nil, fmt.Errorf("cache table: %w", err)
		}
	case "LR0":
		p, w, err := parse.NewLR0Parser(g)
		if err != nil {
			return nil, err
		}
		bg.lr, warnings = p, w
		if err := s.store.PutLRTable(ctx, req.Name, cache.HashGrammar(g), g, p.Table(), nil); err != nil {
			return nil, fmt.Errorf("cache table: %w", err)
		}
	case "SLR1":
		p, w, err := parse.NewSLRParser(g)
		if err != nil {
			return nil, err
		}
		bg.lr, warnings = p, w
		if err := s.store.PutLRTable(ctx, req.Name, cache.HashGrammar(g), g, p.Table(), nil); err != nil {
			return nil, fmt.Errorf("cache table: %w", err)
		}
	case "CLR1":
		p, w, err := parse.NewCLR1Parser(g)
		if err != nil {
			return nil, err
		}
		bg.lr, warnings = p, w
		if err := s.store.PutLRTable(ctx, req.Name, cache.HashGrammar(g), g, p.Table(), nil); err != nil {
			return nil, fmt.Errorf("cache table: %w", err)
		}
	case "LALR1":
		p, w, err := parse.NewLALR1Parser(g)
		if err != nil {
			return nil, err
		}
		bg.lr, warnings = p, w
		if err := s.store.PutLRTable(ctx, req.Name, cache.HashGrammar(g), g, p.Table(), nil); err != nil {
			return nil, fmt.Errorf("cache table: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown parser type %q", req.ParserType)
	}

	bg.warnings = warnings

	s.mu.Lock()
	s.registry[req.Name] = bg
	s.mu.Unlock()

	return warnings, nil
}

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Grammar string      `json:"grammar"`
	Tokens  []TokenSpec `json:"tokens"`
}

// ParseResult mirrors the {status, value} result envelope of a single parse
// attempt: Status is "accepted" or "rejected", Tree is present only when
// accepted.
type ParseResult struct {
	Status string           `json:"status"`
	Tree   *types.ParseTree `json:"tree,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Parse runs req.Tokens against the named, previously-Built grammar.
func (s *Service) Parse(req ParseRequest) (ParseResult, error) {
	s.mu.RLock()
	bg, ok := s.registry[req.Grammar]
	s.mu.RUnlock()
	if !ok {
		return ParseResult{}, fmt.Errorf("no grammar named %q has been built in this process", req.Grammar)
	}

	stream := newTokenSpecStream(req.Tokens)

	var tree types.ParseTree
	var err error
	if bg.ll1 != nil {
		tree, err = bg.ll1.Parse(stream)
	} else {
		tree, err = bg.lr.Parse(stream)
	}

	if err != nil {
		return ParseResult{Status: "rejected", Error: err.Error()}, nil
	}
	return ParseResult{Status: "accepted", Tree: &tree}, nil
}

// Table returns the cached wire table for name.
func (s *Service) Table(ctx context.Context, name string) (*cache.Entry, error) {
	s.mu.RLock()
	bg, ok := s.registry[name]
	s.mu.RUnlock()
	hash := ""
	if ok {
		hash = cache.HashGrammar(bg.grammar)
	}

	entry, err := s.store.Get(ctx, name, hash)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
