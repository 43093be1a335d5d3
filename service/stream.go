package service

import (
	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/types"
)

// TokenSpec is one token of a request's pre-tokenized input: the HTTP front
// end operates on grammars assembled via the Go API rather than a grammar
// DSL, so callers submit already-lexed tokens instead of raw source text.
type TokenSpec struct {
	Class  string `json:"class"`
	Lexeme string `json:"lexeme"`
}

type tokenSpecStream struct {
	toks []types.Token
	pos  int
}

// newTokenSpecStream builds a types.TokenStream from specs, appending a
// synthetic end-of-text token.
func newTokenSpecStream(specs []TokenSpec) types.TokenStream {
	toks := make([]types.Token, 0, len(specs)+1)
	offset := 0
	for i, sp := range specs {
		start := offset
		offset += len(sp.Lexeme)
		toks = append(toks, types.NewToken(types.MakeDefaultClass(sp.Class), sp.Lexeme, sp.Lexeme, i+1, 1, start, offset))
	}
	toks = append(toks, types.NewToken(types.TokenEndOfText, "", "", len(specs)+1, 1, offset, offset))
	return &tokenSpecStream{toks: toks}
}

func (s *tokenSpecStream) Next() types.Token {
	t := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return t
}

func (s *tokenSpecStream) Peek() types.Token {
	return s.toks[s.pos]
}

func (s *tokenSpecStream) HasNext() bool {
	return s.toks[s.pos].Class().ID() != grammar.EndOfTextSymbol
}
