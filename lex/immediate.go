package lex

import "github.com/dekarrin/parsegen/types"

// immediateTokenStream is the types.TokenStream returned by
// Lexer.ImmediatelyLex: the entire input has already been scanned into a
// slice, so Next/Peek/HasNext are just index bookkeeping.
type immediateTokenStream struct {
	tokens []types.Token
	cur    int
}

func (s *immediateTokenStream) Next() types.Token {
	t := s.tokens[s.cur]
	if s.cur < len(s.tokens)-1 {
		s.cur++
	}
	return t
}

func (s *immediateTokenStream) Peek() types.Token {
	return s.tokens[s.cur]
}

func (s *immediateTokenStream) HasNext() bool {
	return s.cur < len(s.tokens)-1
}
