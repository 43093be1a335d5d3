package parse

import (
	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/types"
)

func term(id string) types.TokenClass {
	return types.MakeDefaultClass(id)
}

// exprGrammar is the classic left-factored expression grammar:
//
//	E  -> T E'
//	E' -> + T E' | ε
//	T  -> F T'
//	T' -> * F T' | ε
//	F  -> ( E ) | id
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

// fakeStream is a fixed, in-memory types.TokenStream built from a slice of
// (class, lexeme) pairs, terminated by an implicit end-of-text token.
type fakeStream struct {
	toks []types.Token
	pos  int
}

func newFakeStream(pairs ...[2]string) *fakeStream {
	var toks []types.Token
	pos := 0
	for i, pr := range pairs {
		start := pos
		pos += len(pr[1])
		toks = append(toks, types.NewToken(term(pr[0]), pr[1], pr[1], i+1, 1, start, pos))
	}
	toks = append(toks, types.NewToken(types.TokenEndOfText, "", "", len(pairs)+1, 1, pos, pos))
	return &fakeStream{toks: toks}
}

func (s *fakeStream) Next() types.Token {
	t := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return t
}

func (s *fakeStream) Peek() types.Token {
	return s.toks[s.pos]
}

func (s *fakeStream) HasNext() bool {
	return s.pos < len(s.toks)-1
}
