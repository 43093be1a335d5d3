package main

import (
	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/types"
)

// exampleGrammar is the bundled sample grammar the build/dump/parse/repl
// subcommands operate on when the user doesn't name one of their own: the
// classic left-factored arithmetic expression grammar.
//
//	E  -> T E'
//	E' -> + T E' | ε
//	T  -> F T'
//	T' -> * F T' | ε
//	F  -> ( E ) | id
func exampleGrammar() grammar.Grammar {
	g := grammar.New()
	g.AddTerm("+", types.MakeDefaultClass("+"))
	g.AddTerm("*", types.MakeDefaultClass("*"))
	g.AddTerm("(", types.MakeDefaultClass("("))
	g.AddTerm(")", types.MakeDefaultClass(")"))
	g.AddTerm("id", types.MakeDefaultClass("id"))

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
