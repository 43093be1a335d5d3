package main

import (
	"github.com/dekarrin/parsegen/lex"
	"github.com/dekarrin/parsegen/types"
)

// exampleLexer tokenizes input for exampleGrammar: integers and identifiers
// both lex as "id", the four operator/grouping characters lex as
// themselves, and whitespace is discarded.
func exampleLexer() *lex.Lexer {
	lx := lex.NewLexer()
	for _, term := range []string{"+", "*", "(", ")", "id"} {
		lx.AddClass(types.MakeDefaultClass(term), lex.InitialCondition)
	}

	must(lx.AddPattern(`[0-9]+|[A-Za-z_][A-Za-z0-9_]*`, lex.LexAs("id"), lex.InitialCondition))
	must(lx.AddPattern(`\+`, lex.LexAs("+"), lex.InitialCondition))
	must(lx.AddPattern(`\*`, lex.LexAs("*"), lex.InitialCondition))
	must(lx.AddPattern(`\(`, lex.LexAs("("), lex.InitialCondition))
	must(lx.AddPattern(`\)`, lex.LexAs(")"), lex.InitialCondition))
	must(lx.AddPattern(`\s+`, lex.Discard(), lex.InitialCondition))

	return lx
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
