package main

import (
	"strconv"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/parse"
	"github.com/dekarrin/parsegen/types"
)

// exampleHandlers binds arithmetic evaluation to every production of
// exampleGrammar, using the continuation-function trick to express
// left-associative evaluation with only synthesized attributes.
func exampleHandlers() *parse.Handlers {
	h := parse.NewHandlers()

	identity := func(args []parse.SymbolValue) (any, error) {
		return func(left int) int { return left }, nil
	}
	h.Bind("E'", grammar.Epsilon, identity)
	h.Bind("T'", grammar.Epsilon, identity)

	h.Bind("E'", grammar.Production{"+", "T", "E'"}, func(args []parse.SymbolValue) (any, error) {
		t := args[1].Value.(int)
		tail := args[2].Value.(func(int) int)
		return func(left int) int { return tail(left + t) }, nil
	})
	h.Bind("T'", grammar.Production{"*", "F", "T'"}, func(args []parse.SymbolValue) (any, error) {
		f := args[1].Value.(int)
		tail := args[2].Value.(func(int) int)
		return func(left int) int { return tail(left * f) }, nil
	})

	h.Bind("E", grammar.Production{"T", "E'"}, func(args []parse.SymbolValue) (any, error) {
		t := args[0].Value.(int)
		tail := args[1].Value.(func(int) int)
		return tail(t), nil
	})
	h.Bind("T", grammar.Production{"F", "T'"}, func(args []parse.SymbolValue) (any, error) {
		f := args[0].Value.(int)
		tail := args[1].Value.(func(int) int)
		return tail(f), nil
	})

	h.Bind("F", grammar.Production{"(", "E", ")"}, func(args []parse.SymbolValue) (any, error) {
		return args[1].Value.(int), nil
	})
	h.Bind("F", grammar.Production{"id"}, func(args []parse.SymbolValue) (any, error) {
		tok := args[0].Value.(types.Token)
		return strconv.Atoi(tok.Lexeme())
	})

	return h
}
