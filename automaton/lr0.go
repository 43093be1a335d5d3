package automaton

import (
	"fmt"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/pgutil"
)

// collectionSymbols returns every grammar symbol worth trying a GOTO on
// while building a canonical collection: every terminal (including the
// end-of-text symbol, present once g has been augmented) and every
// non-terminal. Epsilon is never a valid shift symbol and is excluded.
func collectionSymbols(g grammar.Grammar) []string {
	syms := make([]string, 0, len(g.Terminals())+len(g.NonTerminals()))
	syms = append(syms, g.Terminals()...)
	syms = append(syms, g.NonTerminals()...)
	return syms
}

func startLR0Kernel(aug grammar.Grammar) pgutil.SVSet[grammar.LR0Item] {
	startProd := aug.Rule(aug.StartSymbol()).Productions[0]
	item := grammar.LR0Item{NonTerminal: aug.StartSymbol(), Right: append([]string{}, startProd...)}
	k := pgutil.NewSVSet[grammar.LR0Item]()
	k.Set(item.String(), item)
	return k
}

// NewLR0ViablePrefixDFA builds the canonical LR(0) collection of g (which is
// augmented internally) as a deterministic automaton whose states are
// LR(0) item sets. This collection is also what SLR(1) table construction
// uses; the only difference between LR(0) and SLR(1) is how reduce actions
// are decided from a completed item (FOLLOW sets versus none at all).
func NewLR0ViablePrefixDFA(g grammar.Grammar) DFA[pgutil.SVSet[grammar.LR0Item]] {
	aug := g.Augmented()

	startClosure := aug.LR0_CLOSURE(startLR0Kernel(aug))
	symbols := collectionSymbols(aug)

	dfa := New[pgutil.SVSet[grammar.LR0Item]]()
	nameOf := map[string]string{}
	counter := 0

	startKey := startClosure.StringOrdered()
	startName := fmt.Sprintf("%d", counter)
	counter++
	nameOf[startKey] = startName
	dfa.AddState(startName, startClosure)
	dfa.Start = startName

	queue := []pgutil.SVSet[grammar.LR0Item]{startClosure}
	for len(queue) > 0 {
		I := queue[0]
		queue = queue[1:]
		fromName := nameOf[I.StringOrdered()]

		for _, X := range symbols {
			J := aug.LR0_GOTO(I, X)
			if J.Len() == 0 {
				continue
			}
			jKey := J.StringOrdered()
			jName, exists := nameOf[jKey]
			if !exists {
				jName = fmt.Sprintf("%d", counter)
				counter++
				nameOf[jKey] = jName
				dfa.AddState(jName, J)
				queue = append(queue, J)
			}
			dfa.AddTransition(fromName, X, jName)
		}
	}

	return dfa
}
