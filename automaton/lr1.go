package automaton

import (
	"fmt"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/pgutil"
)

func startLR1Kernel(aug grammar.Grammar) pgutil.SVSet[grammar.LR1Item] {
	startProd := aug.Rule(aug.StartSymbol()).Productions[0]
	item := grammar.LR1Item{
		LR0Item:   grammar.LR0Item{NonTerminal: aug.StartSymbol(), Right: append([]string{}, startProd...)},
		Lookahead: grammar.EndOfTextSymbol,
	}
	k := pgutil.NewSVSet[grammar.LR1Item]()
	k.Set(item.String(), item)
	return k
}

// NewLR1ViablePrefixDFA builds the canonical LR(1) (CLR(1)) collection of g
// as a deterministic automaton whose states are LR(1) item sets, each
// carrying its own per-item lookahead set.
func NewLR1ViablePrefixDFA(g grammar.Grammar) DFA[pgutil.SVSet[grammar.LR1Item]] {
	aug := g.Augmented()

	startClosure := aug.LR1_CLOSURE(startLR1Kernel(aug))
	symbols := collectionSymbols(aug)

	dfa := New[pgutil.SVSet[grammar.LR1Item]]()
	nameOf := map[string]string{}
	counter := 0

	startKey := startClosure.StringOrdered()
	startName := fmt.Sprintf("%d", counter)
	counter++
	nameOf[startKey] = startName
	dfa.AddState(startName, startClosure)
	dfa.Start = startName

	queue := []pgutil.SVSet[grammar.LR1Item]{startClosure}
	for len(queue) > 0 {
		I := queue[0]
		queue = queue[1:]
		fromName := nameOf[I.StringOrdered()]

		for _, X := range symbols {
			J := aug.LR1_GOTO(I, X)
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
