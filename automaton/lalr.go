package automaton

import (
	"fmt"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/pgutil"
	"github.com/dekarrin/parsegen/perr"
)

// NewLALR1ViablePrefixDFA builds the LALR(1) collection of g by the "by-CLR"
// strategy: construct the full canonical LR(1) collection, then merge every
// group of states whose LR(0) cores are identical, unioning their lookahead
// sets. This is the simplest correct LALR(1) construction and the one most
// table generators reach for first; NewLALR1KernelsBySLR computes the same
// result the other well-known way, by propagating lookaheads directly over
// the (much smaller) LR(0) collection, and the two are expected to produce
// equivalent collections for any grammar that is actually LALR(1) (see
// EqualCoreSets-based comparisons in the test suite).
func NewLALR1ViablePrefixDFA(g grammar.Grammar) (DFA[pgutil.SVSet[grammar.LR1Item]], error) {
	clr := NewLR1ViablePrefixDFA(g)

	coreKeyOf := map[string]string{} // old state name -> core key
	groupOf := map[string][]string{} // core key -> old state names
	for _, name := range clr.StateNames() {
		core := grammar.CoreSet(clr.GetValue(name))
		key := core.StringOrdered()
		coreKeyOf[name] = key
		groupOf[key] = append(groupOf[key], name)
	}

	// Assign each group a canonical new name (the lowest-numbered old state
	// name in the group keeps its identity, for readability).
	newNameOf := map[string]string{} // old state name -> new state name
	mergedValue := map[string]pgutil.SVSet[grammar.LR1Item]{}
	for key, members := range groupOf {
		rep := members[0]
		for _, m := range members[1:] {
			if len(m) < len(rep) || (len(m) == len(rep) && m < rep) {
				rep = m
			}
		}
		merged := pgutil.NewSVSet[grammar.LR1Item]()
		for _, m := range members {
			for k, item := range clr.GetValue(m) {
				merged.Set(k, item)
			}
		}
		mergedValue[key] = merged
		for _, m := range members {
			newNameOf[m] = rep
		}
	}

	lalr := New[pgutil.SVSet[grammar.LR1Item]]()
	for key, val := range mergedValue {
		rep := groupOf[key][0]
		for _, m := range groupOf[key][1:] {
			if len(m) < len(rep) || (len(m) == len(rep) && m < rep) {
				rep = m
			}
		}
		lalr.AddState(newNameOf[rep], val)
	}
	lalr.Start = newNameOf[clr.Start]

	for _, oldFrom := range clr.StateNames() {
		newFrom := newNameOf[oldFrom]
		oldState := clr.States[oldFrom]
		for input, oldTo := range oldState.Transitions {
			newTo := newNameOf[oldTo]
			if existingTo, ok := lalr.Next(newFrom, input); ok && existingTo != newTo {
				return lalr, perr.New(
					fmt.Sprintf("grammar is not LALR(1): merging states by LR(0) core produced inconsistent transitions on %q out of state %q", input, newFrom),
					perr.ErrConflict,
				)
			}
			lalr.AddTransition(newFrom, input, newTo)
		}
	}

	return lalr, nil
}

// propagationEdge records that the lookahead set of the kernel item `fromKey`
// (inside LR(0) state `fromState`) must be propagated onto kernel item `to`
// (inside LR(0) state `toState`) whenever `from`'s lookahead set grows.
type propagationEdge struct {
	fromState, to    string
	toState, fromKey string
}

// dummyLookahead is a symbol that cannot appear in any real grammar
// (grammar symbols are built from user-supplied identifiers and the
// reserved "$"); its presence in a computed lookahead after closure marks a
// *propagated* lookahead rather than one spontaneously generated by closure
// over a concrete terminal, per Algorithm 4.62 in the classic LALR(1)
// construction literature.
const dummyLookahead = "#"

// NewLALR1KernelsBySLR computes, for every state of the LR(0) canonical
// collection of g, the full LALR(1) lookahead set of each of its kernel
// items, using the "by-SLR" spontaneous-generation-and-propagation method
// (Aho, Sethi & Ullman Algorithm 4.63) instead of merging the full CLR(1)
// collection. It returns the LR(0) DFA alongside a map from state name to
// the kernel's LR(1) items (full closure is the caller's responsibility, via
// aug.LR1_CLOSURE on the returned kernels).
func NewLALR1KernelsBySLR(g grammar.Grammar) (DFA[pgutil.SVSet[grammar.LR0Item]], map[string]pgutil.SVSet[grammar.LR1Item], error) {
	aug := g.Augmented()
	lr0 := NewLR0ViablePrefixDFA(g)

	kernels := map[string]pgutil.SVSet[grammar.LR0Item]{}
	for _, name := range lr0.StateNames() {
		k := pgutil.NewSVSet[grammar.LR0Item]()
		for key, item := range lr0.GetValue(name) {
			// Kernel items are those with the dot not at the very start of
			// the production, plus the unique initial item of the start
			// state; every non-kernel item is wholly reconstructable by
			// closure and carries no lookahead information of its own.
			if len(item.Left) > 0 || (name == lr0.Start && item.NonTerminal == aug.StartSymbol()) {
				k.Set(key, item)
			}
		}
		kernels[name] = k
	}

	lookaheads := map[string]map[string]pgutil.StringSet{} // state -> item key -> lookaheads
	for name := range kernels {
		lookaheads[name] = map[string]pgutil.StringSet{}
		for key := range kernels[name] {
			lookaheads[name][key] = pgutil.StringSet{}
		}
	}
	startItem := kernels[lr0.Start].Elements()
	if len(startItem) != 1 {
		return lr0, nil, perr.New("expected exactly one item in the initial LR(0) kernel", perr.ErrConflict)
	}
	lookaheads[lr0.Start][startItem[0]].Add(grammar.EndOfTextSymbol)

	var edges []propagationEdge

	for _, state := range lr0.StateNames() {
		for itemKey, item := range kernels[state] {
			// Simulate LR(1) closure of {[item, #]} to discover spontaneous
			// and propagated lookaheads per Algorithm 4.62.
			seed := pgutil.NewSVSet[grammar.LR1Item]()
			seedItem := grammar.LR1Item{LR0Item: item, Lookahead: dummyLookahead}
			seed.Set(seedItem.String(), seedItem)
			closure := aug.LR1_CLOSURE(seed)

			for _, closedItem := range closure {
				sym, ok := closedItem.LR0Item.NextSymbol()
				if !ok {
					continue
				}
				toState, ok := lr0.Next(state, sym)
				if !ok {
					continue
				}
				advanced := closedItem.LR0Item.Advance()
				toKey := advanced.String()
				if _, ok := kernels[toState][toKey]; !ok {
					continue
				}

				if closedItem.Lookahead == dummyLookahead {
					edges = append(edges, propagationEdge{
						fromState: state, fromKey: itemKey,
						toState: toState, to: toKey,
					})
				} else {
					lookaheads[toState][toKey].Add(closedItem.Lookahead)
				}
			}
		}
	}

	changed := true
	for changed {
		changed = false
		for _, e := range edges {
			from := lookaheads[e.fromState][e.fromKey]
			to := lookaheads[e.toState][e.to]
			for la := range from {
				if !to.Has(la) {
					to.Add(la)
					changed = true
				}
			}
		}
	}

	result := map[string]pgutil.SVSet[grammar.LR1Item]{}
	for state := range kernels {
		set := pgutil.NewSVSet[grammar.LR1Item]()
		for key, item := range kernels[state] {
			for la := range lookaheads[state][key] {
				withLA := grammar.LR1Item{LR0Item: item, Lookahead: la}
				set.Set(withLA.String(), withLA)
			}
		}
		result[state] = set
	}

	return lr0, result, nil
}
