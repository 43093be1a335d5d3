package grammar

import "github.com/dekarrin/parsegen/internal/pgutil"

// LR0Items returns every LR(0) item derivable from g's productions: one item
// per dot position (0 through len(RHS) inclusive) of every production of
// every rule.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item
	for _, nt := range g.ruleOrder {
		for _, p := range g.rules[nt].Productions {
			if p.HasEpsilon() {
				items = append(items, LR0Item{NonTerminal: nt})
				continue
			}
			for dot := 0; dot <= len(p); dot++ {
				items = append(items, LR0Item{
					NonTerminal: nt,
					Left:        append([]string{}, p[:dot]...),
					Right:       append([]string{}, p[dot:]...),
				})
			}
		}
	}
	return items
}

// NextSymbol returns the symbol immediately after the dot, and whether one
// exists (false if the dot is at the end of the production).
func (item LR0Item) NextSymbol() (string, bool) {
	if len(item.Right) == 0 {
		return "", false
	}
	return item.Right[0], true
}

// Advance returns a copy of item with the dot moved one symbol to the
// right. Panics if the dot is already at the end; callers must check
// NextSymbol first.
func (item LR0Item) Advance() LR0Item {
	n := item.Copy()
	n.Left = append(n.Left, n.Right[0])
	n.Right = n.Right[1:]
	return n
}

// LR0_CLOSURE returns the closure of the given set of LR(0) items: I itself,
// plus, for every item "A -> alpha . B beta" in the set where B is a
// non-terminal, an item "B -> . gamma" for every production "B -> gamma" of
// B, repeated to a fixpoint.
func (g Grammar) LR0_CLOSURE(I pgutil.SVSet[LR0Item]) pgutil.SVSet[LR0Item] {
	closure := pgutil.NewSVSet(I)

	changed := true
	for changed {
		changed = false
		for _, key := range closure.Sorted() {
			item := closure.Get(key)
			sym, ok := item.NextSymbol()
			if !ok || g.IsTerminal(sym) {
				continue
			}
			for _, p := range g.rules[sym].Productions {
				var newItem LR0Item
				if p.HasEpsilon() {
					newItem = LR0Item{NonTerminal: sym}
				} else {
					newItem = LR0Item{NonTerminal: sym, Right: append([]string{}, p...)}
				}
				k := newItem.String()
				if !closure.Has(k) {
					closure.Set(k, newItem)
					changed = true
				}
			}
		}
	}

	return closure
}

// LR0_GOTO returns the closure of the set of items obtained by advancing the
// dot past symbol X in every item of I for which X follows the dot.
func (g Grammar) LR0_GOTO(I pgutil.SVSet[LR0Item], X string) pgutil.SVSet[LR0Item] {
	moved := pgutil.NewSVSet[LR0Item]()
	for _, item := range I {
		sym, ok := item.NextSymbol()
		if ok && sym == X {
			next := item.Advance()
			moved.Set(next.String(), next)
		}
	}
	return g.LR0_CLOSURE(moved)
}

// LR1_CLOSURE returns the closure of the given set of LR(1) items, using
// FIRST to compute the lookaheads propagated onto items added for a
// non-terminal's productions (Algorithm 4.42 in the classic references: for
// "[A -> alpha . B beta, a]" in the set, add "[B -> . gamma, b]" for every
// production "B -> gamma" and every b in FIRST(beta a)).
func (g *Grammar) LR1_CLOSURE(I pgutil.SVSet[LR1Item]) pgutil.SVSet[LR1Item] {
	closure := pgutil.NewSVSet(I)

	changed := true
	for changed {
		changed = false
		for _, key := range closure.Sorted() {
			item := closure.Get(key)
			sym, ok := item.NextSymbol()
			if !ok || g.IsTerminal(sym) {
				continue
			}

			beta := append([]string{}, item.Right[1:]...)
			lookaheads := g.FIRSTSequence(beta)
			if lookaheads.Has(Epsilon[0]) {
				lookaheads.Remove(Epsilon[0])
				lookaheads.Add(item.Lookahead)
			}

			for _, p := range g.rules[sym].Productions {
				var core LR0Item
				if p.HasEpsilon() {
					core = LR0Item{NonTerminal: sym}
				} else {
					core = LR0Item{NonTerminal: sym, Right: append([]string{}, p...)}
				}
				for la := range lookaheads {
					if la == Epsilon[0] {
						continue
					}
					newItem := LR1Item{LR0Item: core, Lookahead: la}
					k := newItem.String()
					if !closure.Has(k) {
						closure.Set(k, newItem)
						changed = true
					}
				}
			}
		}
	}

	return closure
}

// LR1_GOTO returns the closure of the set of items obtained by advancing the
// dot past symbol X in every item of I for which X follows the dot,
// preserving lookaheads.
func (g *Grammar) LR1_GOTO(I pgutil.SVSet[LR1Item], X string) pgutil.SVSet[LR1Item] {
	moved := pgutil.NewSVSet[LR1Item]()
	for _, item := range I {
		sym, ok := item.NextSymbol()
		if ok && sym == X {
			next := LR1Item{LR0Item: item.Advance(), Lookahead: item.Lookahead}
			moved.Set(next.String(), next)
		}
	}
	return g.LR1_CLOSURE(moved)
}

// CoreSet strips the lookaheads from a set of LR(1) items, returning the
// set of underlying LR(0) items (its "core"). Two LR(1) states with equal
// core sets are candidates for merging during LALR(1) construction.
func CoreSet(s pgutil.SVSet[LR1Item]) pgutil.SVSet[LR0Item] {
	core := pgutil.NewSVSet[LR0Item]()
	for _, item := range s {
		core.Set(item.LR0Item.String(), item.LR0Item)
	}
	return core
}

// EqualCoreSets returns whether a and b have the same LR(0) core, ignoring
// lookaheads.
func EqualCoreSets(a, b pgutil.SVSet[LR1Item]) bool {
	ca, cb := CoreSet(a), CoreSet(b)
	if ca.Len() != cb.Len() {
		return false
	}
	for k := range ca {
		if !cb.Has(k) {
			return false
		}
	}
	return true
}
