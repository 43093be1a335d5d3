package grammar

import "github.com/dekarrin/parsegen/internal/pgutil"

// FIRST returns the FIRST set of sym: the set of terminals (and possibly the
// epsilon marker) that can begin some string derived from sym. If sym is
// itself a terminal, FIRST(sym) is simply {sym}.
//
// The full FIRST table for every non-terminal in the grammar is computed on
// first call and cached; subsequent calls (for this symbol or any other)
// reuse the cache until the grammar is mutated.
func (g *Grammar) FIRST(sym string) pgutil.StringSet {
	if g.IsTerminal(sym) {
		return pgutil.StringSetOf([]string{sym})
	}
	g.ensureFirsts()
	return g.firsts[sym].Copy()
}

// FIRSTSequence returns the FIRST set of the symbol sequence syms: the set
// of terminals that can begin a string derived from syms taken as a whole
// (accounting for symbols whose FIRST includes epsilon). If every symbol in
// syms can derive epsilon (including the empty sequence), the epsilon
// marker is included in the result.
func (g *Grammar) FIRSTSequence(syms []string) pgutil.StringSet {
	result := pgutil.StringSet{}
	allEpsilon := true

	for _, sym := range syms {
		f := g.FIRST(sym)
		for t := range f {
			if t != Epsilon[0] {
				result.Add(t)
			}
		}
		if !f.Has(Epsilon[0]) {
			allEpsilon = false
			break
		}
	}

	if allEpsilon {
		result.Add(Epsilon[0])
	}

	return result
}

func (g *Grammar) ensureFirsts() {
	if g.firsts != nil {
		return
	}

	firsts := map[string]pgutil.StringSet{}
	for _, nt := range g.NonTerminals() {
		firsts[nt] = pgutil.StringSet{}
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrder {
			set := firsts[nt]
			for _, p := range g.rules[nt].Productions {
				if p.HasEpsilon() {
					if !set.Has(Epsilon[0]) {
						set.Add(Epsilon[0])
						changed = true
					}
					continue
				}

				allEpsilonSoFar := true
				for _, sym := range p {
					var symFirst pgutil.StringSet
					if g.IsTerminal(sym) {
						symFirst = pgutil.StringSetOf([]string{sym})
					} else {
						symFirst = firsts[sym]
					}

					for t := range symFirst {
						if t == Epsilon[0] {
							continue
						}
						if !set.Has(t) {
							set.Add(t)
							changed = true
						}
					}

					if !symFirst.Has(Epsilon[0]) {
						allEpsilonSoFar = false
						break
					}
				}
				if allEpsilonSoFar && !set.Has(Epsilon[0]) {
					set.Add(Epsilon[0])
					changed = true
				}
			}
			firsts[nt] = set
		}
	}

	g.firsts = firsts
}

// FOLLOW returns the FOLLOW set of non-terminal nt: the set of terminals
// that can immediately follow nt in some derivation from the start symbol.
// The end-of-text symbol is always placed in the start symbol's FOLLOW set,
// and from there reaches every non-terminal that can end a sentential form.
//
// As with FIRST, the full FOLLOW table is computed on first call and cached
// until the next mutation.
func (g *Grammar) FOLLOW(nt string) pgutil.StringSet {
	g.ensureFollows()
	return g.follows[nt].Copy()
}

func (g *Grammar) ensureFollows() {
	if g.follows != nil {
		return
	}
	g.ensureFirsts()

	follows := map[string]pgutil.StringSet{}
	for _, nt := range g.NonTerminals() {
		follows[nt] = pgutil.StringSet{}
	}
	if g.start != "" {
		follows[g.start].Add(EndOfTextSymbol)
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrder {
			for _, p := range g.rules[nt].Productions {
				if p.HasEpsilon() {
					continue
				}
				for i, sym := range p {
					if g.IsTerminal(sym) {
						continue
					}

					rest := p[i+1:]
					restFirst := g.FIRSTSequence(rest)

					for t := range restFirst {
						if t == Epsilon[0] {
							continue
						}
						if !follows[sym].Has(t) {
							follows[sym].Add(t)
							changed = true
						}
					}

					if len(rest) == 0 || restFirst.Has(Epsilon[0]) {
						for t := range follows[nt] {
							if !follows[sym].Has(t) {
								follows[sym].Add(t)
								changed = true
							}
						}
					}
				}
			}
		}
	}

	g.follows = follows
}

// PREDICT returns the PREDICT set of a specific production alternative of
// non-terminal nt: FIRST(prod), plus FOLLOW(nt) if prod can derive epsilon.
// This is the set of lookahead terminals under which an LL(1) table entry
// selects prod.
func (g *Grammar) PREDICT(nt string, prod Production) pgutil.StringSet {
	if prod.HasEpsilon() {
		first := pgutil.StringSetOf([]string{Epsilon[0]})
		_ = first
		return g.FOLLOW(nt)
	}

	first := g.FIRSTSequence(prod)
	result := pgutil.StringSet{}
	hasEpsilon := false
	for t := range first {
		if t == Epsilon[0] {
			hasEpsilon = true
			continue
		}
		result.Add(t)
	}
	if hasEpsilon {
		result.AddAll(g.FOLLOW(nt))
	}
	return result
}
