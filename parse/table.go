package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/parsegen/automaton"
	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/perr"
	"github.com/dekarrin/parsegen/types"
	"github.com/dekarrin/rosed"
)

// LRParseTable is the ACTION/GOTO table a table-driven LR parser consults.
type LRParseTable interface {
	// Initial returns the name of the start state.
	Initial() string

	// States returns the name of every state, start state first.
	States() []string

	// Action returns the action to take in the given state on the given
	// terminal (or the end-of-text symbol).
	Action(state, terminal string) LRAction

	// Goto returns the state to transition to after reducing to
	// nonTerminal while in the given state, or an error if no such
	// transition exists (which should never happen during a correct parse).
	Goto(state, nonTerminal string) (string, error)

	ParserType() types.ParserType

	String() string
}

type table struct {
	typ      types.ParserType
	initial  string
	actions  map[string]map[string]LRAction
	gotos    map[string]map[string]string
	stateIDs []string
}

func (t *table) Initial() string { return t.initial }

func (t *table) States() []string { return t.stateIDs }

func (t *table) Action(state, terminal string) LRAction {
	row, ok := t.actions[state]
	if !ok {
		return LRAction{Type: LRError}
	}
	act, ok := row[terminal]
	if !ok {
		return LRAction{Type: LRError}
	}
	return act
}

func (t *table) Goto(state, nonTerminal string) (string, error) {
	row, ok := t.gotos[state]
	if !ok {
		return "", perr.New(fmt.Sprintf("no GOTO entries for state %s", state), perr.ErrSyntax)
	}
	to, ok := row[nonTerminal]
	if !ok {
		return "", perr.New(fmt.Sprintf("no GOTO entry for state %s on %s", state, nonTerminal), perr.ErrSyntax)
	}
	return to, nil
}

func (t *table) ParserType() types.ParserType { return t.typ }

// String renders the table in the same rows-are-states,
// columns-are-ACTION/GOTO-cells form as the classic textbook LR table dump:
// "s3" for a shift to state 3, "rNT -> body" for a reduce by the production
// NT -> body, "acc" for accept, and a bare state name for a GOTO cell.
func (t *table) String() string {
	termSet := map[string]bool{}
	ntSet := map[string]bool{}
	for _, row := range t.actions {
		for term := range row {
			termSet[term] = true
		}
	}
	for _, row := range t.gotos {
		for nt := range row {
			ntSet[nt] = true
		}
	}

	terms := make([]string, 0, len(termSet))
	for term := range termSet {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	nonTerms := make([]string, 0, len(ntSet))
	for nt := range ntSet {
		nonTerms = append(nonTerms, nt)
	}
	sort.Strings(nonTerms)

	headers := []string{"state", "|"}
	for _, term := range terms {
		headers = append(headers, fmt.Sprintf("A:%s", term))
	}
	headers = append(headers, "|")
	for _, nt := range nonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data := [][]string{headers}

	for _, s := range t.stateIDs {
		row := []string{s, "|"}

		for _, term := range terms {
			act := t.Action(s, term)
			cell := ""
			switch act.Type {
			case LRAccept:
				cell = "acc"
			case LRReduce:
				cell = fmt.Sprintf("r%s -> %s", act.NonTerminal, act.Production.String())
			case LRShift:
				cell = fmt.Sprintf("s%s", act.State)
			}
			row = append(row, cell)
		}

		row = append(row, "|")
		for _, nt := range nonTerms {
			cell := ""
			if to, err := t.Goto(s, nt); err == nil {
				cell = to
			}
			row = append(row, cell)
		}

		data = append(data, row)
	}

	header := fmt.Sprintf("%s PARSE TABLE (initial: %s)\n", t.typ, t.initial)
	return header + rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func newTable(typ types.ParserType, initial string, stateIDs []string) *table {
	return &table{
		typ:      typ,
		initial:  initial,
		actions:  map[string]map[string]LRAction{},
		gotos:    map[string]map[string]string{},
		stateIDs: stateIDs,
	}
}

func mergeAction(g grammar.Grammar, pt PrecedenceTable, allowAmbig bool, t *table, warnings *[]string, state, term string, next LRAction) error {
	row, ok := t.actions[state]
	if !ok {
		row = map[string]LRAction{}
		t.actions[state] = row
	}

	existing, has := row[term]
	if !has {
		row[term] = next
		return nil
	}
	if existing.Equal(next) {
		return nil
	}

	var shiftAct, reduceAct LRAction
	switch {
	case existing.Type == LRShift && next.Type == LRReduce:
		shiftAct, reduceAct = existing, next
	case existing.Type == LRReduce && next.Type == LRShift:
		shiftAct, reduceAct = next, existing
	case existing.Type == LRReduce && next.Type == LRReduce:
		en, _ := g.ProductionNumber(existing.NonTerminal, existing.Production)
		nn, _ := g.ProductionNumber(next.NonTerminal, next.Production)
		chosen := existing
		if nn < en {
			chosen = next
		}
		row[term] = chosen
		*warnings = append(*warnings, fmt.Sprintf(
			"reduce/reduce conflict in state %s on %q between %s and %s; resolved in favor of the lower-numbered production",
			state, term, existing.String(), next.String()))
		return nil
	default:
		return perr.New(conflictMessage(state, term, existing, next), perr.ErrConflict)
	}

	switch resolveShiftReduce(g, pt, term, reduceAct.NonTerminal, reduceAct.Production) {
	case resShift:
		row[term] = shiftAct
		*warnings = append(*warnings, fmt.Sprintf(
			"shift/reduce conflict in state %s on %q resolved in favor of shift by declared precedence", state, term))
	case resReduce:
		row[term] = reduceAct
		*warnings = append(*warnings, fmt.Sprintf(
			"shift/reduce conflict in state %s on %q resolved in favor of reduce by declared precedence", state, term))
	case resSyntaxError:
		return perr.New(fmt.Sprintf(
			"non-associative operator %q would be used without disambiguating parentheses in state %s", term, state),
			perr.ErrConflict)
	default:
		if allowAmbig {
			row[term] = shiftAct
			*warnings = append(*warnings, fmt.Sprintf(
				"shift/reduce conflict in state %s on %q resolved in favor of shift (no precedence declared for %q)",
				state, term, term))
			return nil
		}
		return perr.New(conflictMessage(state, term, existing, next), perr.ErrConflict)
	}
	return nil
}

// buildFromLR0 constructs an LRParseTable from an LR(0)/SLR(1)-style
// canonical collection. When useFollowSets is true, reduce actions for a
// completed item are registered on every terminal in FOLLOW(nt) (SLR(1));
// when false, a completed item reduces unconditionally, so the action is
// registered on every terminal (plain LR(0), valid only for grammars where
// no state ever mixes a completed item with another completed item or a
// possible shift).
func buildFromLR0(
	typ types.ParserType,
	g grammar.Grammar,
	dfa automaton.DFA[dfaLR0Set],
	pt PrecedenceTable,
	allowAmbig bool,
	useFollowSets bool,
) (*table, []string, error) {
	aug := g.Augmented()
	stateIDs := dfa.StateNames()
	t := newTable(typ, dfa.Start, stateIDs)
	var warnings []string

	for _, state := range stateIDs {
		items := dfa.GetValue(state)
		for _, item := range items {
			sym, ok := item.NextSymbol()
			if !ok {
				if item.NonTerminal == aug.StartSymbol() {
					if err := mergeAction(g, pt, allowAmbig, t, &warnings, state, grammar.EndOfTextSymbol, LRAction{Type: LRAccept}); err != nil {
						return nil, warnings, err
					}
					continue
				}

				prod := item.Production()
				act := LRAction{Type: LRReduce, NonTerminal: item.NonTerminal, Production: prod}
				var lookaheads []string
				if useFollowSets {
					lookaheads = aug.FOLLOW(item.NonTerminal).Sorted()
				} else {
					// Plain LR(0) consults no lookahead at all: a completed
					// item reduces regardless of what comes next, so the
					// action is registered across every terminal, including
					// end-of-text (aug.Terminals() already carries it).
					lookaheads = aug.Terminals()
				}
				for _, term := range lookaheads {
					if err := mergeAction(g, pt, allowAmbig, t, &warnings, state, term, act); err != nil {
						return nil, warnings, err
					}
				}
				continue
			}

			to, _ := dfa.Next(state, sym)
			if aug.IsTerminal(sym) {
				if err := mergeAction(g, pt, allowAmbig, t, &warnings, state, sym, LRAction{Type: LRShift, State: to}); err != nil {
					return nil, warnings, err
				}
			} else {
				row, ok := t.gotos[state]
				if !ok {
					row = map[string]string{}
					t.gotos[state] = row
				}
				row[sym] = to
			}
		}
	}

	return t, warnings, nil
}

// buildFromLR1 is buildFromLR0's counterpart for canonical collections of
// LR(1) items (CLR(1) directly, or LALR(1) after either construction
// strategy): reduce actions are registered only on each item's own
// lookahead, never a whole FOLLOW set.
func buildFromLR1(
	typ types.ParserType,
	g grammar.Grammar,
	dfa automaton.DFA[dfaLR1Set],
	pt PrecedenceTable,
	allowAmbig bool,
) (*table, []string, error) {
	aug := g.Augmented()
	stateIDs := dfa.StateNames()
	t := newTable(typ, dfa.Start, stateIDs)
	var warnings []string

	for _, state := range stateIDs {
		items := dfa.GetValue(state)
		for _, item := range items {
			sym, ok := item.NextSymbol()
			if !ok {
				if item.NonTerminal == aug.StartSymbol() {
					if err := mergeAction(g, pt, allowAmbig, t, &warnings, state, grammar.EndOfTextSymbol, LRAction{Type: LRAccept}); err != nil {
						return nil, warnings, err
					}
					continue
				}
				prod := item.Production()
				act := LRAction{Type: LRReduce, NonTerminal: item.NonTerminal, Production: prod}
				if err := mergeAction(g, pt, allowAmbig, t, &warnings, state, item.Lookahead, act); err != nil {
					return nil, warnings, err
				}
				continue
			}

			to, _ := dfa.Next(state, sym)
			if aug.IsTerminal(sym) {
				if err := mergeAction(g, pt, allowAmbig, t, &warnings, state, sym, LRAction{Type: LRShift, State: to}); err != nil {
					return nil, warnings, err
				}
			} else {
				row, ok := t.gotos[state]
				if !ok {
					row = map[string]string{}
					t.gotos[state] = row
				}
				row[sym] = to
			}
		}
	}

	return t, warnings, nil
}
