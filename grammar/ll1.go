package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/parsegen/perr"
)

// LL1Table is a completed LL(1) parse table: for every non-terminal and
// lookahead terminal, it names the production to apply (or Error, if the
// grammar's LL(1) table has no entry there and a parse should fail).
type LL1Table interface {
	// Get returns the production selected for nonTerminal on the given
	// lookahead terminal. Returns Error if there is no entry.
	Get(nonTerminal, terminal string) Production

	// NonTerminals returns every non-terminal with at least one table row.
	NonTerminals() []string

	// Terminals returns every terminal used as a column in the table,
	// including the end-of-text symbol.
	Terminals() []string

	String() string
}

type ll1Table struct {
	g        *Grammar
	entries  map[string]map[string]Production
	terms    []string
	nonTerms []string
}

func (t ll1Table) Get(nonTerminal, terminal string) Production {
	row, ok := t.entries[nonTerminal]
	if !ok {
		return Error
	}
	p, ok := row[terminal]
	if !ok {
		return Error
	}
	return p
}

func (t ll1Table) NonTerminals() []string { return t.nonTerms }
func (t ll1Table) Terminals() []string    { return t.terms }

func (t ll1Table) String() string {
	var sb strings.Builder
	sb.WriteString("LL(1) PARSE TABLE\n")
	for _, nt := range t.nonTerms {
		for _, term := range t.terms {
			p := t.Get(nt, term)
			if p == nil {
				continue
			}
			fmt.Fprintf(&sb, "  [%s, %s] = %s -> %s\n", nt, term, nt, p.String())
		}
	}
	return sb.String()
}

// LLParseTable constructs the LL(1) parse table for g using the PREDICT sets
// of each production. Returns an error wrapping perr.ErrConflict if any
// table cell would need to hold more than one production (the grammar is not
// LL(1)).
func (g *Grammar) LLParseTable() (LL1Table, error) {
	entries := map[string]map[string]Production{}

	nonTerms := g.NonTerminals()
	terms := append(append([]string{}, g.Terminals()...), EndOfTextSymbol)

	for _, nt := range nonTerms {
		row := map[string]Production{}
		for _, p := range g.Rule(nt).Productions {
			predict := g.PREDICT(nt, p)
			for term := range predict {
				if term == Epsilon[0] {
					continue
				}
				if existing, ok := row[term]; ok && !existing.Equal(p) {
					return nil, perr.New(
						fmt.Sprintf("grammar is not LL(1): [%s, %s] would need both %q and %q",
							nt, term, existing.String(), p.String()),
						perr.ErrConflict,
					)
				}
				row[term] = p
			}
		}
		entries[nt] = row
	}

	return ll1Table{g: g, entries: entries, terms: terms, nonTerms: nonTerms}, nil
}
