// Package serialize encodes a built parse table (and the grammar it was
// built from) to a compact binary form and back, so a table does not need
// to be recomputed from a grammar file every time a parser starts up.
//
// The wire format follows the textbook LR table layout: every cell is
// either a shift ("s" + target state), a reduce ("r" + production number),
// accept ("acc"), or (in the GOTO half) a bare state name. Productions are
// stored as [LHS symbol index, RHS length, bound handler name], with
// production number 0 reserved to mean "no production." Symbols are stored
// once in an index shared by both table halves: index 0 is always the
// end-of-text marker, so that a cell referring to it never collides with a
// real symbol.
package serialize

import (
	"fmt"
	"sort"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/parse"
	"github.com/dekarrin/parsegen/perr"
	"github.com/dekarrin/rezi"
)

// WireSymbol is one entry in a serialized table's symbol index.
type WireSymbol struct {
	Index    int
	Name     string
	Terminal bool
}

// WireProduction is a production encoded as [LHS index, RHS length, handler
// name]. The RHS symbols themselves aren't stored here: a consumer that
// needs them looks the production up in the grammar the table was built
// from by Num, same as the in-memory parser does.
type WireProduction struct {
	Num     int
	LHS     int
	RHSLen  int
	Handler string
}

// WireTable is the flattened, symbol-index-keyed form of an LRParseTable
// (or an LL(1) table; see EncodeLL1Table) suitable for rezi binary encoding.
type WireTable struct {
	ParserType  string
	Initial     string
	States      []string
	Symbols     []WireSymbol
	Productions []WireProduction

	// Actions[state][symbolIndex] is one of "acc", "s<state>", "r<prodNum>".
	Actions map[string]map[int]string

	// Gotos[state][symbolIndex] is the bare destination state name.
	Gotos map[string]map[int]string
}

// symbolIndex assigns every terminal and non-terminal of g a stable index,
// with the end-of-text marker always at 0.
func symbolIndex(g grammar.Grammar) ([]WireSymbol, map[string]int) {
	syms := []WireSymbol{{Index: 0, Name: grammar.EndOfTextSymbol, Terminal: true}}
	idx := map[string]int{grammar.EndOfTextSymbol: 0}

	nts := g.NonTerminals()
	sort.Strings(nts)
	for _, nt := range nts {
		i := len(syms)
		syms = append(syms, WireSymbol{Index: i, Name: nt, Terminal: false})
		idx[nt] = i
	}

	terms := g.Terminals()
	sort.Strings(terms)
	for _, term := range terms {
		if term == grammar.EndOfTextSymbol {
			continue
		}
		i := len(syms)
		syms = append(syms, WireSymbol{Index: i, Name: term, Terminal: true})
		idx[term] = i
	}

	return syms, idx
}

func encodeProductions(g grammar.Grammar, idx map[string]int, handlers *parse.Handlers) []WireProduction {
	all := g.AllProductions()
	out := make([]WireProduction, 0, len(all))
	for _, np := range all {
		handlerName := ""
		if handlers != nil && handlers.Has(np.NonTerminal, np.Body) {
			handlerName = fmt.Sprintf("%s -> %s", np.NonTerminal, np.Body.String())
		}
		out = append(out, WireProduction{
			Num:     np.Num,
			LHS:     idx[np.NonTerminal],
			RHSLen:  len(np.Body),
			Handler: handlerName,
		})
	}
	return out
}

// EncodeLRTable flattens an LR parse table built from g into a WireTable
// and encodes it with rezi.
func EncodeLRTable(g grammar.Grammar, t parse.LRParseTable, handlers *parse.Handlers) ([]byte, error) {
	syms, idx := symbolIndex(g)
	aug := g.Augmented()

	wt := &WireTable{
		ParserType:  t.ParserType().String(),
		Initial:     t.Initial(),
		States:      t.States(),
		Symbols:     syms,
		Productions: encodeProductions(g, idx, handlers),
		Actions:     map[string]map[int]string{},
		Gotos:       map[string]map[int]string{},
	}

	for _, state := range t.States() {
		actRow := map[int]string{}
		for _, term := range aug.Terminals() {
			act := t.Action(state, term)
			cell, ok := encodeAction(g, act)
			if !ok {
				continue
			}
			actRow[idx[term]] = cell
		}
		if len(actRow) > 0 {
			wt.Actions[state] = actRow
		}

		gotoRow := map[int]string{}
		for _, nt := range aug.NonTerminals() {
			to, err := t.Goto(state, nt)
			if err != nil {
				continue
			}
			gotoRow[idx[nt]] = to
		}
		if len(gotoRow) > 0 {
			wt.Gotos[state] = gotoRow
		}
	}

	return rezi.EncBinary(wt), nil
}

func encodeAction(g grammar.Grammar, act parse.LRAction) (string, bool) {
	switch act.Type {
	case parse.LRAccept:
		return "acc", true
	case parse.LRShift:
		return "s" + act.State, true
	case parse.LRReduce:
		num, ok := g.ProductionNumber(act.NonTerminal, act.Production)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("r%d", num), true
	default:
		return "", false
	}
}

// DecodeLRTable decodes bytes produced by EncodeLRTable back into a
// WireTable. It does not reconstruct a live parse.LRParseTable: the wire
// form is meant for inspection, caching, and transport, with the
// authoritative driver always rebuilt from the grammar it names.
func DecodeLRTable(data []byte) (*WireTable, error) {
	wt := &WireTable{}
	n, err := rezi.DecBinary(data, wt)
	if err != nil {
		return nil, perr.New("REZI decode of parse table", err, perr.ErrDecoding)
	}
	if n != len(data) {
		return nil, perr.New(fmt.Sprintf("REZI decoded byte count mismatch; consumed %d/%d bytes", n, len(data)), perr.ErrDecoding)
	}
	return wt, nil
}

// EncodeLL1Table flattens an LL(1) parse table built from g into a
// WireTable and encodes it with rezi. The result has no States or Gotos:
// an LL(1) table has a single implicit "state" (the predict table itself),
// so every cell is recorded directly under Actions[""][key], where key folds
// the non-terminal's and terminal's symbol indexes into one integer
// (ntIndex*len(Symbols) + termIndex), as a bare "r<prodNum>" reduce/predict
// cell (LL(1) driving never shifts or
// accepts via the table; those are implicit in the stack algorithm).
func EncodeLL1Table(g grammar.Grammar, t grammar.LL1Table, handlers *parse.Handlers) ([]byte, error) {
	syms, idx := symbolIndex(g)

	wt := &WireTable{
		ParserType:  "LL(1)",
		Symbols:     syms,
		Productions: encodeProductions(g, idx, handlers),
		Actions:     map[string]map[int]string{},
	}

	terms := append(append([]string{}, g.Terminals()...), grammar.EndOfTextSymbol)
	row := map[int]string{}
	for _, nt := range g.NonTerminals() {
		for _, term := range terms {
			prod := t.Get(nt, term)
			if prod == nil {
				continue
			}
			num, ok := g.ProductionNumber(nt, prod)
			if !ok {
				continue
			}
			// Cells are keyed by nonTerminal/terminal symbol index pair,
			// folded into one integer so a single flat map suffices.
			key := idx[nt]*len(syms) + idx[term]
			row[key] = fmt.Sprintf("r%d", num)
		}
	}
	wt.Actions[""] = row

	return rezi.EncBinary(wt), nil
}

// Symbol looks up the wire symbol with the given index.
func (wt *WireTable) Symbol(index int) (WireSymbol, bool) {
	for _, s := range wt.Symbols {
		if s.Index == index {
			return s, true
		}
	}
	return WireSymbol{}, false
}

// Production looks up the wire production with the given number. Number 0
// is always absent, since it is the "no production" sentinel.
func (wt *WireTable) Production(num int) (WireProduction, bool) {
	if num == 0 {
		return WireProduction{}, false
	}
	for _, p := range wt.Productions {
		if p.Num == num {
			return p, true
		}
	}
	return WireProduction{}, false
}
