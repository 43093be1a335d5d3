package parse

import (
	"fmt"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/pgutil"
	"github.com/dekarrin/parsegen/perr"
	"github.com/dekarrin/parsegen/types"
)

// LL1Parser drives a grammar.LL1Table over a types.TokenStream using the
// classic table-driven predictive-parsing stack algorithm.
type LL1Parser struct {
	table    grammar.LL1Table
	g        grammar.Grammar
	trace    func(string)
	handlers *Handlers
}

// NewLL1Parser builds the LL(1) parse table for g and returns a parser for
// it. Returns a perr.ErrConflict error if g is not LL(1).
func NewLL1Parser(g grammar.Grammar, opts ...Option) (*LL1Parser, error) {
	o := applyOptions(opts)
	table, err := g.LLParseTable()
	if err != nil {
		return nil, err
	}
	return &LL1Parser{table: table, g: g, trace: o.trace, handlers: o.handlers}, nil
}

func (p *LL1Parser) emit(format string, args ...any) {
	if p.trace != nil {
		p.trace(fmt.Sprintf(format, args...))
	}
}

// Parse runs the LL(1) stack algorithm over stream until the symbol stack
// is exhausted or a syntax error occurs.
func (p *LL1Parser) Parse(stream types.TokenStream) (types.ParseTree, error) {
	root := &types.ParseTree{Value: p.g.StartSymbol()}

	var symStack pgutil.Stack[string]
	var nodeStack pgutil.Stack[*types.ParseTree]
	symStack.Push(grammar.EndOfTextSymbol)
	nodeStack.Push(nil)
	symStack.Push(p.g.StartSymbol())
	nodeStack.Push(root)

	for {
		top := symStack.Peek()
		node := nodeStack.Peek()

		if top == grammar.EndOfTextSymbol {
			tok := stream.Peek()
			if tok.Class().ID() != grammar.EndOfTextSymbol {
				return types.ParseTree{}, p.syntaxError(tok, nil)
			}
			if err := evaluateTree(root, p.handlers); err != nil {
				return types.ParseTree{}, err
			}
			return *root, nil
		}

		tok := stream.Peek()
		term := tok.Class().ID()

		if p.g.IsTerminal(top) {
			if top != term {
				return types.ParseTree{}, p.syntaxError(tok, []string{top})
			}
			consumed := stream.Next()
			node.Terminal = true
			node.Source = consumed
			symStack.Pop()
			nodeStack.Pop()
			p.emit("match %s %q", top, consumed.Lexeme())
			continue
		}

		prod := p.table.Get(top, term)
		if prod == nil {
			return types.ParseTree{}, p.syntaxError(tok, p.expectedFor(top))
		}
		symStack.Pop()
		nodeStack.Pop()

		p.emit("predict %s -> %s", top, prod.String())
		node.Body = []string(prod)

		if prod.HasEpsilon() {
			continue
		}

		node.Children = make([]*types.ParseTree, len(prod))
		for i := len(prod) - 1; i >= 0; i-- {
			child := &types.ParseTree{Value: prod[i]}
			node.Children[i] = child
			symStack.Push(prod[i])
			nodeStack.Push(child)
		}
	}
}

func (p *LL1Parser) expectedFor(nonTerminal string) []string {
	var expected []string
	for _, term := range append(append([]string{}, p.g.Terminals()...), grammar.EndOfTextSymbol) {
		if p.table.Get(nonTerminal, term) != nil {
			expected = append(expected, term)
		}
	}
	return expected
}

func (p *LL1Parser) syntaxError(tok types.Token, expected []string) error {
	msg := fmt.Sprintf("unexpected %s %q", tok.Class().Human(), tok.Lexeme())
	if len(expected) > 0 {
		msg += fmt.Sprintf("; expected %s", pgutil.MakeTextList(expected))
	}
	return perr.New(fmt.Sprintf("%s (line %d, col %d)", msg, tok.Line(), tok.LinePos()), perr.ErrSyntax)
}
