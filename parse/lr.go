package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/pgutil"
	"github.com/dekarrin/parsegen/perr"
	"github.com/dekarrin/parsegen/types"
)

// LRParser drives an LRParseTable over a types.TokenStream, producing a
// types.ParseTree on success.
type LRParser struct {
	table    LRParseTable
	g        grammar.Grammar
	trace    func(string)
	handlers *Handlers
}

// Table returns the underlying parse table, for inspection or
// serialization.
func (p *LRParser) Table() LRParseTable { return p.table }

func (p *LRParser) emit(format string, args ...any) {
	if p.trace != nil {
		p.trace(fmt.Sprintf(format, args...))
	}
}

// Parse runs the shift-reduce-goto algorithm over stream until it accepts
// or encounters a syntax error.
func (p *LRParser) Parse(stream types.TokenStream) (types.ParseTree, error) {
	states := pgutil.NewStack(p.table.Initial())
	var trees pgutil.Stack[*types.ParseTree]

	for {
		tok := stream.Peek()
		term := tok.Class().ID()
		cur := states.Peek()

		act := p.table.Action(cur, term)

		switch act.Type {
		case LRShift:
			tok = stream.Next()
			states.Push(act.State)
			trees.Push(&types.ParseTree{Terminal: true, Value: term, Source: tok})
			p.emit("shift %s -> state %s", tok.Lexeme(), act.State)

		case LRReduce:
			n := len(act.Production)
			if act.Production.HasEpsilon() {
				n = 0
			}
			children := make([]*types.ParseTree, n)
			for i := n - 1; i >= 0; i-- {
				states.Pop()
				children[i] = trees.Pop()
			}
			node := &types.ParseTree{Value: act.NonTerminal, Children: children, Body: []string(act.Production)}
			trees.Push(node)

			gotoState, err := p.table.Goto(states.Peek(), act.NonTerminal)
			if err != nil {
				return types.ParseTree{}, err
			}
			states.Push(gotoState)
			p.emit("reduce %s -> %s, goto state %s", act.NonTerminal, act.Production.String(), gotoState)

		case LRAccept:
			p.emit("accept")
			aug := p.g.Augmented()
			body := aug.Rule(aug.StartSymbol()).Productions[0]
			children := make([]*types.ParseTree, len(body))
			for i := len(body) - 1; i >= 0; i-- {
				children[i] = trees.Pop()
			}
			root := &types.ParseTree{Value: aug.StartSymbol(), Children: children, Body: []string(body)}
			if err := evaluateTree(root, p.handlers); err != nil {
				return types.ParseTree{}, err
			}
			return *root, nil

		default:
			return types.ParseTree{}, p.syntaxError(cur, tok)
		}
	}
}

func (p *LRParser) syntaxError(state string, tok types.Token) error {
	expected := p.expectedTerminals(state)
	var msg string
	if len(expected) == 0 {
		msg = fmt.Sprintf("unexpected %s %q", tok.Class().Human(), tok.Lexeme())
	} else {
		msg = fmt.Sprintf("unexpected %s %q; expected %s", tok.Class().Human(), tok.Lexeme(), pgutil.MakeTextList(expected))
	}
	return perr.New(fmt.Sprintf("%s (line %d, col %d)", msg, tok.Line(), tok.LinePos()), perr.ErrSyntax)
}

// expectedTerminals lists, in a human-readable form, every terminal that
// would not result in an error action from the given state.
func (p *LRParser) expectedTerminals(state string) []string {
	var out []string
	for _, term := range p.g.Augmented().Terminals() {
		if p.table.Action(state, term).Type != LRError {
			out = append(out, fmt.Sprintf("%s %q", pgutil.ArticleFor(term, false), term))
		}
	}
	sort.Strings(out)
	return out
}
