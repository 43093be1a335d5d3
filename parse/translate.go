package parse

import (
	"fmt"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/perr"
	"github.com/dekarrin/parsegen/types"
)

// SymbolValue is one right-hand-side symbol's synthesized value and source
// location, as seen by a production's Handler: args[0] is conventionally
// called _1, args[1] is _2, and so on. For a terminal symbol, Value holds
// the types.Token that was matched; for a non-terminal, it holds whatever
// its own Handler returned (nil if none was bound).
type SymbolValue struct {
	Symbol   string
	Value    any
	Location types.Location
}

// Handler computes the synthesized value for a production's head from the
// synthesized values of its right-hand-side symbols. It is the semantic
// action bound to one specific (non-terminal, production) pair via
// Handlers.Bind.
type Handler func(args []SymbolValue) (any, error)

// Handlers binds Handler functions to productions. The zero value has no
// bindings; use NewHandlers to construct one for use with WithHandlers.
type Handlers struct {
	fns map[string]Handler
}

// NewHandlers returns an empty, ready-to-use Handlers set.
func NewHandlers() *Handlers {
	return &Handlers{fns: map[string]Handler{}}
}

// Bind registers fn as the semantic action for the production
// nt -> body. Rebinding the same production replaces the previous Handler.
func (h *Handlers) Bind(nt string, body grammar.Production, fn Handler) {
	if h.fns == nil {
		h.fns = map[string]Handler{}
	}
	h.fns[handlerKey(nt, body)] = fn
}

func (h *Handlers) get(nt string, body grammar.Production) (Handler, bool) {
	if h == nil || h.fns == nil {
		return nil, false
	}
	fn, ok := h.fns[handlerKey(nt, body)]
	return fn, ok
}

// Has reports whether a semantic action is bound to nt -> body.
func (h *Handlers) Has(nt string, body grammar.Production) bool {
	_, ok := h.get(nt, body)
	return ok
}

func handlerKey(nt string, body grammar.Production) string {
	return nt + " -> " + body.String()
}

// symbolValue extracts the SymbolValue a child parse tree node presents to
// its parent's Handler.
func symbolValue(c *types.ParseTree) SymbolValue {
	if c == nil {
		return SymbolValue{}
	}
	if c.Terminal {
		return SymbolValue{Symbol: c.Value, Value: c.Source, Location: c.Location()}
	}
	return SymbolValue{Symbol: c.Value, Value: c.Attr, Location: c.Location()}
}

// spanLocation returns the union of every child's location, used to set a
// non-terminal node's own Loc once its children are known.
func spanLocation(children []*types.ParseTree) types.Location {
	var loc types.Location
	for _, c := range children {
		if c == nil {
			continue
		}
		loc = loc.Span(c.Location())
	}
	return loc
}

// evaluateTree walks a completed parse tree bottom-up, computing each
// non-terminal node's Loc and, where a Handler is bound for the production
// that derived it, its Attr. node.Body must already be populated with the
// production's right-hand side (set by the driver at reduce/predict time).
func evaluateTree(node *types.ParseTree, handlers *Handlers) error {
	if node == nil || node.Terminal {
		return nil
	}

	for _, c := range node.Children {
		if err := evaluateTree(c, handlers); err != nil {
			return err
		}
	}

	node.Loc = spanLocation(node.Children)

	body := grammar.Production(node.Body)
	fn, ok := handlers.get(node.Value, body)
	if !ok {
		return nil
	}

	args := make([]SymbolValue, len(node.Children))
	for i, c := range node.Children {
		args[i] = symbolValue(c)
	}

	val, err := fn(args)
	if err != nil {
		return perr.New(fmt.Sprintf("semantic action for %s -> %s: %s", node.Value, body.String(), err.Error()), perr.ErrSyntax)
	}
	node.Attr = val
	return nil
}
