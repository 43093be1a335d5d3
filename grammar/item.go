package grammar

import (
	"fmt"
	"strings"
)

// Epsilon is the production representing the empty string. It is used both
// as a single-symbol production (Production{Epsilon[0]}) and, as
// Epsilon[0], as the conventional name of the empty symbol itself.
var Epsilon = Production{""}

// Error is the sentinel Production returned from an LL1Table cell that has
// no entry: there is no production to apply for that non-terminal on that
// lookahead terminal.
var Error = Production(nil)

// LR0Item is a single item of an LR(0) canonical collection: a production
// together with a dot marking how much of its right-hand side has been
// matched so far.
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
}

// String renders the item as "NONTERM -> alpha . beta".
func (item LR0Item) String() string {
	var sb strings.Builder
	sb.WriteString(item.NonTerminal)
	sb.WriteString(" -> ")
	if len(item.Left) == 0 && len(item.Right) == 0 {
		sb.WriteString(".")
	} else {
		sb.WriteString(strings.Join(item.Left, " "))
		if len(item.Left) > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(".")
		if len(item.Right) > 0 {
			sb.WriteString(" ")
			sb.WriteString(strings.Join(item.Right, " "))
		}
	}
	return sb.String()
}

// Copy returns a deep copy of the item.
func (item LR0Item) Copy() LR0Item {
	n := LR0Item{NonTerminal: item.NonTerminal}
	n.Left = append([]string{}, item.Left...)
	n.Right = append([]string{}, item.Right...)
	return n
}

// Equal returns whether item equals o, which may be an LR0Item or *LR0Item.
func (item LR0Item) Equal(o any) bool {
	other, ok := o.(LR0Item)
	if !ok {
		otherPtr, ok := o.(*LR0Item)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	if item.NonTerminal != other.NonTerminal {
		return false
	}
	if len(item.Left) != len(other.Left) || len(item.Right) != len(other.Right) {
		return false
	}
	for i := range item.Left {
		if item.Left[i] != other.Left[i] {
			return false
		}
	}
	for i := range item.Right {
		if item.Right[i] != other.Right[i] {
			return false
		}
	}
	return true
}

// Production reconstructs the production this item is tracking dot-position in.
func (item LR0Item) Production() Production {
	if len(item.Left) == 1 && item.Left[0] == Epsilon[0] && len(item.Right) == 0 {
		return Production{Epsilon[0]}
	}
	p := make(Production, 0, len(item.Left)+len(item.Right))
	p = append(p, item.Left...)
	p = append(p, item.Right...)
	return p
}

// ParseLR0Item parses the "NONTERM -> alpha . beta" string form produced by
// String. It is primarily useful for tests and debug fixtures.
func ParseLR0Item(s string) (LR0Item, error) {
	arrowIdx := strings.Index(s, "->")
	if arrowIdx < 0 {
		return LR0Item{}, fmt.Errorf("missing '->' in item string %q", s)
	}
	nonTerm := strings.TrimSpace(s[:arrowIdx])
	rest := strings.TrimSpace(s[arrowIdx+2:])

	dotIdx := strings.Index(rest, ".")
	if dotIdx < 0 {
		return LR0Item{}, fmt.Errorf("missing '.' in item string %q", s)
	}
	leftStr := strings.TrimSpace(rest[:dotIdx])
	rightStr := strings.TrimSpace(rest[dotIdx+1:])

	item := LR0Item{NonTerminal: nonTerm}
	if leftStr != "" {
		item.Left = strings.Fields(leftStr)
	}
	if rightStr != "" {
		item.Right = strings.Fields(rightStr)
	}

	for i, s := range item.Left {
		if strings.EqualFold(s, "ε") {
			item.Left[i] = Epsilon[0]
		}
	}
	for i, s := range item.Right {
		if strings.EqualFold(s, "ε") {
			item.Right[i] = Epsilon[0]
		}
	}

	return item, nil
}

// MustParseLR0Item is ParseLR0Item but panics on error. For use with fixed
// test data only.
func MustParseLR0Item(s string) LR0Item {
	item, err := ParseLR0Item(s)
	if err != nil {
		panic(err.Error())
	}
	return item
}

// LR1Item is an LR0Item paired with a single lookahead terminal.
type LR1Item struct {
	LR0Item
	Lookahead string
}

func (item LR1Item) String() string {
	return fmt.Sprintf("%s, %s", item.LR0Item.String(), item.Lookahead)
}

func (item LR1Item) Copy() LR1Item {
	return LR1Item{LR0Item: item.LR0Item.Copy(), Lookahead: item.Lookahead}
}

func (item LR1Item) Equal(o any) bool {
	other, ok := o.(LR1Item)
	if !ok {
		otherPtr, ok := o.(*LR1Item)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return item.LR0Item.Equal(other.LR0Item) && item.Lookahead == other.Lookahead
}

// ParseLR1Item parses the "NONTERM -> alpha . beta, lookahead" string form.
func ParseLR1Item(s string) (LR1Item, error) {
	commaIdx := strings.LastIndex(s, ",")
	if commaIdx < 0 {
		return LR1Item{}, fmt.Errorf("missing lookahead component (no comma) in item string %q", s)
	}
	core, err := ParseLR0Item(strings.TrimSpace(s[:commaIdx]))
	if err != nil {
		return LR1Item{}, err
	}
	la := strings.TrimSpace(s[commaIdx+1:])
	if strings.EqualFold(la, "ε") {
		la = Epsilon[0]
	}
	return LR1Item{LR0Item: core, Lookahead: la}, nil
}

// MustParseLR1Item is ParseLR1Item but panics on error.
func MustParseLR1Item(s string) LR1Item {
	item, err := ParseLR1Item(s)
	if err != nil {
		panic(err.Error())
	}
	return item
}
