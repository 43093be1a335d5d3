// Package automaton builds the deterministic viable-prefix automata that
// back LR(0)/SLR(1)/CLR(1)/LALR(1) parse table construction: a generic
// State/DFA container, and grammar-aware constructors for each of the
// canonical collections.
package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"
)

// State is one state of a DFA: a name, an attached value of type E (for the
// viable-prefix automata built in this package, the LR(0) or LR(1) item set
// the state represents), and the transition function out of that state.
type State[E any] struct {
	Name        string
	Value       E
	Transitions map[string]string
}

// DFA is a deterministic finite automaton over states carrying a value of
// type E.
type DFA[E any] struct {
	States map[string]State[E]
	Start  string
}

// New returns an empty DFA.
func New[E any]() DFA[E] {
	return DFA[E]{States: map[string]State[E]{}}
}

// AddState adds a new named state with the given value. No effect if the
// state already exists.
func (d *DFA[E]) AddState(name string, value E) {
	if _, ok := d.States[name]; ok {
		return
	}
	d.States[name] = State[E]{Name: name, Value: value, Transitions: map[string]string{}}
}

// AddTransition adds a transition from `from` to `to` on the given input
// symbol. Panics if `from` is not a known state.
func (d *DFA[E]) AddTransition(from, input, to string) {
	s := d.States[from]
	s.Transitions[input] = to
	d.States[from] = s
}

// Next returns the state reached from `state` on `input`, and whether a
// transition was defined.
func (d DFA[E]) Next(state, input string) (string, bool) {
	s, ok := d.States[state]
	if !ok {
		return "", false
	}
	to, ok := s.Transitions[input]
	return to, ok
}

// GetValue returns the value attached to the named state.
func (d DFA[E]) GetValue(name string) E {
	return d.States[name].Value
}

// StateNames returns every state name, sorted so that the start state comes
// first and the rest follow in ascending order otherwise.
func (d DFA[E]) StateNames() []string {
	names := make([]string, 0, len(d.States))
	for n := range d.States {
		if n != d.Start {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	if _, ok := d.States[d.Start]; ok {
		names = append([]string{d.Start}, names...)
	}
	return names
}

// String renders the DFA as a table, one row per state: its item set value
// and every outgoing transition, start state marked in the first column.
func (d DFA[E]) String() string {
	var allInputs []string
	seen := map[string]bool{}
	for _, s := range d.States {
		for in := range s.Transitions {
			if !seen[in] {
				seen[in] = true
				allInputs = append(allInputs, in)
			}
		}
	}
	sort.Strings(allInputs)

	headers := []string{"state", "value"}
	headers = append(headers, allInputs...)
	data := [][]string{headers}

	for _, name := range d.StateNames() {
		s := d.States[name]
		label := name
		if name == d.Start {
			label = ">" + name
		}
		row := []string{label, fmt.Sprintf("%v", s.Value)}
		for _, in := range allInputs {
			row = append(row, s.Transitions[in])
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
