// Package pgutil holds small generic containers (sets, a stack) and text
// helpers shared by the grammar, automaton, lex, and parse packages. None of
// it is specific to any one of those packages, so it lives apart from all of
// them.
package pgutil

import (
	"fmt"
	"sort"
	"strings"
)

// StringSet is a set of strings, used throughout the grammar and automaton
// packages for terminal/non-terminal sets (FIRST, FOLLOW, PREDICT sets and
// the like).
type StringSet map[string]bool

// NewStringSet creates a StringSet populated with the union of the elements
// of every map given.
func NewStringSet(of ...map[string]bool) StringSet {
	s := StringSet{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// StringSetOf builds a StringSet from a slice, preserving no order.
func StringSetOf(sl []string) StringSet {
	s := StringSet{}
	for _, v := range sl {
		s.Add(v)
	}
	return s
}

func (s StringSet) Add(v string)      { s[v] = true }
func (s StringSet) Remove(v string)    { delete(s, v) }
func (s StringSet) Has(v string) bool  { _, ok := s[v]; return ok }
func (s StringSet) Len() int           { return len(s) }
func (s StringSet) Empty() bool        { return len(s) == 0 }

func (s StringSet) AddAll(o StringSet) {
	for k := range o {
		s.Add(k)
	}
}

func (s StringSet) Copy() StringSet {
	return NewStringSet(s)
}

func (s StringSet) Union(o StringSet) StringSet {
	n := s.Copy()
	n.AddAll(o)
	return n
}

func (s StringSet) Intersection(o StringSet) StringSet {
	n := StringSet{}
	for k := range s {
		if o.Has(k) {
			n.Add(k)
		}
	}
	return n
}

func (s StringSet) Difference(o StringSet) StringSet {
	n := s.Copy()
	for k := range o {
		n.Remove(k)
	}
	return n
}

func (s StringSet) DisjointWith(o StringSet) bool {
	for k := range s {
		if o.Has(k) {
			return false
		}
	}
	return true
}

// Elements returns the members of s, in no particular order.
func (s StringSet) Elements() []string {
	el := make([]string, 0, len(s))
	for k := range s {
		el = append(el, k)
	}
	return el
}

// Sorted returns the members of s in ascending lexical order.
func (s StringSet) Sorted() []string {
	el := s.Elements()
	sort.Strings(el)
	return el
}

// Equal returns whether s and o contain exactly the same elements.
func (s StringSet) Equal(o StringSet) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

func (s StringSet) String() string {
	return "{" + strings.Join(s.Elements(), ", ") + "}"
}

// StringOrdered is String but with elements sorted, for deterministic
// output (error messages, golden test fixtures).
func (s StringSet) StringOrdered() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}

// SVSet is a set of strings, each carrying an associated value, keyed so
// that membership and value lookup are both O(1). It is used for the LR item
// sets of canonical-collection states, each item keyed by its string form.
type SVSet[V any] map[string]V

func NewSVSet[V any](of ...map[string]V) SVSet[V] {
	s := SVSet[V]{}
	for _, m := range of {
		for k, v := range m {
			s[k] = v
		}
	}
	return s
}

func (s SVSet[V]) Add(k string)          { var zero V; if _, ok := s[k]; !ok { s[k] = zero } }
func (s SVSet[V]) Set(k string, v V)     { s[k] = v }
func (s SVSet[V]) Get(k string) V        { return s[k] }
func (s SVSet[V]) Has(k string) bool     { _, ok := s[k]; return ok }
func (s SVSet[V]) Remove(k string)       { delete(s, k) }
func (s SVSet[V]) Len() int              { return len(s) }
func (s SVSet[V]) Empty() bool           { return len(s) == 0 }

func (s SVSet[V]) Copy() SVSet[V] {
	return NewSVSet(s)
}

func (s SVSet[V]) Elements() []string {
	el := make([]string, 0, len(s))
	for k := range s {
		el = append(el, k)
	}
	return el
}

func (s SVSet[V]) Sorted() []string {
	el := s.Elements()
	sort.Strings(el)
	return el
}

func (s SVSet[V]) String() string {
	parts := make([]string, 0, len(s))
	for k, v := range s {
		parts = append(parts, fmt.Sprintf("%s: %v", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s SVSet[V]) StringOrdered() string {
	keys := s.Sorted()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, s[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
