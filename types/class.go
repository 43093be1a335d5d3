// Package types holds the shared vocabulary used by the grammar, lex, and
// parse packages: token classes, tokens, token streams, and parse trees.
package types

import "strings"

// TokenClass identifies the lexical category a Token belongs to. Two classes
// with the same ID are considered the same class regardless of where they
// were constructed.
type TokenClass interface {
	// ID returns the ID of the token class. The ID must uniquely identify the
	// class within all terminals of a grammar.
	ID() string

	// Human returns a human-readable name for the token class, for use in
	// contexts such as error reporting.
	Human() string

	// Equal returns whether the TokenClass equals another.
	Equal(o any) bool
}

type simpleTokenClass string

func (class simpleTokenClass) ID() string {
	return strings.ToLower(string(class))
}

func (class simpleTokenClass) Human() string {
	return string(class)
}

func (class simpleTokenClass) Equal(o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		otherPtr, ok := o.(*TokenClass)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return other.ID() == class.ID()
}

const (
	// TokenUndefined is the class of a not-yet-classified token.
	TokenUndefined = simpleTokenClass("undefined_token")

	// TokenEndOfText is the class of the synthetic end-of-input token
	// produced once a token stream is exhausted.
	TokenEndOfText = simpleTokenClass("$")

	// TokenError is the class of a token a lexer produces in place of a real
	// token when no pattern matches the input; its lexeme carries a
	// human-readable description of the failure.
	TokenError = simpleTokenClass("error_token")
)

// MakeDefaultClass returns a TokenClass whose ID is the lower-cased input and
// whose human-readable name is the input unmodified.
func MakeDefaultClass(s string) TokenClass {
	return simpleTokenClass(s)
}
