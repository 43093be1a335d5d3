// Package perr holds the error types shared across the grammar, automaton,
// lex, and parse packages. It contains the Error type, which can be created
// with one or more 'cause' errors; calling errors.Is on an Error with an
// argument matching any of its causes returns true.
//
// This package also holds the sentinel values identifying the four kinds of
// error the toolkit can produce: grammar construction, table construction
// conflicts, tokenization, and parsing, plus one for decoding serialized
// tables.
package perr

import "errors"

var (
	// ErrGrammar marks an error produced while validating or constructing a
	// Grammar (undefined symbols, unreachable non-terminals, a start symbol
	// with no productions, and the like).
	ErrGrammar = errors.New("grammar is not well-formed")

	// ErrConflict marks an error produced while building a parse table,
	// where two or more actions were found for the same state/symbol pair
	// and could not be resolved automatically.
	ErrConflict = errors.New("grammar is not valid for the requested parsing strategy")

	// ErrTokenization marks an error raised by a lexer, either because no
	// pattern matched the remaining input or because a lexer action
	// referenced an undefined start condition.
	ErrTokenization = errors.New("input could not be tokenized")

	// ErrSyntax marks an error raised by a parser driver when the token
	// stream does not belong to the language of the grammar being parsed.
	ErrSyntax = errors.New("syntax error")

	// ErrDecoding marks an error raised while decoding a serialized parse
	// table or grammar back into its in-memory form.
	ErrDecoding = errors.New("could not decode serialized data")
)

// Error is a typed error returned by functions in this module. It carries a
// message along with zero or more causes, and is compatible with errors.Is:
// calling errors.Is on an Error with any of its causes as the target returns
// true, which lets callers check which of the error kinds above they are
// looking at without type-asserting.
//
// Error should not be constructed directly; use New.
type Error struct {
	msg   string
	cause []error
}

// New creates a new Error with the given message and, optionally, one or
// more causes. Passing one of the sentinel Err* values from this package as a
// cause allows callers to later distinguish the error kind with errors.Is.
func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	if len(causes) > 0 {
		e.cause = make([]error, len(causes))
		copy(e.cause, causes)
	}
	return e
}

// Error returns the message defined for the Error, with the first cause's
// message appended if one exists.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of Error, for use with errors.Is/errors.As.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether Error is itself the target error, or wraps it as a
// cause.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg && len(e.cause) == len(errTarget.cause) {
			allEqual := true
			for i := range e.cause {
				if e.cause[i] != errTarget.cause[i] {
					allEqual = false
					break
				}
			}
			if allEqual {
				return true
			}
		}
	}
	for _, c := range e.cause {
		if c == target {
			return true
		}
	}
	return false
}
