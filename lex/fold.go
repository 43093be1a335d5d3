package lex

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// foldCaser case-folds start-condition names and token-class IDs so that
// e.g. a pattern registered under "Strings" and an action naming "STRINGS"
// refer to the same start condition, the same way the teacher's callers
// of golang.org/x/text/cases expect comparisons of user-supplied names to
// be insensitive to case.
var foldCaser = cases.Fold()

// foldKey normalizes a start-condition name or token-class ID before it is
// used as a map key, so registration and lookup agree regardless of the
// case the caller used.
func foldKey(s string) string {
	return foldCaser.String(s)
}
