package lex

// ActionType identifies what a matched pattern causes the lexer to do.
type ActionType int

const (
	// ActionDiscard matches and discards the lexeme without producing a
	// token (for whitespace, comments, and the like).
	ActionDiscard ActionType = iota

	// ActionScan matches, produces a token of the given class, and leaves
	// the start-condition stack untouched.
	ActionScan

	// ActionBegin matches, discards the lexeme, and replaces the top of the
	// start-condition stack with a new condition (flex's "BEGIN").
	ActionBegin

	// ActionScanAndBegin matches, produces a token, and then replaces the
	// top of the start-condition stack.
	ActionScanAndBegin

	// ActionPush matches, discards the lexeme, and pushes a new condition
	// onto the start-condition stack.
	ActionPush

	// ActionScanAndPush matches, produces a token, and then pushes a new
	// condition onto the start-condition stack.
	ActionScanAndPush

	// ActionPop matches, discards the lexeme, and pops the start-condition
	// stack. Popping the lone INITIAL condition off the stack is a no-op.
	ActionPop

	// ActionScanAndPop matches, produces a token, and then pops the
	// start-condition stack.
	ActionScanAndPop
)

// Action describes what a lexer does when a pattern matches: some
// combination of producing a token and changing the current start
// condition, which is tracked as a stack so that nested lexical contexts
// (string interpolation inside a string inside a template, say) can return
// to their enclosing condition with Pop instead of having to know its name.
type Action struct {
	Type    ActionType
	ClassID string
	State   string
}

// Discard performs no scan and leaves the condition stack alone.
func Discard() Action {
	return Action{Type: ActionDiscard}
}

// LexAs scans the lexeme as a token of the given class.
func LexAs(classID string) Action {
	return Action{Type: ActionScan, ClassID: foldKey(classID)}
}

// Begin replaces the current start condition with toState.
func Begin(toState string) Action {
	return Action{Type: ActionBegin, State: foldKey(toState)}
}

// LexAndBegin scans the lexeme as a token of the given class, then replaces
// the current start condition with toState.
func LexAndBegin(classID, toState string) Action {
	return Action{Type: ActionScanAndBegin, ClassID: foldKey(classID), State: foldKey(toState)}
}

// Push enters a new start condition, remembering the current one.
func Push(toState string) Action {
	return Action{Type: ActionPush, State: foldKey(toState)}
}

// LexAndPush scans the lexeme as a token of the given class, then enters a
// new start condition.
func LexAndPush(classID, toState string) Action {
	return Action{Type: ActionScanAndPush, ClassID: foldKey(classID), State: foldKey(toState)}
}

// Pop scans nothing and returns to the start condition active before the
// most recent Push.
func Pop() Action {
	return Action{Type: ActionPop}
}

// LexAndPop scans the lexeme as a token of the given class, then returns to
// the start condition active before the most recent Push.
func LexAndPop(classID string) Action {
	return Action{Type: ActionScanAndPop, ClassID: foldKey(classID)}
}
