package lex

import (
	"io"
	"math"
	"regexp"
	"unicode/utf8"

	"github.com/dekarrin/parsegen/types"
)

// lazyLex is the active types.TokenStream returned by Lexer.Lex: it scans
// tokens on demand, one Next() call at a time.
type lazyLex struct {
	r *regexReader

	// stack is the start-condition stack. stack[0] starts as
	// InitialCondition; Pop never removes it, though Begin replaces it when
	// it is the only entry.
	stack []string

	curLine     int
	curPos      int
	curFullLine string
	tokStart    int

	done      bool
	panicMode bool

	classes  map[string]map[string]types.TokenClass
	actions  map[string][]Action
	patterns map[string]*regexp.Regexp
}

func (lx *lazyLex) state() string {
	return lx.stack[len(lx.stack)-1]
}

func (lx *lazyLex) beginState(to string) {
	lx.stack[len(lx.stack)-1] = to
}

func (lx *lazyLex) pushState(to string) {
	lx.stack = append(lx.stack, to)
}

func (lx *lazyLex) popState() {
	if len(lx.stack) > 1 {
		lx.stack = lx.stack[:len(lx.stack)-1]
	}
}

// Next returns the next token in the stream and advances past it. Once the
// stream is exhausted, it returns an endless sequence of types.TokenEndOfText
// tokens. When no pattern matches at the current position, it returns a
// token of class types.TokenError and enters panic mode, discarding input
// one rune at a time until a pattern matches again. When the underlying
// reader fails, it returns a types.TokenError token and the stream ends.
func (lx *lazyLex) Next() types.Token {
	if lx.done {
		return lx.makeEOT()
	}

	for {
		state := lx.state()
		pat := lx.patterns[state]
		stateActions := lx.actions[state]
		stateClasses := lx.classes[state]

		if lx.panicMode {
			ch, _, err := lx.r.ReadRune()
			if err != nil {
				return lx.tokenForReadError(err)
			}
			lx.advancePosition(string(ch))

			lx.tokStart = lx.r.cur
			matches, err := lx.r.searchAndAdvance(pat)
			if err != nil {
				return lx.tokenForReadError(err)
			}
			if matches == nil {
				continue
			}
			lx.panicMode = false
			return lx.applyMatch(matches, stateActions, stateClasses)
		}

		lx.tokStart = lx.r.cur
		matches, err := lx.r.searchAndAdvance(pat)
		if err != nil {
			return lx.tokenForReadError(err)
		}
		if matches == nil {
			lx.panicMode = true
			return lx.makeErrorToken("no pattern matches input")
		}

		if tok, produced := lx.applyMatchOrContinue(matches, stateActions, stateClasses); produced {
			return tok
		}
	}
}

// applyMatch is applyMatchOrContinue for the panic-mode recovery path,
// where a non-scanning action (ActionDiscard, a bare state change) still
// counts as recovery and the caller loops again for a real token.
func (lx *lazyLex) applyMatch(matches []string, actions []Action, classes map[string]types.TokenClass) types.Token {
	if tok, produced := lx.applyMatchOrContinue(matches, actions, classes); produced {
		return tok
	}
	return lx.Next()
}

// applyMatchOrContinue selects the winning submatch, runs its action, and
// reports whether a token was produced (false means the caller's scan loop
// should try again).
func (lx *lazyLex) applyMatchOrContinue(matches []string, actions []Action, classes map[string]types.TokenClass) (types.Token, bool) {
	actionIdx, lexeme := selectMatch(matches)
	defer lx.advancePosition(lexeme)
	action := actions[actionIdx]

	switch action.Type {
	case ActionDiscard:
		return types.Token(nil), false
	case ActionScan:
		return lx.makeToken(classes[action.ClassID], lexeme), true
	case ActionBegin:
		lx.beginState(action.State)
		return types.Token(nil), false
	case ActionScanAndBegin:
		tok := lx.makeToken(classes[action.ClassID], lexeme)
		lx.beginState(action.State)
		return tok, true
	case ActionPush:
		lx.pushState(action.State)
		return types.Token(nil), false
	case ActionScanAndPush:
		tok := lx.makeToken(classes[action.ClassID], lexeme)
		lx.pushState(action.State)
		return tok, true
	case ActionPop:
		lx.popState()
		return types.Token(nil), false
	case ActionScanAndPop:
		tok := lx.makeToken(classes[action.ClassID], lexeme)
		lx.popState()
		return tok, true
	}
	return types.Token(nil), false
}

func (lx *lazyLex) advancePosition(lexeme string) {
	for _, ch := range lexeme {
		if ch == '\n' {
			lx.curLine++
			lx.curPos = 0
			lx.curFullLine = ""
		}
		lx.curPos++
		lx.curFullLine += string(ch)
	}
}

// Peek returns the next token without advancing the stream, by running a
// full Next() against a snapshot of all mutable state and then restoring it.
func (lx *lazyLex) Peek() types.Token {
	lx.r.mark("peek")
	stack := append([]string{}, lx.stack...)
	fullLine, line, pos := lx.curFullLine, lx.curLine, lx.curPos
	done, panicking := lx.done, lx.panicMode
	tokStart := lx.tokStart

	tok := lx.Next()

	lx.r.restore("peek")
	lx.stack = stack
	lx.curFullLine, lx.curLine, lx.curPos = fullLine, line, pos
	lx.done, lx.panicMode = done, panicking
	lx.tokStart = tokStart

	return tok
}

// HasNext returns whether the stream has any tokens left besides the
// terminal, endlessly-repeating end-of-text token. This peeks ahead rather
// than trusting lx.done alone, since done is only discovered the moment a
// scan actually runs past the end of input.
func (lx *lazyLex) HasNext() bool {
	if lx.done {
		return false
	}
	return lx.Peek().Class().ID() != types.TokenEndOfText.ID()
}

func (lx *lazyLex) makeToken(class types.TokenClass, lexeme string) types.Token {
	return types.NewToken(class, lexeme, lx.curFullLine, lx.curPos, lx.curLine, lx.tokStart, lx.r.cur)
}

func (lx *lazyLex) makeEOT() types.Token {
	return lx.makeToken(types.TokenEndOfText, "")
}

func (lx *lazyLex) makeErrorToken(msg string) types.Token {
	return lx.makeToken(types.TokenError, msg)
}

func (lx *lazyLex) tokenForReadError(err error) types.Token {
	lx.done = true
	if err == io.EOF {
		lx.panicMode = false
		return lx.makeEOT()
	}
	return lx.makeErrorToken("I/O error: " + err.Error())
}

// selectMatch picks which capturing group of a composed alternation matched:
// on a tie (can only happen if sub-patterns overlap), the longest match
// wins, and ties on length go to whichever pattern was registered first.
func selectMatch(candidates []string) (idx int, lexeme string) {
	found := map[int]string{}
	for i := 1; i < len(candidates); i++ {
		if candidates[i] != "" {
			found[i-1] = candidates[i]
		}
	}

	if len(found) > 1 {
		longest := 0
		for _, m := range found {
			if n := utf8.RuneCountInString(m); n > longest {
				longest = n
			}
		}
		for i, m := range found {
			if utf8.RuneCountInString(m) != longest {
				delete(found, i)
			}
		}
	}

	if len(found) > 1 {
		lowest := math.MaxInt
		for i := range found {
			if i < lowest {
				lowest = i
			}
		}
		return lowest, found[lowest]
	}

	for i, m := range found {
		return i, m
	}
	return 0, ""
}
