package types

import "fmt"

// Location gives the position of a lexed token or a synthesized span of
// tokens within source text. A zero-value Location with Valid false
// represents "no location", used for values produced by epsilon-production
// semantic actions, which have no source text to point at.
//
// Start and End are 0-indexed byte offsets into the original input, such
// that input[Start:End] reproduces the token's lexeme exactly. Line and
// LinePos remain the 1-indexed line/column form used for error messages.
type Location struct {
	Valid   bool
	Line    int
	LinePos int
	Start   int
	End     int
}

// Span returns the smallest Location-pair covering both l and other, used to
// compute the location of a semantic value built from several RHS symbols. If
// neither side is valid, the result is invalid. If only one side is valid,
// that side is returned.
func (l Location) Span(other Location) Location {
	if !l.Valid {
		return other
	}
	if !other.Valid {
		return l
	}

	first, second := l, other
	if other.Start < l.Start {
		first, second = other, l
	}

	return Location{
		Valid:   true,
		Line:    first.Line,
		LinePos: first.LinePos,
		Start:   first.Start,
		End:     second.End,
	}
}

func (l Location) String() string {
	if !l.Valid {
		return "(no location)"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.LinePos)
}

// Token is a lexeme read from text combined with the token class it belongs
// to and enough context to build good error messages.
type Token interface {
	// Class returns the TokenClass of the Token.
	Class() TokenClass

	// Lexeme returns the text that was lexed as the token, verbatim from the
	// source.
	Lexeme() string

	// LinePos returns the 1-indexed column the token starts on.
	LinePos() int

	// Line returns the 1-indexed line number the token appears on.
	Line() int

	// FullLine returns the complete text of the source line the token
	// appears on.
	FullLine() string

	// Location returns the position of the token as a Location value.
	Location() Location

	// Start returns the 0-indexed byte offset of the token's first byte in
	// the original input.
	Start() int

	// End returns the 0-indexed byte offset one past the token's last byte
	// in the original input, such that input[Start():End()] == Lexeme().
	End() int

	String() string
}

type lexedToken struct {
	class   TokenClass
	lexed   string
	line    string
	linePos int
	lineNum int
	start   int
	end     int
}

// NewToken constructs a Token from its component parts. start and end are
// 0-indexed byte offsets into the original input such that
// input[start:end] == lexed.
func NewToken(class TokenClass, lexed, fullLine string, linePos, lineNum, start, end int) Token {
	return lexedToken{class: class, lexed: lexed, line: fullLine, linePos: linePos, lineNum: lineNum, start: start, end: end}
}

func (t lexedToken) Class() TokenClass { return t.class }
func (t lexedToken) Lexeme() string    { return t.lexed }
func (t lexedToken) LinePos() int      { return t.linePos }
func (t lexedToken) Line() int         { return t.lineNum }
func (t lexedToken) FullLine() string  { return t.line }
func (t lexedToken) Start() int        { return t.start }
func (t lexedToken) End() int          { return t.end }
func (t lexedToken) Location() Location {
	return Location{Valid: true, Line: t.lineNum, LinePos: t.linePos, Start: t.start, End: t.end}
}

func (t lexedToken) String() string {
	return fmt.Sprintf("(%s %q @ %d:%d)", t.class.ID(), t.lexed, t.lineNum, t.linePos)
}
