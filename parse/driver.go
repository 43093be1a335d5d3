package parse

import (
	"errors"
	"strings"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/lex"
	"github.com/dekarrin/parsegen/perr"
	"github.com/dekarrin/parsegen/types"
)

// Tokenizer is the contract a caller-supplied tokenizer must satisfy to be
// installed on a Parser via SetTokenizer. It mirrors the three calls a
// driver actually needs to pull tokens; implement EOFTokenizer as well if
// "no more tokens" isn't simply the inverse of HasMoreTokens.
type Tokenizer interface {
	// InitString resets the tokenizer to scan input from the beginning.
	InitString(input string) error

	// HasMoreTokens reports whether GetNextToken has more to return before
	// the end-of-text token.
	HasMoreTokens() bool

	// GetNextToken returns the next token and advances past it.
	GetNextToken() types.Token
}

// EOFTokenizer is an optional extension to Tokenizer for tokenizers whose
// idea of "at EOF" differs from the negation of HasMoreTokens.
type EOFTokenizer interface {
	Tokenizer
	IsEOF() bool
}

// Options are the settings recognized by Parser.Parse. A zero Options
// selects the defaults the driver was built with.
type Options struct {
	// CaptureLocations is carried through to GetOptions and the
	// OnParseBegin hook. Start/end byte offsets and computed spans on parse
	// tree nodes and handler location arguments are produced whether or not
	// it is set.
	CaptureLocations bool

	// ResolveConflicts is carried through to GetOptions and the
	// OnParseBegin hook. Parser never builds a table itself (NewParser takes
	// an already-built driver), so it does not affect conflict handling;
	// use WithPrecedence or WithAmbiguityAllowed when building the driver.
	ResolveConflicts bool

	// Mode names the table algorithm in effect: one of "LR0", "SLR1",
	// "LALR1", "CLR1", "LL1". Set from the mode name passed to NewParser;
	// overriding it on a call to Parse has no effect, since the table is
	// already built.
	Mode string

	// CustomTokenizer reports whether a tokenizer other than the Parser's
	// default was installed via SetTokenizer.
	CustomTokenizer bool
}

// Result is what Parser.Parse returns on a successful parse.
type Result struct {
	Status string // always "accept" on a returned Result
	Value  any
}

// driver is the subset of LL1Parser/LRParser that Parser needs; both
// satisfy it already.
type driver interface {
	Parse(stream types.TokenStream) (types.ParseTree, error)
}

// Parser is the single embeddable entry point composing a tokenizer with a
// built LL1Parser or LRParser and the semantic-action contract, exposing
// the lifecycle hooks and option-scoping a generated or hand-assembled
// parser needs to provide callers. Parser is not reentrant: concurrent
// calls to Parse on one instance are not safe.
type Parser struct {
	drv     driver
	tok     Tokenizer
	opts    Options
	onBegin func(input string, t Tokenizer, opts Options)
	onEnd   func(value any)
}

// NewParser wraps an already-built LL1Parser or LRParser driver with a
// default tokenizer and the given mode name ("LL1", "LR0", "SLR1", "LALR1",
// or "CLR1"). The default tokenizer may be replaced with SetTokenizer.
func NewParser(drv driver, mode string, defaultLexer *lex.Lexer) *Parser {
	p := &Parser{
		drv:  drv,
		opts: Options{Mode: mode},
	}
	if defaultLexer != nil {
		p.tok = &lexTokenizer{lx: defaultLexer}
	}
	return p
}

// SetTokenizer installs t as the tokenizer Parse uses to scan input,
// replacing the default. Subsequent calls to GetOptions report
// CustomTokenizer as true.
func (p *Parser) SetTokenizer(t Tokenizer) {
	p.tok = t
	p.opts.CustomTokenizer = true
}

// OnParseBegin registers a hook invoked at the start of every Parse call,
// after the tokenizer has been initialized but before the first token is
// read, with the input, the active tokenizer, and the effective options.
func (p *Parser) OnParseBegin(fn func(input string, t Tokenizer, opts Options)) {
	p.onBegin = fn
}

// OnParseEnd registers a hook invoked with the semantic value of a
// successful parse, after the driver accepts and before Parse returns. It
// is not invoked on a syntax error.
func (p *Parser) OnParseEnd(fn func(value any)) {
	p.onEnd = fn
}

// GetOptions returns the options currently in effect. A call to Parse with
// non-nil opts temporarily overrides these for the duration of that call
// and restores the prior value before returning, regardless of outcome.
func (p *Parser) GetOptions() Options {
	return p.opts
}

// Parse scans input with the active tokenizer and runs it through the
// underlying driver, returning the accepted semantic value. opts, if
// non-nil, temporarily overrides the Parser's options for this call only;
// the prior options are restored before Parse returns either a Result or
// an error.
func (p *Parser) Parse(input string, opts *Options) (Result, error) {
	if p.tok == nil {
		return Result{}, errors.New("no tokenizer installed")
	}

	prior := p.opts
	if opts != nil {
		effective := *opts
		effective.Mode = prior.Mode
		effective.CustomTokenizer = prior.CustomTokenizer
		p.opts = effective
	}
	defer func() { p.opts = prior }()

	if err := p.tok.InitString(input); err != nil {
		return Result{}, perr.New("init tokenizer: "+err.Error(), perr.ErrTokenization)
	}

	if p.onBegin != nil {
		p.onBegin(input, p.tok, p.opts)
	}

	stream := &tokenizerStream{tok: p.tok}
	tree, err := p.drv.Parse(stream)
	if err != nil {
		return Result{}, err
	}

	val := p.resultValue(tree)
	if p.onEnd != nil {
		p.onEnd(val)
	}

	return Result{Status: "accept", Value: val}, nil
}

// resultValue extracts the semantic value of a completed parse. An LR
// driver parses over the augmented grammar, so its root is the synthetic
// $accept node (no handler bound to it); the real value is its first
// child's. An LL(1) driver's root is the start symbol itself.
func (p *Parser) resultValue(tree types.ParseTree) any {
	if _, ok := p.drv.(*LRParser); ok && len(tree.Children) > 0 {
		return tree.Children[0].Attr
	}
	return tree.Attr
}

// tokenizerStream adapts a Tokenizer (initString/hasMoreTokens/getNextToken
// shape) to the one-token-lookahead types.TokenStream the drivers need.
type tokenizerStream struct {
	tok       Tokenizer
	lookahead *types.Token
}

func (s *tokenizerStream) fill() {
	if s.lookahead != nil {
		return
	}
	var tok types.Token
	if s.tok.HasMoreTokens() {
		tok = s.tok.GetNextToken()
	} else {
		tok = types.NewToken(types.TokenEndOfText, "", "", 0, 0, 0, 0)
	}
	s.lookahead = &tok
}

func (s *tokenizerStream) Next() types.Token {
	s.fill()
	tok := *s.lookahead
	s.lookahead = nil
	return tok
}

func (s *tokenizerStream) Peek() types.Token {
	s.fill()
	return *s.lookahead
}

func (s *tokenizerStream) HasNext() bool {
	s.fill()
	if eofTok, ok := s.tok.(EOFTokenizer); ok {
		return !eofTok.IsEOF()
	}
	return s.lookahead.Class().ID() != grammar.EndOfTextSymbol
}

// lexTokenizer is the default Tokenizer, scanning the input string with a
// lex.Lexer one token at a time as the driver asks for them.
type lexTokenizer struct {
	lx     *lex.Lexer
	stream types.TokenStream
}

func (t *lexTokenizer) InitString(input string) error {
	stream, err := t.lx.Lex(strings.NewReader(input))
	if err != nil {
		return err
	}
	t.stream = stream
	return nil
}

func (t *lexTokenizer) HasMoreTokens() bool {
	return t.stream.HasNext()
}

func (t *lexTokenizer) GetNextToken() types.Token {
	return t.stream.Next()
}
