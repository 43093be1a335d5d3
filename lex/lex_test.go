package lex

import (
	"strings"
	"testing"

	"github.com/dekarrin/parsegen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, stream types.TokenStream) []types.Token {
	t.Helper()
	var toks []types.Token
	for stream.HasNext() {
		toks = append(toks, stream.Next())
	}
	return toks
}

func Test_Lexer_basicScanning(t *testing.T) {
	lx := NewLexer()
	lx.AddClass(types.MakeDefaultClass("num"), InitialCondition)
	lx.AddClass(types.MakeDefaultClass("plus"), InitialCondition)
	require.NoError(t, lx.AddPattern(`[0-9]+`, LexAs("num"), InitialCondition))
	require.NoError(t, lx.AddPattern(`\+`, LexAs("plus"), InitialCondition))
	require.NoError(t, lx.AddPattern(`\s+`, Discard(), InitialCondition))

	stream, err := lx.Lex(strings.NewReader("12 + 34"))
	require.NoError(t, err)

	toks := collect(t, stream)
	require.Len(t, toks, 3)
	assert.Equal(t, "num", toks[0].Class().ID())
	assert.Equal(t, "12", toks[0].Lexeme())
	assert.Equal(t, "plus", toks[1].Class().ID())
	assert.Equal(t, "num", toks[2].Class().ID())
	assert.Equal(t, "34", toks[2].Lexeme())
}

func Test_Lexer_unknownInputProducesErrorTokenThenRecovers(t *testing.T) {
	lx := NewLexer()
	lx.AddClass(types.MakeDefaultClass("num"), InitialCondition)
	require.NoError(t, lx.AddPattern(`[0-9]+`, LexAs("num"), InitialCondition))
	require.NoError(t, lx.AddPattern(`\s+`, Discard(), InitialCondition))

	stream, err := lx.Lex(strings.NewReader("12 @ 34"))
	require.NoError(t, err)

	first := stream.Next()
	assert.Equal(t, "num", first.Class().ID())

	errTok := stream.Next()
	assert.Equal(t, types.TokenError.ID(), errTok.Class().ID())

	last := stream.Next()
	assert.Equal(t, "num", last.Class().ID())
	assert.Equal(t, "34", last.Lexeme())
}

// Test_Lexer_startConditionStack exercises the push/pop semantics a
// quoted string containing an interpolated expression needs: entering the
// string body pushes STRING, entering an interpolation inside it pushes
// EXPR, and closing each context pops back to whatever was active before,
// without either side needing to know the other's name.
func Test_Lexer_startConditionStack(t *testing.T) {
	const (
		stateString = "STRING"
		stateExpr   = "EXPR"
	)

	lx := NewLexer()
	lx.AddClass(types.MakeDefaultClass("text"), stateString)
	lx.AddClass(types.MakeDefaultClass("id"), stateExpr)
	lx.AddClass(types.MakeDefaultClass("str_end"), stateString)

	require.NoError(t, lx.AddPattern(`"`, Push(stateString), InitialCondition))
	require.NoError(t, lx.AddPattern(`\$\{`, Push(stateExpr), stateString))
	require.NoError(t, lx.AddPattern(`[a-zA-Z]+`, LexAs("id"), stateExpr))
	require.NoError(t, lx.AddPattern(`\}`, Pop(), stateExpr))
	require.NoError(t, lx.AddPattern(`[^"${}]+`, LexAs("text"), stateString))
	require.NoError(t, lx.AddPattern(`"`, LexAndPop("str_end"), stateString))

	stream, err := lx.Lex(strings.NewReader(`"hi ${name}!"`))
	require.NoError(t, err)

	toks := collect(t, stream)
	require.Len(t, toks, 4)
	assert.Equal(t, "text", toks[0].Class().ID())
	assert.Equal(t, "hi ", toks[0].Lexeme())
	assert.Equal(t, "id", toks[1].Class().ID())
	assert.Equal(t, "name", toks[1].Lexeme())
	assert.Equal(t, "text", toks[2].Class().ID())
	assert.Equal(t, "!", toks[2].Lexeme())
	assert.Equal(t, "str_end", toks[3].Class().ID())
}

func Test_Lexer_popNeverGoesBelowInitial(t *testing.T) {
	lx := NewLexer()
	lx.AddClass(types.MakeDefaultClass("num"), InitialCondition)
	require.NoError(t, lx.AddPattern(`\)`, Pop(), InitialCondition))
	require.NoError(t, lx.AddPattern(`[0-9]+`, LexAs("num"), InitialCondition))

	stream, err := lx.Lex(strings.NewReader(")1"))
	require.NoError(t, err)

	tok := stream.Next()
	assert.Equal(t, "num", tok.Class().ID())
	assert.Equal(t, "1", tok.Lexeme())
}

func Test_Lexer_immediateLexFailsFastOnError(t *testing.T) {
	lx := NewLexer()
	lx.AddClass(types.MakeDefaultClass("num"), InitialCondition)
	require.NoError(t, lx.AddPattern(`[0-9]+`, LexAs("num"), InitialCondition))

	_, err := lx.ImmediatelyLex(strings.NewReader("1 2"))
	assert.Error(t, err)
}

// Test_Lexer_locationRoundTrips checks that every token's byte-offset span
// reproduces its own lexeme when sliced out of the original input.
func Test_Lexer_locationRoundTrips(t *testing.T) {
	lx := NewLexer()
	lx.AddClass(types.MakeDefaultClass("num"), InitialCondition)
	lx.AddClass(types.MakeDefaultClass("plus"), InitialCondition)
	require.NoError(t, lx.AddPattern(`[0-9]+`, LexAs("num"), InitialCondition))
	require.NoError(t, lx.AddPattern(`\+`, LexAs("plus"), InitialCondition))
	require.NoError(t, lx.AddPattern(`\s+`, Discard(), InitialCondition))

	const input = "12 + 345"
	stream, err := lx.Lex(strings.NewReader(input))
	require.NoError(t, err)

	for _, tok := range collect(t, stream) {
		loc := tok.Location()
		require.True(t, loc.Valid)
		assert.Equal(t, tok.Lexeme(), input[loc.Start:loc.End])
		assert.Equal(t, tok.Start(), loc.Start)
		assert.Equal(t, tok.End(), loc.End)
	}
}

func Test_Lexer_peekDoesNotAdvance(t *testing.T) {
	lx := NewLexer()
	lx.AddClass(types.MakeDefaultClass("num"), InitialCondition)
	require.NoError(t, lx.AddPattern(`[0-9]+`, LexAs("num"), InitialCondition))
	require.NoError(t, lx.AddPattern(`\s+`, Discard(), InitialCondition))

	stream, err := lx.Lex(strings.NewReader("1 2"))
	require.NoError(t, err)

	peeked := stream.Peek()
	assert.Equal(t, "1", peeked.Lexeme())
	again := stream.Next()
	assert.Equal(t, "1", again.Lexeme())
}
