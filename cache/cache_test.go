package cache

import (
	"context"
	"testing"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/parse"
	"github.com/dekarrin/parsegen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exprGrammar() grammar.Grammar {
	g := grammar.New()
	g.AddTerm("+", types.MakeDefaultClass("+"))
	g.AddTerm("*", types.MakeDefaultClass("*"))
	g.AddTerm("(", types.MakeDefaultClass("("))
	g.AddTerm(")", types.MakeDefaultClass(")"))
	g.AddTerm("id", types.MakeDefaultClass("id"))

	g.AddRule("E", grammar.Production{"T", "E'"})
	g.AddRule("E'", grammar.Production{"+", "T", "E'"})
	g.AddRule("E'", grammar.Epsilon)
	g.AddRule("T", grammar.Production{"F", "T'"})
	g.AddRule("T'", grammar.Production{"*", "F", "T'"})
	g.AddRule("T'", grammar.Epsilon)
	g.AddRule("F", grammar.Production{"(", "E", ")"})
	g.AddRule("F", grammar.Production{"id"})

	g.SetStartSymbol("E")
	return g
}

func Test_Store_putAndGetRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	defer store.Close()

	g := exprGrammar()
	p, _, err := parse.NewLALR1Parser(g)
	require.NoError(t, err)

	hash := HashGrammar(g)
	ctx := context.Background()
	require.NoError(t, store.PutLRTable(ctx, "expr", hash, g, p.Table(), nil))

	entry, err := store.Get(ctx, "expr", hash)
	require.NoError(t, err)
	assert.Equal(t, "LALR(1)", entry.ParserType)

	wt, err := entry.Decode()
	require.NoError(t, err)
	assert.NotEmpty(t, wt.Symbols)
}

func Test_Store_getDetectsStaleHash(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	defer store.Close()

	g := exprGrammar()
	p, _, err := parse.NewLALR1Parser(g)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.PutLRTable(ctx, "expr", "hash-v1", g, p.Table(), nil))

	_, err = store.Get(ctx, "expr", "hash-v2")
	assert.ErrorIs(t, err, ErrStale)
}

func Test_Store_getMissingReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(context.Background(), "nope", "anyhash")
	assert.ErrorIs(t, err, ErrNotFound)
}
