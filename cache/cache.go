// Package cache persists compiled parse tables to a sqlite-backed store so
// a grammar's table only needs to be built once, keyed by a name chosen by
// the caller (typically the grammar file's path or a content hash).
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/parse"
	"github.com/dekarrin/parsegen/serialize"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a lookup finds no cached table under the
	// requested name.
	ErrNotFound = errors.New("no cached table under that name")

	// ErrStale is returned by Get when a cached table's stored grammar hash
	// no longer matches the hash passed in, meaning the grammar changed
	// since it was cached.
	ErrStale = errors.New("cached table is stale")
)

// Entry is one cached table, as handed back by Get.
type Entry struct {
	Name        string
	GrammarHash string
	ParserType  string
	Table       []byte // rezi-encoded serialize.WireTable
	Created     time.Time
}

// Store is a sqlite-backed cache of compiled parse tables.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a cache database file under dir.
func Open(dir string) (*Store, error) {
	file := filepath.Join(dir, "parsegen-cache.db")
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.initAuth(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS tables (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		grammar_hash TEXT NOT NULL,
		parser_type TEXT NOT NULL,
		table_data BLOB NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PutLRTable encodes t (built from g under name, with grammarHash
// identifying the grammar source it was built from) and stores or replaces
// the cache entry under name.
func (s *Store) PutLRTable(ctx context.Context, name, grammarHash string, g grammar.Grammar, t parse.LRParseTable, handlers *parse.Handlers) error {
	data, err := serialize.EncodeLRTable(g, t, handlers)
	if err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	return s.put(ctx, name, grammarHash, t.ParserType().String(), data)
}

// PutLL1Table is PutLRTable's counterpart for LL(1) tables.
func (s *Store) PutLL1Table(ctx context.Context, name, grammarHash string, g grammar.Grammar, t grammar.LL1Table, handlers *parse.Handlers) error {
	data, err := serialize.EncodeLL1Table(g, t, handlers)
	if err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	return s.put(ctx, name, grammarHash, "LL(1)", data)
}

func (s *Store) put(ctx context.Context, name, grammarHash, parserType string, data []byte) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("could not generate ID: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO tables (id, name, grammar_hash, parser_type, table_data, created)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET grammar_hash=excluded.grammar_hash, parser_type=excluded.parser_type, table_data=excluded.table_data, created=excluded.created`,
		id.String(), name, grammarHash, parserType, data, time.Now().Unix(),
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Get retrieves the cached table under name. If grammarHash does not match
// the hash it was cached under, ErrStale is returned alongside the stale
// Entry so the caller can decide whether to rebuild.
func (s *Store) Get(ctx context.Context, name, grammarHash string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT grammar_hash, parser_type, table_data, created FROM tables WHERE name = ?;`, name)

	var e Entry
	e.Name = name
	var created int64
	if err := row.Scan(&e.GrammarHash, &e.ParserType, &e.Table, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, wrapDBError(err)
	}
	e.Created = time.Unix(created, 0)

	if e.GrammarHash != grammarHash {
		return e, ErrStale
	}
	return e, nil
}

// Delete removes the cache entry under name, if any.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tables WHERE name = ?;`, name)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Decode decodes e.Table back into a serialize.WireTable.
func (e Entry) Decode() (*serialize.WireTable, error) {
	return serialize.DecodeLRTable(e.Table)
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return fmt.Errorf("table cache: constraint violation: %w", err)
		}
		return fmt.Errorf("table cache: %s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return err
}

// HashGrammar produces a stable content hash of g's productions and
// terminals, suitable as the grammarHash argument to PutLRTable/PutLL1Table/
// Get, using REZI's
// binary encoding of the grammar's numbered productions as the hash input.
func HashGrammar(g grammar.Grammar) string {
	type hashable struct {
		Terminals   []string
		Productions []grammar.NumberedProduction
	}
	h := hashable{Terminals: g.Terminals(), Productions: g.AllProductions()}
	data := rezi.EncBinary(h)
	sum := uint64(1469598103934665603) // FNV-1a offset basis
	for _, b := range data {
		sum ^= uint64(b)
		sum *= 1099511628211 // FNV-1a prime
	}
	return fmt.Sprintf("%016x", sum)
}
