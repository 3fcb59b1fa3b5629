// Package store implements the optional sqlite-backed spillover named in
// spec §5 ("a pool-backed allocator... recommended because a pass may create
// tens of millions of records"): a disk-backed mapping from StateID to its
// CompressedState encoding, for models whose state count would otherwise
// exceed memory. The in-memory default (internal/stateindex) needs no
// spillover for ordinary models; Store is opt-in.
//
// Grounded in the pack's own use of modernc.org/sqlite via database/sql
// (hazyhaar-chrc/horos47/services/gpufeeder/submitter.go:
// sql.Open("sqlite", dsn)).
package store

import (
	"database/sql"
	"encoding/binary"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
)

// Store persists CompressedState values keyed by StateID in a single sqlite
// table, opened at path (use ":memory:" for a throwaway database in tests).
type Store struct {
	db *sql.DB
}

// Open creates or reuses the states table at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS states (
		id INTEGER PRIMARY KEY,
		words BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put persists state under id, overwriting any previous value.
func (s *Store) Put(id oracle.StateID, state oracle.CompressedState) error {
	_, err := s.db.Exec(
		`INSERT INTO states (id, words) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET words = excluded.words`,
		int64(id), encodeWords(state),
	)
	if err != nil {
		return fmt.Errorf("store: putting state %d: %w", id, err)
	}
	return nil
}

// Get retrieves the state stored at id, and reports whether it was found.
func (s *Store) Get(id oracle.StateID) (oracle.CompressedState, bool, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT words FROM states WHERE id = ?`, int64(id)).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: getting state %d: %w", id, err)
	}
	return decodeWords(blob), true, nil
}

// Count returns the number of states currently persisted.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM states`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: counting states: %w", err)
	}
	return n, nil
}

func encodeWords(state oracle.CompressedState) []byte {
	out := make([]byte, len(state)*8)
	for i, word := range state {
		binary.LittleEndian.PutUint64(out[i*8:], word)
	}
	return out
}

func decodeWords(blob []byte) oracle.CompressedState {
	state := make(oracle.CompressedState, len(blob)/8)
	for i := range state {
		state[i] = binary.LittleEndian.Uint64(blob[i*8:])
	}
	return state
}
