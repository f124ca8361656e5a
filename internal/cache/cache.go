// Package cache persists the ancestor builder's per-(TypeName, kind) results
// across CLI invocations, keyed by a content hash of the loaded source
// buffers (spec §4.4: "memoized per (TypeName, kind); rebuilding is
// required if the environment changes"). The in-process memoization in
// internal/ancestors remains the source of truth; this is purely an
// optional speedup layer.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sigtools/sig/internal/ancestors"
)

// Cache wraps a sqlite-backed row store of ancestor lists.
type Cache struct {
	db    *sql.DB
	runID string
}

// Open opens (creating if absent) the sqlite database at path and ensures
// its schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db, runID: uuid.NewString()}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }

// RunID is a fresh identifier for this process's cache session. It is not
// written to the cache rows, and nothing in this module logs it.
func (c *Cache) RunID() string { return c.runID }

const schema = `
CREATE TABLE IF NOT EXISTS ancestor_lists (
	type_name    TEXT NOT NULL,
	kind         INTEGER NOT NULL,
	content_hash TEXT NOT NULL,
	payload      TEXT NOT NULL,
	PRIMARY KEY (type_name, kind, content_hash)
);
`

// ancestorDTO is the JSON-serializable projection of ancestors.Ancestor:
// Args (a []sigast.Type) can't round-trip through encoding/json without a
// custom codec for every Type variant, and the cache only needs the
// linearization shape to answer "what is C's ancestor list", not the exact
// type arguments each mixin was applied with — callers that need those
// re-resolve from the live environment on a cache miss.
type ancestorDTO struct {
	Variant       int    `json:"variant"`
	Name          string `json:"name"`
	ExtensionName string `json:"extension_name,omitempty"`
}

// ContentHash hashes a set of source buffers (file path -> contents) into a
// stable cache key, so any edit anywhere in the loaded sources invalidates
// every cached row at once — coarse, but correct, and cheap to compute.
func ContentHash(sources map[string][]byte) string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(sources[name])
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached ancestor list for (typeName, kind) under
// contentHash, if present.
func (c *Cache) Get(typeName string, kind ancestors.Kind, contentHash string) ([]ancestors.Ancestor, bool, error) {
	row := c.db.QueryRow(
		`SELECT payload FROM ancestor_lists WHERE type_name = ? AND kind = ? AND content_hash = ?`,
		typeName, int(kind), contentHash,
	)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	var dtos []ancestorDTO
	if err := json.Unmarshal([]byte(payload), &dtos); err != nil {
		return nil, false, fmt.Errorf("decoding cached ancestor list for %s: %w", typeName, err)
	}
	out := make([]ancestors.Ancestor, len(dtos))
	for i, d := range dtos {
		out[i] = ancestors.Ancestor{
			Variant:       ancestors.Variant(d.Variant),
			Name:          d.Name,
			ExtensionName: d.ExtensionName,
		}
	}
	return out, true, nil
}

// Put stores an ancestor list for (typeName, kind) under contentHash.
func (c *Cache) Put(typeName string, kind ancestors.Kind, contentHash string, list []ancestors.Ancestor) error {
	dtos := make([]ancestorDTO, len(list))
	for i, a := range list {
		dtos[i] = ancestorDTO{Variant: int(a.Variant), Name: a.Name, ExtensionName: a.ExtensionName}
	}
	payload, err := json.Marshal(dtos)
	if err != nil {
		return fmt.Errorf("encoding ancestor list for %s: %w", typeName, err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO ancestor_lists (type_name, kind, content_hash, payload) VALUES (?, ?, ?, ?)`,
		typeName, int(kind), contentHash, string(payload),
	)
	return err
}
