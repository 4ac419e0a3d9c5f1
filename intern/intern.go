// Package intern provides the string table shared by a compiled grammar,
// the tokens produced for it, and the trees built from those tokens.
package intern

import (
	"fmt"
	"sync"

	"github.com/ava12/prd/internal/bmap"
)

// ID is an interned string in a particular Table.
// IDs are dense: the n-th distinct string interned into a table gets ID n-1.
type ID uint32

// String implements fmt.Stringer.
// It does not convert the ID back into a string, use Table.Value for that.
func (id ID) String() string {
	return fmt.Sprintf("intern.ID(%d)", uint32(id))
}

// Table is an interning table. Strings are never removed.
//
// The zero value of Table is empty and ready to use.
// All methods may be called by multiple goroutines concurrently.
type Table struct {
	mu    sync.RWMutex
	index bmap.BMap[ID]
	table []string
}

// NewTable creates an empty table with room for size strings.
func NewTable(size int) *Table {
	return &Table{
		index: *bmap.New[ID](size),
		table: make([]string, 0, size),
	}
}

// Intern interns the given string into this table.
func (t *Table) Intern(s string) ID {
	if id, ok := t.Query(s); ok {
		return id
	}

	return t.internSlow(nil, s)
}

// InternBytes interns the given byte string into this table.
// Does not allocate if the string is already known.
// bytes may be reused by the caller after the function returns.
func (t *Table) InternBytes(bytes []byte) ID {
	if id, ok := t.QueryBytes(bytes); ok {
		return id
	}

	return t.internSlow(bytes, "")
}

// Query will query whether s has already been interned.
func (t *Table) Query(s string) (ID, bool) {
	t.mu.RLock()
	id, ok := t.index.GetString(s)
	t.mu.RUnlock()
	return id, ok
}

// QueryBytes is the same as Query for a byte string.
func (t *Table) QueryBytes(bytes []byte) (ID, bool) {
	t.mu.RLock()
	id, ok := t.index.Get(bytes)
	t.mu.RUnlock()
	return id, ok
}

func (t *Table) internSlow(bytes []byte, s string) ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	if bytes == nil {
		bytes = []byte(s)
	}
	if id, ok := t.index.Get(bytes); ok {
		return id
	}

	if uint64(len(t.table)) >= 1<<32-1 {
		panic(fmt.Sprintf("intern: %d interning IDs exhausted", len(t.table)))
	}

	id := ID(len(t.table))
	t.table = append(t.table, t.index.Set(bytes, id))
	return id
}

// Value converts an ID back into its corresponding string.
// Returns empty string for an ID unknown to this table.
func (t *Table) Value(id ID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(id) >= len(t.table) {
		return ""
	}
	return t.table[id]
}

// Has tells whether id was issued by this table.
func (t *Table) Has(id ID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int(id) < len(t.table)
}

// Len returns the number of interned strings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.table)
}
