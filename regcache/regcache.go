// Package regcache provides anchored regular expressions with memoized match results.
//
// Token texts are interned, so the same text is usually tested against the same
// expression many times during a parse. Every Regex remembers its verdicts both
// by interned ID and by raw string. Regexes obtained from one Pool share the
// compiled expression and the memo when their anchored texts are equal.
package regcache

import (
	"regexp"
	"sync"

	"github.com/ava12/prd/intern"
)

// Mode defines how a pattern is anchored.
type Mode int

const (
	// Full pattern must match the whole tested text.
	Full Mode = iota
	// Prefix pattern must match at the start of the tested text.
	Prefix
	// Munch is Prefix with leftmost-longest semantics, used for tokenizing.
	Munch
)

var modeNames = [...]string{"full", "prefix", "munch"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Anchor returns the text actually compiled for pattern in given mode.
func Anchor(pattern string, mode Mode) string {
	if mode == Full {
		return `\A(?:` + pattern + `)\z`
	}
	return `\A(?:` + pattern + `)`
}

const (
	unknown byte = iota
	mismatch
	match
)

type memo struct {
	mu     sync.RWMutex
	byID   []byte
	byText map[string]bool
}

func (m *memo) getID(id intern.ID) byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if int(id) < len(m.byID) {
		return m.byID[id]
	}
	return unknown
}

func (m *memo) setID(id intern.ID, v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(id) >= len(m.byID) {
		grown := make([]byte, int(id)+1, 2*int(id)+16)
		copy(grown, m.byID)
		m.byID = grown
	}
	if v {
		m.byID[id] = match
	} else {
		m.byID[id] = mismatch
	}
}

func (m *memo) getText(s string) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, has := m.byText[s]
	return v, has
}

func (m *memo) setText(s string, v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byText == nil {
		m.byText = make(map[string]bool)
	}
	m.byText[s] = v
}

// Regex is a compiled anchored pattern with a match memo.
// Regex is safe for concurrent use.
type Regex struct {
	pattern string
	mode    Mode
	re      *regexp.Regexp
	memo    *memo
}

// Compile compiles pattern anchored according to mode.
// Returned Regex has its own memo.
func Compile(pattern string, mode Mode) (*Regex, error) {
	re, e := regexp.Compile(Anchor(pattern, mode))
	if e != nil {
		return nil, e
	}

	if mode == Munch {
		re.Longest()
	}
	return &Regex{pattern, mode, re, &memo{}}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be parsed.
func MustCompile(pattern string, mode Mode) *Regex {
	r, e := Compile(pattern, mode)
	if e != nil {
		panic(e)
	}
	return r
}

// Pattern returns the pattern as written, without anchors.
func (r *Regex) Pattern() string {
	return r.pattern
}

// Mode returns anchoring mode.
func (r *Regex) Mode() Mode {
	return r.mode
}

// String returns anchored pattern text.
func (r *Regex) String() string {
	return r.re.String()
}

// Regexp returns compiled expression.
func (r *Regex) Regexp() *regexp.Regexp {
	return r.re
}

// MatchString tests s, consulting the text memo first.
func (r *Regex) MatchString(s string) bool {
	if v, has := r.memo.getText(s); has {
		return v
	}

	v := r.re.MatchString(s)
	r.memo.setText(s, v)
	return v
}

// MatchID tests the string interned as id in strs, consulting the ID memo first.
func (r *Regex) MatchID(id intern.ID, strs *intern.Table) bool {
	switch r.memo.getID(id) {
	case match:
		return true
	case mismatch:
		return false
	}

	v := r.re.MatchString(strs.Value(id))
	r.memo.setID(id, v)
	return v
}

// FindLen returns the length of the match at the start of s or -1.
func (r *Regex) FindLen(s string) int {
	loc := r.re.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return loc[1]
}

type poolKey struct {
	text string
	mode Mode
}

// Pool shares Regexes between all users of the same anchored pattern.
// The zero value of Pool is empty and ready to use.
type Pool struct {
	mu      sync.Mutex
	regexes map[poolKey]*Regex
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{regexes: make(map[poolKey]*Regex)}
}

// Get returns pooled Regex for pattern and mode, compiling it on first request.
// Regexes differing only in pattern text but anchored identically share the memo.
func (p *Pool) Get(pattern string, mode Mode) (*Regex, error) {
	key := poolKey{Anchor(pattern, mode), mode}

	p.mu.Lock()
	defer p.mu.Unlock()

	if r, has := p.regexes[key]; has {
		return r, nil
	}

	r, e := Compile(pattern, mode)
	if e != nil {
		return nil, e
	}

	if p.regexes == nil {
		p.regexes = make(map[poolKey]*Regex)
	}
	p.regexes[key] = r
	return r, nil
}

// Len returns the number of distinct pooled regexes.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.regexes)
}
