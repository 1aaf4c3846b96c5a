package mock

import (
	"fmt"
	"sort"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

// Entry pairs an expected-request fingerprint with its canned response.
type Entry struct {
	Request  Fingerprint      `json:"request" yaml:"request"`
	Response ResponseTemplate `json:"response" yaml:"response"`
}

// Table is the immutable mapping from fingerprint to response template.
// It is built once, installed into the dispatcher, and only read after
// that, so concurrent lookups need no locking.
type Table struct {
	entries       map[string]Entry
	canonicalJSON bool
}

// TableOption configures table construction.
type TableOption func(*Table)

// WithJSONBodyCanonicalization re-encodes bodies that parse as JSON into a
// canonical form (sorted object keys, minimal encoding) on both registered
// fingerprints and lookups. Redundantly formatted JSON bodies then still
// hit the exact-match fallback steps. Bodies that are not valid JSON are
// left untouched.
func WithJSONBodyCanonicalization() TableOption {
	return func(t *Table) {
		t.canonicalJSON = true
	}
}

// NewTable builds a table from the given entries. Every fingerprint must
// validate; duplicate fingerprints are last-write-wins.
func NewTable(entries []Entry, opts ...TableOption) (*Table, error) {
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for _, opt := range opts {
		opt(t)
	}

	for i, e := range entries {
		if err := e.Request.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		e.Request = t.normalize(e.Request)
		t.entries[e.Request.Key()] = e
	}
	return t, nil
}

// Get looks up the response registered for a fingerprint structurally
// equal to f. The second return is false when no such entry exists.
func (t *Table) Get(f Fingerprint) (ResponseTemplate, bool) {
	e, ok := t.entries[t.normalize(f).Key()]
	if !ok {
		return ResponseTemplate{}, false
	}
	return e.Response, true
}

// Len returns the number of registered entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the table's entries sorted by canonical key, so
// iteration order is deterministic.
func (t *Table) Entries() []Entry {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = t.entries[k]
	}
	return out
}

// Annotated returns a new table with every response template carrying the
// diagnostic headers for its fingerprint's path. The receiver is unchanged.
func (t *Table) Annotated() *Table {
	out := &Table{
		entries:       make(map[string]Entry, len(t.entries)),
		canonicalJSON: t.canonicalJSON,
	}
	for k, e := range t.entries {
		e.Response = Annotate(e.Request.Path, e.Response)
		out.entries[k] = e
	}
	return out
}

// normalize applies the table's body canonicalization to a fingerprint.
func (t *Table) normalize(f Fingerprint) Fingerprint {
	if !t.canonicalJSON || f.Body == nil || *f.Body == "" {
		return f
	}
	v, err := oj.ParseString(*f.Body)
	if err != nil {
		return f
	}
	f.Body = BodyOf(oj.JSON(v, &ojg.Options{Sort: true}))
	return f
}
