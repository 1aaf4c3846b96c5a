// Package requestlog captures the requests the dispatcher has served, so
// test harnesses can assert what actually went over the wire: which
// requests arrived, whether they matched, and at which fallback step.
// It is distinct from operational logging (log/slog).
package requestlog

import "time"

// Entry is one captured dispatch: the inbound request and how it resolved.
type Entry struct {
	// ID is a unique identifier for the entry.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// Path is the request URL path.
	Path string `json:"path"`

	// Headers are the request headers as captured in the fingerprint. A
	// name repeated on the wire keeps every value, in arrival order.
	Headers map[string][]string `json:"headers,omitempty"`

	// Body is the request body.
	Body string `json:"body,omitempty"`

	// Matched reports whether a registered template served the request.
	Matched bool `json:"matched"`

	// FallbackStep names the cascade step that resolved the request
	// ("exact", "headers-cleared", ..., "unmatched").
	FallbackStep string `json:"fallbackStep"`

	// ResponseStatus is the status code returned.
	ResponseStatus int `json:"responseStatus"`

	// DurationMs is the dispatch time in milliseconds, including any
	// artificial template delay.
	DurationMs int `json:"durationMs"`
}

// Logger is the minimal interface the dispatcher needs to record entries.
type Logger interface {
	Log(entry *Entry)
}

// Store is the interface for dispatch history storage.
// Store embeds Logger, so any Store can be used where Logger is expected.
type Store interface {
	Logger

	// Get retrieves an entry by ID. Returns nil if not found.
	Get(id string) *Entry

	// List returns entries newest first, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all entries.
	Clear()

	// Count returns the number of stored entries.
	Count() int
}

// Filter defines criteria for filtering dispatch history.
type Filter struct {
	// Method filters by HTTP method.
	Method string

	// Path filters by path prefix.
	Path string

	// MatchedOnly keeps only entries served by a registered template.
	MatchedOnly bool

	// Limit is the maximum number of entries to return (0 = all).
	Limit int
}
