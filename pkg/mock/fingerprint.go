// Package mock provides the request fingerprint and response template types
// that make up a mock table: the mapping from expected requests to canned
// responses served by the dispatcher.
package mock

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Pseudo-header names used in fingerprints, HTTP/2 style. The dispatcher
// records the request authority and scheme under these names so the
// transport-noise signature can be matched against them.
const (
	HeaderAuthority = ":authority"
	HeaderScheme    = ":scheme"
)

// Header is a single name/value pair in a fingerprint's header set.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Headers is a collection of header pairs. A nil Headers means "ignore
// headers when matching"; an empty non-nil Headers means "match a request
// carrying no headers". The two are never equal.
type Headers []Header

// Fingerprint is the normalized, comparable representation of an HTTP
// request. It is the key of the mock table: two fingerprints are equal iff
// their canonical keys are equal (structural equality over all four fields,
// header order ignored, nil distinct from empty).
type Fingerprint struct {
	// Path is the request URL path. Required, must start with "/".
	Path string `json:"path" yaml:"path"`

	// Method is the HTTP method. Empty means GET.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Headers are the headers to match. Nil means headers are ignored.
	Headers Headers `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Body is the body to match. Nil means the body is ignored; an empty
	// string matches only an empty body.
	Body *string `json:"body,omitempty" yaml:"body,omitempty"`
}

// BodyOf returns a pointer to s, for use as a Fingerprint body.
func BodyOf(s string) *string {
	return &s
}

// FingerprintFromRequest builds the fingerprint of an inbound request.
// All wire headers are captured with lowercased names, plus the
// :authority and :scheme pseudo-entries. The body is always concrete:
// a request with no body yields an empty string, not nil.
func FingerprintFromRequest(r *http.Request, body []byte) Fingerprint {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	hs := make(Headers, 0, len(r.Header)+2)
	hs = append(hs,
		Header{Name: HeaderAuthority, Value: r.Host},
		Header{Name: HeaderScheme, Value: scheme},
	)
	for name, values := range r.Header {
		for _, v := range values {
			hs = append(hs, Header{Name: strings.ToLower(name), Value: v})
		}
	}

	b := string(body)
	return Fingerprint{
		Path:    r.URL.Path,
		Method:  r.Method,
		Headers: hs,
		Body:    &b,
	}
}

// Validate checks that the fingerprint can serve as a table key.
func (f Fingerprint) Validate() error {
	if f.Path == "" {
		return fmt.Errorf("fingerprint path is required")
	}
	if !strings.HasPrefix(f.Path, "/") {
		return fmt.Errorf("fingerprint path %q must start with /", f.Path)
	}
	return nil
}

// WithoutBody returns a copy with the body cleared (set to "ignore").
func (f Fingerprint) WithoutBody() Fingerprint {
	f.Body = nil
	return f
}

// WithoutHeaders returns a copy with the headers cleared (set to "ignore").
func (f Fingerprint) WithoutHeaders() Fingerprint {
	f.Headers = nil
	return f
}

// Key returns the canonical serialization of the fingerprint, used as the
// mock table's hash key. Header names are lowercased and pairs are sorted,
// so header order and name case never affect equality. Absent headers/body
// serialize differently from empty ones.
func (f Fingerprint) Key() string {
	method := f.Method
	if method == "" {
		method = http.MethodGet
	}

	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(0x1f)
	b.WriteString(f.Path)
	b.WriteByte(0x1f)

	if f.Headers == nil {
		b.WriteByte('-')
	} else {
		pairs := make([]string, len(f.Headers))
		for i, h := range f.Headers {
			pairs[i] = strings.ToLower(h.Name) + "\x1d" + h.Value
		}
		sort.Strings(pairs)
		b.WriteByte('+')
		b.WriteString(strings.Join(pairs, "\x1e"))
	}
	b.WriteByte(0x1f)

	if f.Body == nil {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
		b.WriteString(*f.Body)
	}

	return b.String()
}

// Equal reports structural equality of two fingerprints.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Key() == other.Key()
}
