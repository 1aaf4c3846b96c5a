package mock

import (
	"fmt"
	"net/http"
)

// Version is the mockinizer release version, reported in the diagnostic
// Server header on every registered response.
const Version = "1.2.0"

const author = "mockinizer.dev"

// Diagnostic headers appended to every registered response template at
// registry init time. The default 404 never carries them.
const (
	DiagnosticHeader = "Mockinizer"
	ServerHeader     = "Server"
)

// ResponseTemplate specifies the canned HTTP response returned for a
// matching fingerprint.
type ResponseTemplate struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string            `json:"body,omitempty" yaml:"body,omitempty"`

	// DelayMs is an artificial latency applied before the response is
	// written, in milliseconds.
	DelayMs int `json:"delayMs,omitempty" yaml:"delayMs,omitempty"`
}

// String returns a compact human-readable form of the template, used in
// the diagnostic Mockinizer header.
func (rt ResponseTemplate) String() string {
	if rt.Body == "" {
		return fmt.Sprintf("{status %d}", rt.StatusCode)
	}
	return fmt.Sprintf("{status %d, body %s}", rt.StatusCode, rt.Body)
}

// Annotate returns a copy of the template with the two diagnostic headers
// set for the given request path. Existing diagnostic headers are replaced,
// never duplicated, so annotating twice is a no-op. The input template is
// not modified.
func Annotate(path string, rt ResponseTemplate) ResponseTemplate {
	headers := make(map[string]string, len(rt.Headers)+2)
	for k, v := range rt.Headers {
		headers[k] = v
	}
	// Compute the string form from the un-annotated body/status so the
	// value is stable across repeated annotation.
	headers[DiagnosticHeader] = fmt.Sprintf(" <-- Real request %s is now mocked to %s", path, rt.String())
	headers[ServerHeader] = fmt.Sprintf("Mockinizer %s by %s", Version, author)

	rt.Headers = headers
	return rt
}

// NotFound returns the default response for unmatched requests: status 404,
// no headers, no body. Built fresh per call and never annotated.
func NotFound() ResponseTemplate {
	return ResponseTemplate{StatusCode: http.StatusNotFound}
}
