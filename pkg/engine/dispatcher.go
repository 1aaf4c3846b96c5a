package engine

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mockinizer/mockinizer/internal/matching"
	"github.com/mockinizer/mockinizer/pkg/logging"
	"github.com/mockinizer/mockinizer/pkg/mock"
	"github.com/mockinizer/mockinizer/pkg/requestlog"
)

// Dispatcher adapts the HTTP server's per-request callback to the fallback
// matcher. It holds a read-only reference to the installed table and no
// other state, so it is safe to invoke from any number of connection
// goroutines. Dispatch is total: every request gets a response, unmatched
// ones the default 404.
type Dispatcher struct {
	table    *mock.Table
	log      *slog.Logger
	requests requestlog.Logger
}

// NewDispatcher creates a Dispatcher serving the given table.
func NewDispatcher(table *mock.Table) *Dispatcher {
	return &Dispatcher{
		table: table,
		log:   logging.Nop(),
	}
}

// SetLogger sets the operational logger.
func (d *Dispatcher) SetLogger(log *slog.Logger) {
	if log != nil {
		d.log = log
	}
}

// SetRequestLog sets the dispatch history logger. Nil disables capture.
func (d *Dispatcher) SetRequestLog(rl requestlog.Logger) {
	d.requests = rl
}

// ServeHTTP implements http.Handler. A missing or unreadable body is
// treated as empty, never as a fault.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
	}

	f := mock.FingerprintFromRequest(r, body)
	rt, step := matching.Resolve(f, d.table)

	if rt.DelayMs > 0 {
		time.Sleep(time.Duration(rt.DelayMs) * time.Millisecond)
	}

	for name, value := range rt.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(rt.StatusCode)
	if rt.Body != "" {
		_, _ = io.WriteString(w, rt.Body)
	}

	d.log.Debug("dispatched request",
		"method", f.Method,
		"path", f.Path,
		"step", step.String(),
		"status", rt.StatusCode,
	)

	if d.requests != nil {
		headers := make(map[string][]string, len(f.Headers))
		for _, h := range f.Headers {
			headers[h.Name] = append(headers[h.Name], h.Value)
		}
		d.requests.Log(&requestlog.Entry{
			Method:         f.Method,
			Path:           f.Path,
			Headers:        headers,
			Body:           string(body),
			Matched:        step.Matched(),
			FallbackStep:   step.String(),
			ResponseStatus: rt.StatusCode,
			DurationMs:     int(time.Since(start).Milliseconds()),
		})
	}
}

// Ensure Dispatcher implements http.Handler.
var _ http.Handler = (*Dispatcher)(nil)
