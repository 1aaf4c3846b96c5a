package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mockinizer/mockinizer/pkg/logging"
	"github.com/mockinizer/mockinizer/pkg/mock"
	"github.com/mockinizer/mockinizer/pkg/requestlog"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 5 * time.Second

// Registry owns the currently active mock server handle and its installed
// table. It is an explicitly constructed value: the harness that composes
// server and client holds it and drives the lifecycle. Before Init, Start
// and ShutDown are silent no-ops.
//
// Init, Start, and ShutDown must be serialized by the caller with respect
// to each other (single-threaded test setup); dispatch itself is lock-free
// reads of the immutable installed table.
type Registry struct {
	mu       sync.Mutex
	server   *Server
	table    *mock.Table
	log      *slog.Logger
	requests requestlog.Store
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the operational logger, passed through to the
// dispatcher on Init.
func WithRegistryLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRequestLog sets the dispatch history store. Pass nil to disable
// capture.
func WithRequestLog(store requestlog.Store) RegistryOption {
	return func(r *Registry) {
		r.requests = store
	}
}

// NewRegistry creates a Registry with no active server. By default dispatch
// history is kept in an in-memory store of 1000 entries.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		log:      logging.Nop(),
		requests: requestlog.NewMemoryStore(1000),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init installs the table onto the server and stores the server as the
// active handle, replacing any previous one wholesale. Every response
// template is annotated with the diagnostic headers; annotation builds a
// fresh table, so the caller's entries are never mutated and repeated Init
// never duplicates headers. Init must complete before Start is called.
func (r *Registry) Init(server *Server, table *mock.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	annotated := table.Annotated()

	d := NewDispatcher(annotated)
	d.SetLogger(r.log)
	if r.requests != nil {
		d.SetRequestLog(r.requests)
	}
	server.SetHandler(d)

	r.server = server
	r.table = annotated
	r.log.Info("mock table installed", "entries", annotated.Len())
}

// Start starts the active server on the given port (0 or negative uses
// DefaultPort). A no-op when Init has not been called. Bind and re-start
// errors from the server are propagated unchanged.
func (r *Registry) Start(port int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.server == nil {
		return nil
	}
	if port <= 0 {
		port = DefaultPort
	}
	return r.server.Start(port)
}

// ShutDown stops the active server and releases its resources. A no-op
// when Init has not been called.
func (r *Registry) ShutDown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return r.server.Shutdown(ctx)
}

// Server returns the active server handle, or nil before Init.
func (r *Registry) Server() *Server {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.server
}

// Table returns the installed (annotated) table, or nil before Init.
func (r *Registry) Table() *mock.Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table
}

// Requests returns the dispatch history store, or nil when capture is
// disabled.
func (r *Registry) Requests() requestlog.Store {
	return r.requests
}
