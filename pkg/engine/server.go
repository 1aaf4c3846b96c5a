package engine

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mockinizer/mockinizer/pkg/logging"
	mocktls "github.com/mockinizer/mockinizer/pkg/tls"
)

// DefaultPort is the port the mock server listens on when none is given.
const DefaultPort = 34567

// Server wraps an http.Server bound to a single port. The listener is
// opened synchronously in Start, so bind failures (port already in use)
// surface to the caller instead of dying on a goroutine.
type Server struct {
	mu           sync.RWMutex
	handler      http.Handler
	httpServer   *http.Server
	listener     net.Listener
	useTLS       bool
	readTimeout  time.Duration
	writeTimeout time.Duration
	log          *slog.Logger
	running      bool
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTLS makes the server serve HTTPS with an auto-generated self-signed
// certificate. The client under test must be wired with an all-trusting
// transport (see pkg/client).
func WithTLS() ServerOption {
	return func(s *Server) {
		s.useTLS = true
	}
}

// WithTimeouts sets the read and write timeouts for served connections.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// NewServer creates a new Server. The dispatch handler is installed later
// by Registry.Init.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		log:          logging.Nop(),
		readTimeout:  30 * time.Second,
		writeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetHandler installs the dispatch handler. Must be called before Start.
func (s *Server) SetHandler(h http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Start binds the given port (0 picks an ephemeral one) and begins serving.
// Returns an error when the server is already running, no handler is
// installed, or the port cannot be bound; bind errors are propagated
// unchanged.
func (s *Server) Start(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running on %s", s.listener.Addr())
	}
	if s.handler == nil {
		return fmt.Errorf("no dispatch handler installed")
	}

	var tlsConfig *tls.Config
	if s.useTLS {
		gen, err := mocktls.GenerateSelfSignedCert(nil)
		if err != nil {
			return fmt.Errorf("failed to setup TLS: %w", err)
		}
		cert, err := mocktls.CreateTLSCertificate(gen.CertPEM, gen.KeyPEM)
		if err != nil {
			return fmt.Errorf("failed to setup TLS: %w", err)
		}
		tlsConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      s.handler,
		TLSConfig:    tlsConfig,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}
	s.listener = listener
	s.httpServer = srv

	// The goroutine uses its own references; s.httpServer/s.listener are
	// only touched under s.mu.
	go func() {
		var err error
		if tlsConfig != nil {
			err = srv.ServeTLS(listener, "", "")
		} else {
			err = srv.Serve(listener)
		}
		if err != nil && err != http.ErrServerClosed && !errors.Is(err, net.ErrClosed) {
			s.log.Error("mock server error", "error", err)
		}
	}()

	s.running = true
	s.log.Info("mock server started", "addr", listener.Addr().String(), "tls", s.useTLS)
	return nil
}

// Shutdown gracefully stops the server. Safe to call when not running.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.httpServer.Shutdown(ctx)
	// The serve goroutine may not have reached Serve yet, in which case the
	// http.Server does not track the listener and Shutdown leaves the port
	// bound. Close it directly; Serve closing it first is fine.
	if cerr := s.listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) && err == nil {
		err = cerr
	}
	s.running = false
	s.log.Info("mock server stopped")
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// IsRunning reports whether the server is currently serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Port returns the bound port, or 0 when the server is not running.
func (s *Server) Port() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running || s.listener == nil {
		return 0
	}
	addr, ok := s.listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0
	}
	return addr.Port
}

// URL returns the server's base URL, or "" when it is not running.
func (s *Server) URL() string {
	port := s.Port()
	if port == 0 {
		return ""
	}
	scheme := "http"
	s.mu.RLock()
	if s.useTLS {
		scheme = "https"
	}
	s.mu.RUnlock()
	return fmt.Sprintf("%s://localhost:%d", scheme, port)
}
