// Package server implements the TCP command dispatcher: a thread-per-
// connection accept loop that decodes one length-framed command per
// message and routes it to the opaque FileCache or the DataFrameCache
// overlay, grounded on the teacher's portmap server/dispatch shape
// generalized from RPC procedure numbers to string command names.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/marmos91/dfcache/internal/logger"
	"github.com/marmos91/dfcache/pkg/cache"
	"github.com/marmos91/dfcache/pkg/dfcache"
)

// Config configures a Server.
type Config struct {
	Addr string
}

// Server owns the shared cache references and the TCP listener, and
// dispatches every inbound connection to its own worker goroutine.
type Server struct {
	cfg Config

	files  *cache.FileCache
	tables *dfcache.Cache

	listener net.Listener
	dispatch map[string]commandHandler

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup

	connSeq atomic.Uint64
	metrics Metrics
}

// New creates a Server over files (opaque blobs) and tables (tabular
// overlay). Both may point at the same root_path with different
// namespace suffixes, or at entirely separate directories.
func New(cfg Config, files *cache.FileCache, tables *dfcache.Cache, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		files:    files,
		tables:   tables,
		shutdown: make(chan struct{}),
		metrics:  noopMetrics{},
	}
	s.dispatch = buildDispatchTable()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures optional Server behavior.
type Option func(*Server)

// WithMetrics attaches a Metrics sink for connection/command instrumentation.
func WithMetrics(m Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Serve binds the configured address and runs the accept loop until ctx is
// canceled or Stop is called. It returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln

	logger.Info("server: listening", "addr", ln.Addr().String())

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.shutdown:
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				s.wg.Wait()
				return nil
			default:
				logger.Error("server: accept failed", "error", err)
				return fmt.Errorf("server: accept: %w", err)
			}
		}

		connID := fmt.Sprintf("conn-%d", s.connSeq.Add(1))
		s.wg.Add(1)
		s.metrics.ConnectionOpened()
		go func() {
			defer s.wg.Done()
			defer s.metrics.ConnectionClosed()
			s.handleConn(conn, connID)
		}()
	}
}

// Stop closes the listener, causing the accept loop to exit; Serve then
// waits for in-flight connection workers to finish before it returns. Stop
// itself does not wait. It is safe to call more than once and from any
// goroutine.
func (s *Server) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		if s.listener != nil {
			s.listener.Close()
		}
	})
}

// Addr returns the address the listener is bound to, or "" before Serve
// has started listening.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func newTraceID() string {
	return uuid.NewString()
}
