// Package client implements the connection pool and typed command clients
// used to talk to a dfcache server: a bounded set of reusable TCP
// connections, liveness-probed on checkout, with exponential-backoff
// reconnection on exhaustion. Grounded on
// original_source/dfs/df_client.py's DataFrameConnectionPool, since the
// teacher repo's adapter layer manages one long-lived connection per
// protocol adapter rather than a pool.
package client

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/marmos91/dfcache/internal/logger"
)

// ErrConnectionFailed is returned when a connection cannot be established
// after MaxRetries attempts.
var ErrConnectionFailed = errors.New("client: connection failed")

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("client: pool closed")

// Config configures a Pool.
type Config struct {
	Addr           string
	MaxConnections int
	MaxRetries     int
	DialTimeout    time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxConnections <= 0 {
		c.MaxConnections = 8
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	return c
}

// Pool is a bounded, reusable set of TCP connections to one dfcache
// server. The semaphore (a buffered channel, Go's idiomatic substitute for
// Python's threading.Semaphore) bounds concurrent connections; the idle
// list is a simple FIFO of connections not currently checked out.
type Pool struct {
	cfg Config

	sem  chan struct{}
	idle chan net.Conn

	closed chan struct{}
}

// New creates a Pool. It does not dial eagerly; connections are created
// lazily on first Acquire.
func New(cfg Config) *Pool {
	cfg = cfg.withDefaults()
	return &Pool{
		cfg:    cfg,
		sem:    make(chan struct{}, cfg.MaxConnections),
		idle:   make(chan net.Conn, cfg.MaxConnections),
		closed: make(chan struct{}),
	}
}

// Acquire checks out a connection, reusing an idle one if it is still
// live, or dialing (with exponential backoff retry) otherwise. Callers
// must call Release when finished.
func (p *Pool) Acquire() (net.Conn, error) {
	select {
	case <-p.closed:
		return nil, ErrPoolClosed
	case p.sem <- struct{}{}:
	}

	for {
		select {
		case conn := <-p.idle:
			if isLive(conn) {
				return conn, nil
			}
			conn.Close()
			continue
		default:
		}
		break
	}

	conn, err := p.dialWithBackoff()
	if err != nil {
		<-p.sem
		return nil, err
	}
	return conn, nil
}

// Release returns conn to the idle pool for reuse, or discards it if nil
// (the caller already closed it after an error).
func (p *Pool) Release(conn net.Conn) {
	defer func() { <-p.sem }()
	if conn == nil {
		return
	}
	select {
	case p.idle <- conn:
	default:
		conn.Close()
	}
}

// Close drains and closes every idle connection and marks the pool closed
// for future Acquire calls. Connections currently checked out are left to
// their callers.
func (p *Pool) Close() error {
	select {
	case <-p.closed:
		return nil
	default:
		close(p.closed)
	}
	for {
		select {
		case conn := <-p.idle:
			conn.Close()
		default:
			return nil
		}
	}
}

func (p *Pool) dialWithBackoff() (net.Conn, error) {
	var lastErr error
	for attempt := 0; attempt < p.cfg.MaxRetries; attempt++ {
		conn, err := net.DialTimeout("tcp", p.cfg.Addr, p.cfg.DialTimeout)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		delay := time.Duration(1<<uint(attempt)) * time.Second
		logger.Warn("client: connect failed, retrying", "addr", p.cfg.Addr, "attempt", attempt+1, "delay", delay.String(), "error", err)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrConnectionFailed, p.cfg.Addr, p.cfg.MaxRetries, lastErr)
}

// isLive probes a pooled connection without consuming application data: it
// sets a short read deadline and peeks for either a read error (connection
// reset/closed) or a timeout (still open, no data pending, as expected for
// an idle keep-alive). Go's net package does not expose SO_ERROR the way
// Python's socket.getsockopt does, so this substitutes a deadline-based
// peek for the Python original's liveness check.
func isLive(conn net.Conn) bool {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return true
	}
	if err := tcpConn.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return false
	}
	defer tcpConn.SetReadDeadline(time.Time{})

	one := make([]byte, 1)
	_, err := tcpConn.Read(one)
	if err == nil {
		// Unexpected application data ahead of any request; treat the
		// connection as unusable rather than silently dropping bytes.
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
