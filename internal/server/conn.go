package server

import (
	"errors"
	"io"
	"net"

	"github.com/marmos91/dfcache/internal/logger"
	"github.com/marmos91/dfcache/internal/wire"
	"github.com/marmos91/dfcache/pkg/cache"
)

// errClientClose signals the "close" command: the worker should send a
// success envelope and terminate cleanly, as opposed to a protocol error
// or a dropped socket.
var errClientClose = errors.New("server: client requested close")

// handleConn runs the per-connection command loop: read one command,
// dispatch it, decide whether to keep looping. It implements the
// OPEN -> CLOSING -> CLOSED ("close" command) / OPEN -> DROPPED
// (EOF/reset) state machine.
func (s *Server) handleConn(conn net.Conn, connID string) {
	defer conn.Close()

	lc := logger.NewLogContext(remoteIP(conn)).WithConnectionID(connID).WithTrace(newTraceID(), "")
	logger.Info("server: connection opened", "connection_id", connID, "remote", remoteIP(conn))

	for {
		cmd, err := wire.ReadCommand(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug("server: connection dropped by peer", "connection_id", connID)
			} else {
				logger.Warn("server: frame read failed, dropping connection", "connection_id", connID, "error", err)
			}
			return
		}

		cmdLC := lc.WithCommand(cmd.Name).WithKeyPath(joinKeyPath(cmd.KeyPath))

		handler, ok := s.dispatch[cmd.Name]
		if !ok {
			wire.WriteStatus(conn, errUnknownCommand(cmd.Name))
			logger.Warn("server: unknown command", "connection_id", connID, "command", cmd.Name)
			continue
		}

		err = handler(s, conn, cmd)
		switch {
		case err == nil:
			// handler already wrote its response.
		case errors.Is(err, errClientClose):
			logger.Info("server: connection closing", "connection_id", connID)
			return
		case errors.Is(err, cache.ErrOverBudget):
			logger.Warn("server: admission over budget", "connection_id", cmdLC.ConnectionID, "command", cmd.Name, "key", joinKeyPath(cmd.KeyPath), "error", err)
			// The command's own response already reflects the failure;
			// the connection continues per the OverBudget propagation policy.
		default:
			logger.Error("server: command failed, dropping connection", "connection_id", connID, "command", cmd.Name, "error", err)
			return
		}
	}
}

func remoteIP(conn net.Conn) string {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String()
	}
	return host
}

func joinKeyPath(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}
