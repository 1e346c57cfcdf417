package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/marmos91/dfcache/internal/wire"
	"github.com/marmos91/dfcache/pkg/cache"
)

// commandHandler processes one decoded command against a connection. A
// non-nil return signals the connection loop: errClientClose terminates
// cleanly, cache.ErrOverBudget logs a warning and continues, anything else
// drops the connection. Every handler writes a StatusEnvelope first,
// followed by a body frame only on success for commands that have one, so
// a client can always tell success from failure before trying to
// interpret a body.
type commandHandler func(s *Server, conn io.ReadWriter, cmd wire.Command) error

func errUnknownCommand(name string) error {
	return fmt.Errorf("server: unknown command %q", name)
}

// buildDispatchTable returns the command-name -> handler map, the
// generalization of the portmapper's procedure-number dispatch table to
// string command names.
func buildDispatchTable() map[string]commandHandler {
	return map[string]commandHandler{
		wire.CmdGet:      handleGet,
		wire.CmdSet:      handleSet,
		wire.CmdLoad:     handleLoad,
		wire.CmdUnload:   handleUnload,
		wire.CmdStats:    handleStats,
		wire.CmdClose:    handleClose,
		wire.CmdDFUpdate: handleDFUpdate,
		wire.CmdDFFilter: handleDFFilter,
	}
}

func handleGet(s *Server, conn io.ReadWriter, cmd wire.Command) error {
	v, err := s.files.Get(cache.Key(cmd.KeyPath))
	if err != nil {
		wire.WriteStatus(conn, err)
		return err
	}
	if werr := wire.WriteStatus(conn, nil); werr != nil {
		return werr
	}
	raw, _ := v.([]byte)
	return wire.WriteFrame(conn, raw)
}

func handleSet(s *Server, conn io.ReadWriter, cmd wire.Command) error {
	body, err := wire.ReadFrame(conn)
	if err != nil {
		return err
	}
	_, err = s.files.Update(cache.Key(cmd.KeyPath), body)
	if werr := wire.WriteStatus(conn, err); werr != nil {
		return werr
	}
	return err
}

func handleLoad(s *Server, conn io.ReadWriter, cmd wire.Command) error {
	v, err := s.files.Get(cache.Key(cmd.KeyPath))
	if err != nil {
		wire.WriteStatus(conn, err)
		return err
	}
	if werr := wire.WriteStatus(conn, nil); werr != nil {
		return werr
	}
	raw, _ := v.([]byte)
	return wire.WriteFrame(conn, []byte(fmt.Sprintf(`{"length":%d}`, len(raw))))
}

func handleUnload(s *Server, conn io.ReadWriter, cmd wire.Command) error {
	s.files.Unload(cache.Key(cmd.KeyPath))
	return wire.WriteStatus(conn, nil)
}

func handleClose(s *Server, conn io.ReadWriter, cmd wire.Command) error {
	if err := wire.WriteStatus(conn, nil); err != nil {
		return err
	}
	return errClientClose
}

func handleDFUpdate(s *Server, conn io.ReadWriter, cmd wire.Command) error {
	body, err := wire.ReadFrame(conn)
	if err != nil {
		return err
	}
	incremental, err := wire.DecodeTable(body)
	if err != nil {
		wire.WriteStatus(conn, err)
		return err
	}
	_, err = s.tables.Append(context.Background(), cache.Key(cmd.KeyPath), incremental)
	if werr := wire.WriteStatus(conn, err); werr != nil {
		return werr
	}
	return err
}

func handleDFFilter(s *Server, conn io.ReadWriter, cmd wire.Command) error {
	tbl, err := s.tables.GetTable(cache.Key(cmd.KeyPath), cmd.RangeStart, cmd.RangeEnd, cmd.RangeType)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			wire.WriteStatus(conn, err)
			return err
		}
		// Absent key is not a protocol error for df:filter: respond success
		// with a zero-length body.
		if werr := wire.WriteStatus(conn, nil); werr != nil {
			return werr
		}
		return wire.WriteFrame(conn, nil)
	}

	encoded, err := wire.EncodeTable(tbl)
	if err != nil {
		wire.WriteStatus(conn, err)
		return err
	}
	if werr := wire.WriteStatus(conn, nil); werr != nil {
		return werr
	}
	return wire.WriteFrame(conn, encoded)
}
