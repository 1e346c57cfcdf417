package client

import (
	"net"

	"github.com/marmos91/dfcache/internal/wire"
	"github.com/marmos91/dfcache/pkg/table"
)

// FileClient issues opaque-blob commands over one pooled connection,
// releasing it back to the pool on Close. It is the Go idiom for the
// Python original's context-managed DataFrameClient.__exit__.
type FileClient struct {
	pool *Pool
	conn net.Conn
}

// NewFileClient acquires a connection from pool for the lifetime of the
// returned client.
func NewFileClient(pool *Pool) (*FileClient, error) {
	conn, err := pool.Acquire()
	if err != nil {
		return nil, err
	}
	return &FileClient{pool: pool, conn: conn}, nil
}

// Close releases the underlying connection back to the pool.
func (c *FileClient) Close() error {
	c.pool.Release(c.conn)
	c.conn = nil
	return nil
}

// Get retrieves the raw bytes stored at keyPath.
func (c *FileClient) Get(keyPath []string) ([]byte, error) {
	if err := wire.WriteCommand(c.conn, wire.Command{Name: wire.CmdGet, KeyPath: keyPath}); err != nil {
		return nil, err
	}
	if err := wire.ReadStatus(c.conn); err != nil {
		return nil, err
	}
	return wire.ReadFrame(c.conn)
}

// Set durably writes data at keyPath.
func (c *FileClient) Set(keyPath []string, data []byte) error {
	if err := wire.WriteCommand(c.conn, wire.Command{Name: wire.CmdSet, KeyPath: keyPath}); err != nil {
		return err
	}
	if err := wire.WriteFrame(c.conn, data); err != nil {
		return err
	}
	return wire.ReadStatus(c.conn)
}

// Load asks the server to admit keyPath into memory without returning its
// body, reporting only its length.
func (c *FileClient) Load(keyPath []string) ([]byte, error) {
	if err := wire.WriteCommand(c.conn, wire.Command{Name: wire.CmdLoad, KeyPath: keyPath}); err != nil {
		return nil, err
	}
	if err := wire.ReadStatus(c.conn); err != nil {
		return nil, err
	}
	return wire.ReadFrame(c.conn)
}

// Unload drops keyPath's in-memory entry.
func (c *FileClient) Unload(keyPath []string) error {
	if err := wire.WriteCommand(c.conn, wire.Command{Name: wire.CmdUnload, KeyPath: keyPath}); err != nil {
		return err
	}
	return wire.ReadStatus(c.conn)
}

// Stats requests memory accounting at the given detail level (0, 1, or 2).
func (c *FileClient) Stats(level int) ([]byte, error) {
	if err := wire.WriteCommand(c.conn, wire.Command{Name: wire.CmdStats, Level: &level}); err != nil {
		return nil, err
	}
	if err := wire.ReadStatus(c.conn); err != nil {
		return nil, err
	}
	return wire.ReadFrame(c.conn)
}

// CloseSession sends the "close" command, terminating the server's worker
// for this connection, and waits for its status. It neither closes nor
// releases the connection: that still happens in Close, and since the
// server has closed its side, the pool's liveness probe discards the
// connection on a later Acquire instead of reusing it.
func (c *FileClient) CloseSession() error {
	if err := wire.WriteCommand(c.conn, wire.Command{Name: wire.CmdClose}); err != nil {
		return err
	}
	return wire.ReadStatus(c.conn)
}

// DataFrameClient issues tabular-overlay commands over one pooled
// connection.
type DataFrameClient struct {
	*FileClient
}

// NewDataFrameClient acquires a connection from pool for the lifetime of
// the returned client.
func NewDataFrameClient(pool *Pool) (*DataFrameClient, error) {
	fc, err := NewFileClient(pool)
	if err != nil {
		return nil, err
	}
	return &DataFrameClient{FileClient: fc}, nil
}

// InsertData appends incremental onto the table stored at keyPath,
// merging server-side, and returns any error reported by the merge.
func (c *DataFrameClient) InsertData(keyPath []string, incremental table.Table) error {
	encoded, err := wire.EncodeTable(incremental)
	if err != nil {
		return err
	}
	if err := wire.WriteCommand(c.conn, wire.Command{Name: wire.CmdDFUpdate, KeyPath: keyPath}); err != nil {
		return err
	}
	if err := wire.WriteFrame(c.conn, encoded); err != nil {
		return err
	}
	return wire.ReadStatus(c.conn)
}

// GetData retrieves the table at keyPath filtered to [start, end]. When
// rangeType is "timestamp" the bounds compare against row Index values;
// otherwise they are positional. A nil start and nil end return the whole
// table. A zero-length response (key absent) decodes to an empty table.
func (c *DataFrameClient) GetData(keyPath []string, start, end *int64, rangeType string) (table.Table, error) {
	cmd := wire.Command{Name: wire.CmdDFFilter, KeyPath: keyPath, RangeStart: start, RangeEnd: end, RangeType: rangeType}
	if err := wire.WriteCommand(c.conn, cmd); err != nil {
		return table.Table{}, err
	}
	if err := wire.ReadStatus(c.conn); err != nil {
		return table.Table{}, err
	}
	body, err := wire.ReadFrame(c.conn)
	if err != nil {
		return table.Table{}, err
	}
	return wire.DecodeTable(body)
}
