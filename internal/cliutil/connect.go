package cliutil

import (
	"github.com/marmos91/dfcache/internal/client"
)

// Flags stores global flag values shared by dfctl's subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values parsed by the root command.
type GlobalFlags struct {
	Addr           string
	MaxConnections int
	MaxRetries     int
}

// NewPool builds a connection pool from the current global flags.
func NewPool() *client.Pool {
	return client.New(client.Config{
		Addr:           Flags.Addr,
		MaxConnections: Flags.MaxConnections,
		MaxRetries:     Flags.MaxRetries,
	})
}

// NewFileClient acquires a FileClient from a freshly built pool. The
// returned closer releases the client's connection and drains the pool;
// callers should defer it.
func NewFileClient() (*client.FileClient, func(), error) {
	pool := NewPool()
	fc, err := client.NewFileClient(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return fc, func() {
		fc.Close()
		pool.Close()
	}, nil
}

// NewDataFrameClient acquires a DataFrameClient from a freshly built pool.
func NewDataFrameClient() (*client.DataFrameClient, func(), error) {
	pool := NewPool()
	dc, err := client.NewDataFrameClient(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return dc, func() {
		dc.Close()
		pool.Close()
	}, nil
}
