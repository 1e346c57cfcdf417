package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/marmos91/dfcache/internal/client"
	"github.com/marmos91/dfcache/internal/server"
	"github.com/marmos91/dfcache/pkg/cache"
	"github.com/marmos91/dfcache/pkg/dfcache"
	"github.com/marmos91/dfcache/pkg/table"
)

func startServer(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := cache.New(root, 1<<20)
	tables := dfcache.New(root, 1<<20, cache.WithSuffix(".df"))
	srv := server.New(server.Config{Addr: "127.0.0.1:0"}, files, tables)

	ctx, cancel := context.WithCancel(context.Background())
	go srv.Serve(ctx)

	var addr string
	for i := 0; i < 100; i++ {
		addr = srv.Addr()
		if addr != "" {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if addr == "" {
		t.Fatal("server never started listening")
	}

	t.Cleanup(func() {
		cancel()
		srv.Stop()
	})
	return addr
}

func TestFileClientSetGetThroughPool(t *testing.T) {
	addr := startServer(t)
	pool := client.New(client.Config{Addr: addr, MaxConnections: 2})
	t.Cleanup(func() { pool.Close() })

	fc, err := client.NewFileClient(pool)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set([]string{"a"}, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	got, err := fc.Get([]string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
	if err := fc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPoolReusesReleasedConnections(t *testing.T) {
	addr := startServer(t)
	pool := client.New(client.Config{Addr: addr, MaxConnections: 1})
	t.Cleanup(func() { pool.Close() })

	conn1, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	pool.Release(conn1)

	conn2, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Release(conn2)

	if conn1 != conn2 {
		t.Fatal("expected the released connection to be reused")
	}
}

func TestPoolBoundsConcurrentAcquires(t *testing.T) {
	addr := startServer(t)
	pool := client.New(client.Config{Addr: addr, MaxConnections: 1})
	t.Cleanup(func() { pool.Close() })

	conn1, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Release(conn1)

	acquired := make(chan struct{})
	go func() {
		conn2, err := pool.Acquire()
		if err == nil {
			pool.Release(conn2)
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should have blocked on the bounded semaphore")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDataFrameClientInsertAndGet(t *testing.T) {
	addr := startServer(t)
	pool := client.New(client.Config{Addr: addr, MaxConnections: 2})
	t.Cleanup(func() { pool.Close() })

	dc, err := client.NewDataFrameClient(pool)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close()

	rows := table.New([]table.Row{{Index: 1, Columns: map[string]any{"v": "a"}}})
	if err := dc.InsertData([]string{"sensors"}, rows); err != nil {
		t.Fatal(err)
	}

	got, err := dc.GetData([]string{"sensors"}, nil, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", got.Len())
	}
}
