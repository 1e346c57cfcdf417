package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// loadFile reads fullPath and decodes it via processContents. It touches no
// cache state and holds no lock: callers run it after installing a LOADING
// placeholder and before reconciling the result back into the entry table.
func (c *FileCache) loadFile(fullPath string) (value any, memoryBytes int64, err error) {
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", fullPath, err)
	}
	return c.processContents(raw)
}

// writeFile durably persists newBytes to fullPath, fsyncing before the
// write is considered complete, then decodes the same bytes via
// processContents so the newly-written value can be served without a
// round trip back through disk.
func (c *FileCache) writeFile(fullPath string, newBytes []byte) (value any, memoryBytes int64, err error) {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, 0, fmt.Errorf("mkdir for %s: %w", fullPath, err)
	}

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", fullPath, err)
	}

	if _, err := f.Write(newBytes); err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("write %s: %w", fullPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("fsync %s: %w", fullPath, err)
	}
	if err := f.Close(); err != nil {
		return nil, 0, fmt.Errorf("close %s: %w", fullPath, err)
	}

	return c.processContents(newBytes)
}
