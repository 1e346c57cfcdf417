package cache

import (
	"path/filepath"
	"strings"
)

// Key is a non-empty ordered sequence of path segments identifying a
// cached blob. It is opaque to the cache core; namespaces (file vs.
// dataframe) choose their own on-disk suffix through the cache's
// WithSuffix option, which Key.Path appends to the last segment.
type Key []string

// String renders the key using "/" as a segment separator, for logging.
func (k Key) String() string {
	return strings.Join(k, "/")
}

// Path returns the filesystem path for this key relative to a root,
// using the OS path separator to join segments.
func (k Key) Path(root, suffix string) string {
	segments := make([]string, len(k))
	copy(segments, k)
	if suffix != "" {
		last := len(segments) - 1
		segments[last] = segments[last] + suffix
	}
	parts := append([]string{root}, segments...)
	return filepath.Join(parts...)
}

// WithSuffix returns a copy of the key with suffix appended to its last
// segment, used to disambiguate namespaces sharing one root_path.
func (k Key) WithSuffix(suffix string) Key {
	if suffix == "" {
		return k
	}
	out := make(Key, len(k))
	copy(out, k)
	out[len(out)-1] = out[len(out)-1] + suffix
	return out
}

// clone returns a defensive copy, since Key is backed by a slice callers
// may still hold a reference to.
func (k Key) clone() Key {
	out := make(Key, len(k))
	copy(out, k)
	return out
}
