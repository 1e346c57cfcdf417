// Package table is the Go-native stand-in for the tabular value a
// DataFrameCache entry holds in memory: an ordered, indexed sequence of
// rows with named columns. It replaces the pickled pandas DataFrame the
// Python original passes over the wire, since Go has no equivalent
// columnar type in its standard library.
package table

import (
	"sort"
)

// Row is one record in a Table. Index is either a nanosecond Unix
// timestamp or an ordinal position, depending on how the table is keyed;
// Columns holds the row's named fields and must be JSON-marshalable.
type Row struct {
	Index   int64
	Columns map[string]any
}

// Table is an ordered sequence of Rows, indexed for range filtering and
// merge/dedupe.
type Table struct {
	Rows []Row
}

// New builds a Table from rows, taking ownership of the slice.
func New(rows []Row) Table {
	return Table{Rows: rows}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Clone returns a deep-enough copy: the Rows slice and each Row's Columns
// map are copied, so mutating the result never affects t.
func (t Table) Clone() Table {
	out := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		cols := make(map[string]any, len(r.Columns))
		for k, v := range r.Columns {
			cols[k] = v
		}
		out[i] = Row{Index: r.Index, Columns: cols}
	}
	return Table{Rows: out}
}

// SortByIndex sorts rows by ascending Index, stably so that rows sharing an
// index keep their relative order (needed for DedupeKeepFirst to mean
// "first inserted", not "first after an arbitrary reorder").
func (t Table) SortByIndex() Table {
	out := t.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Index < out.Rows[j].Index
	})
	return out
}

// DedupeKeepFirst drops every row sharing an Index with an earlier row,
// keeping only the first occurrence. Callers sort first; this performs no
// implicit sort of its own, mirroring pandas' Index.duplicated(keep="first")
// applied to an already-sorted frame.
func (t Table) DedupeKeepFirst() Table {
	seen := make(map[int64]struct{}, len(t.Rows))
	out := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if _, ok := seen[r.Index]; ok {
			continue
		}
		seen[r.Index] = struct{}{}
		out = append(out, r)
	}
	return Table{Rows: out}
}

// Slice returns the positional sub-range [start, end) of rows. A nil start
// means 0; a nil end means len(t.Rows). Out-of-range bounds are clamped.
func (t Table) Slice(start, end *int64) Table {
	lo, hi := int64(0), int64(len(t.Rows))
	if start != nil {
		lo = clamp(*start, 0, int64(len(t.Rows)))
	}
	if end != nil {
		hi = clamp(*end, 0, int64(len(t.Rows)))
	}
	if lo > hi {
		lo = hi
	}
	out := make([]Row, hi-lo)
	copy(out, t.Rows[lo:hi])
	return Table{Rows: out}
}

// RangeByTimestamp returns every row whose Index satisfies the inclusive
// bounds start <= Index <= end, with either bound open when nil. Unlike
// Slice, this compares Index values rather than positions, and does not
// assume the table is pre-sorted.
func (t Table) RangeByTimestamp(start, end *int64) Table {
	out := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if start != nil && r.Index < *start {
			continue
		}
		if end != nil && r.Index > *end {
			continue
		}
		out = append(out, r)
	}
	return Table{Rows: out}
}

// Append concatenates other's rows after t's, without sorting or
// deduplication; callers combine this with SortByIndex/DedupeKeepFirst to
// get the merge semantics dfcache.Append needs.
func (t Table) Append(other Table) Table {
	out := make([]Row, 0, len(t.Rows)+len(other.Rows))
	out = append(out, t.Rows...)
	out = append(out, other.Rows...)
	return Table{Rows: out}
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
