package table

import "unsafe"

// MemoryFootprint estimates the deep in-memory size of the table, the way
// a DataFrameCache entry charges itself against the cache's byte budget.
// It is necessarily an estimate: Go has no equivalent of pandas'
// memory_usage(deep=True), so this sums a fixed per-row/per-column
// overhead with the measured size of each column value.
func (t Table) MemoryFootprint() int64 {
	const rowOverhead = int64(unsafe.Sizeof(Row{}))
	const columnOverhead = int64(32) // map bucket + key string header, approximate

	var total int64
	for _, r := range t.Rows {
		total += rowOverhead
		for k, v := range r.Columns {
			total += columnOverhead + int64(len(k)) + valueSize(v)
		}
	}
	return total
}

func valueSize(v any) int64 {
	switch x := v.(type) {
	case string:
		return int64(len(x))
	case []byte:
		return int64(len(x))
	case bool:
		return 1
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return 8
	case nil:
		return 0
	default:
		return 16
	}
}
