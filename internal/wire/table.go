package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/marmos91/dfcache/pkg/table"
)

// wireRow mirrors table.Row with exported, JSON-stable field names,
// keeping the on-disk/wire encoding decoupled from table.Row's Go field
// names so the package can evolve independently of its wire format.
type wireRow struct {
	Index   int64          `json:"index"`
	Columns map[string]any `json:"columns"`
}

// EncodeTable serializes t as gzip-compressed JSON, the round-trippable
// byte sequence DataFrameCache entries store on disk and ship over the
// wire for df:update/df:filter bodies.
func EncodeTable(t table.Table) ([]byte, error) {
	rows := make([]wireRow, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = wireRow{Index: r.Index, Columns: r.Columns}
	}

	var buf bytes.Buffer
	gw, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return nil, fmt.Errorf("wire: create gzip writer: %w", err)
	}
	if err := json.NewEncoder(gw).Encode(rows); err != nil {
		gw.Close()
		return nil, fmt.Errorf("wire: encode table: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("wire: flush gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeTable decodes a byte sequence produced by EncodeTable. An empty
// input decodes to an empty table, matching the wire protocol's "a
// zero-length body indicates absent" convention.
func DecodeTable(raw []byte) (table.Table, error) {
	if len(raw) == 0 {
		return table.New(nil), nil
	}

	gr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return table.Table{}, fmt.Errorf("wire: open gzip reader: %w", err)
	}
	defer gr.Close()

	var rows []wireRow
	if err := json.NewDecoder(gr).Decode(&rows); err != nil && err != io.EOF {
		return table.Table{}, fmt.Errorf("wire: decode table: %w", err)
	}

	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{Index: r.Index, Columns: r.Columns}
	}
	return table.New(out), nil
}
