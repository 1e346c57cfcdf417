package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/marmos91/dfcache/pkg/table"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello cache")
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestReadFrameEOFOnEmptyStream(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil))
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	header := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	buf.Write(header)
	_, err := ReadFrame(&buf)
	if err == nil {
		t.Fatal("expected error for oversized frame")
	}
}

func TestZeroLengthFrameMeansAbsent(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, nil); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected zero-length payload, got %d bytes", len(got))
	}
}

func TestCommandRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	start := int64(10)
	cmd := Command{Name: CmdDFFilter, KeyPath: []string{"sensors", "temp"}, RangeStart: &start, RangeType: RangeTypeTimestamp}
	if err := WriteCommand(&buf, cmd); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCommand(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != cmd.Name || got.RangeType != cmd.RangeType || *got.RangeStart != *cmd.RangeStart {
		t.Fatalf("got %+v, want %+v", got, cmd)
	}
}

func TestStatusRoundTripSuccess(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStatus(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if err := ReadStatus(&buf); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestStatusRoundTripFailure(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStatus(&buf, errBoom); err != nil {
		t.Fatal(err)
	}
	if err := ReadStatus(&buf); err == nil {
		t.Fatal("expected failure status to surface as error")
	}
}

var errBoom = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

func TestEncodeDecodeTableRoundTrip(t *testing.T) {
	tbl := table.New([]table.Row{
		{Index: 1, Columns: map[string]any{"v": "a"}},
		{Index: 2, Columns: map[string]any{"v": "b"}},
	})

	encoded, err := EncodeTable(tbl)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeTable(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", decoded.Len())
	}
	if decoded.Rows[0].Columns["v"] != "a" {
		t.Fatalf("got %v", decoded.Rows[0].Columns["v"])
	}
}

func TestDecodeTableEmptyMeansAbsent(t *testing.T) {
	decoded, err := DecodeTable(nil)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", decoded.Len())
	}
}
