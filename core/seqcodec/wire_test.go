// core/seqcodec/wire_test.go
package seqcodec

import (
	"bytes"
	"errors"
	"testing"
)

func TestRecordPayloadFraming(t *testing.T) {
	chunks := [][]byte{
		{0xDE, 0xAD},
		{},
		{0x01},
	}
	p := AppendRecordPayload(nil, chunks)

	// 4 count + (4+2) + (4+0) + (4+1)
	if len(p) != 19 {
		t.Fatalf("payload length %d, want 19", len(p))
	}
	got, err := ParseRecordPayload(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("%d chunks, want %d", len(got), len(chunks))
	}
	for i := range chunks {
		if !bytes.Equal(got[i], chunks[i]) {
			t.Errorf("chunk %d = %v, want %v", i, got[i], chunks[i])
		}
	}
}

func TestParseEmptyPayload(t *testing.T) {
	p := AppendRecordPayload(nil, nil)
	if len(p) != 4 {
		t.Fatalf("empty payload length %d, want 4", len(p))
	}
	got, err := ParseRecordPayload(p)
	if err != nil || len(got) != 0 {
		t.Fatalf("parse empty: %v chunks, err %v", got, err)
	}
}

func TestParseTruncated(t *testing.T) {
	p := AppendRecordPayload(nil, [][]byte{{1, 2, 3, 4, 5}})
	for _, cut := range []int{0, 3, 4, 7, 8, len(p) - 1} {
		if _, err := ParseRecordPayload(p[:cut]); !errors.Is(err, ErrTruncated) {
			t.Errorf("cut at %d: want ErrTruncated, got %v", cut, err)
		}
	}
}

func TestParseBogusChunkCount(t *testing.T) {
	// Declares 2^31 chunks with no data behind them.
	p := []byte{0x80, 0x00, 0x00, 0x00}
	if _, err := ParseRecordPayload(p); !errors.Is(err, ErrTruncated) {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

func TestParseTrailingBytes(t *testing.T) {
	p := AppendRecordPayload(nil, [][]byte{{9}})
	p = append(p, 0xFF)
	if _, err := ParseRecordPayload(p); err == nil {
		t.Fatal("trailing bytes must not parse")
	}
}
