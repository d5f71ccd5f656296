// internal/fastaio/reader.go
package fastaio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// Record is one FASTA entry. Desc is the free text after the first
// whitespace of the header; Seq is the unwrapped sequence, byte for byte
// as read (case preserved).
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// ErrNoHeader reports sequence data before any '>' header line.
var ErrNoHeader = errors.New("fastaio: sequence data before first header")

// StreamCtx parses FASTA from r and emits one Record per entry, in file
// order. Records with no sequence lines are emitted with an empty Seq.
// Cancellation via ctx is honored between lines.
func StreamCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		id, desc string
		seq      = make([]byte, 0, 1<<20)
		seen     bool
	)

	flush := func() error {
		if !seen {
			return nil
		}
		return emit(Record{ID: id, Desc: desc, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id, desc = parseHeader(line[1:])
			seq = seq[:0]
			seen = true
			continue
		}
		if !seen {
			return ErrNoHeader
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// ReadAllPath opens path (gzip and "-" for stdin supported) and collects
// every record.
func ReadAllPath(ctx context.Context, path string) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var recs []Record
	err = StreamCtx(ctx, rc, func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func parseHeader(hdr []byte) (id, desc string) {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i]), string(bytes.TrimSpace(hdr[i+1:]))
	}
	return string(hdr), ""
}
