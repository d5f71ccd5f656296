// internal/fastaio/writer.go
package fastaio

import (
	"fmt"
	"io"
)

// WriteAll writes recs as FASTA. width is the wrap column for sequence
// lines; width <= 0 writes each sequence on a single line. A record with
// an empty sequence produces only its header line.
func WriteAll(w io.Writer, recs []Record, width int) error {
	for i := range recs {
		if err := writeRecord(w, &recs[i], width); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, r *Record, width int) error {
	if r.Desc != "" {
		if _, err := fmt.Fprintf(w, ">%s %s\n", r.ID, r.Desc); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, ">%s\n", r.ID); err != nil {
			return err
		}
	}
	seq := r.Seq
	if len(seq) == 0 {
		return nil
	}
	if width <= 0 {
		_, err := fmt.Fprintf(w, "%s\n", seq)
		return err
	}
	for len(seq) > 0 {
		n := width
		if n > len(seq) {
			n = len(seq)
		}
		if _, err := fmt.Fprintf(w, "%s\n", seq[:n]); err != nil {
			return err
		}
		seq = seq[n:]
	}
	return nil
}
