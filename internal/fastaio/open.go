// internal/fastaio/open.go
package fastaio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// openReader opens path for reading, transparently decompressing gzip
// input. "-" means stdin. Detection is by magic bytes, not extension,
// so renamed .gz files still work.
func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &multiReadCloser{r: zr, closers: []io.Closer{zr, f}}, nil
	}
	return &multiReadCloser{r: br, closers: []io.Closer{f}}, nil
}

type multiReadCloser struct {
	r       io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Read(p []byte) (int, error) { return m.r.Read(p) }

func (m *multiReadCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
