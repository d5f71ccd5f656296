// internal/vaultio/vaultio.go
//
// Package vaultio reads and writes the encoded payload container. The
// layout is a fixed magic, a big-endian uint32 record count, then one
// length-prefixed opaque payload per record in input order. Record
// identity lives in the companion key file, not here.
package vaultio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"seqvault/internal/iox"
)

// Magic identifies a payload container.
const Magic = "SVD1"

// ErrBadMagic reports a file that does not start with Magic.
var ErrBadMagic = errors.New("vaultio: not a payload container")

// Write emits the container for payloads to w.
func Write(w io.Writer, payloads [][]byte) error {
	if uint64(len(payloads)) > math.MaxUint32 {
		return fmt.Errorf("vaultio: %d records exceed container limit", len(payloads))
	}
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payloads)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	for i, p := range payloads {
		if uint64(len(p)) > math.MaxUint32 {
			return fmt.Errorf("vaultio: record %d payload exceeds container limit", i)
		}
		binary.BigEndian.PutUint32(hdr[:], uint32(len(p)))
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := w.Write(p); err != nil {
			return err
		}
	}
	return nil
}

// Read parses a container from r and returns the per-record payloads.
func Read(r io.Reader) ([][]byte, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("vaultio: read magic: %w", err)
	}
	if string(magic[:]) != Magic {
		return nil, ErrBadMagic
	}
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("vaultio: read record count: %w", err)
	}
	count := binary.BigEndian.Uint32(hdr[:])

	payloads := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("vaultio: record %d length: %w", i, err)
		}
		n := binary.BigEndian.Uint32(hdr[:])
		p := make([]byte, n)
		if _, err := io.ReadFull(r, p); err != nil {
			return nil, fmt.Errorf("vaultio: record %d body: %w", i, err)
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

// WriteFile writes the container to path atomically.
func WriteFile(path string, payloads [][]byte) error {
	return iox.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, payloads)
	})
}

// ReadFile reads the container at path.
func ReadFile(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}
