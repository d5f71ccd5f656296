// internal/keyfile/keyfile.go
//
// Package keyfile reads and writes the reconstruction key companion of a
// payload container. The format is a stream of BSON documents: one file
// header followed by one document per record, in payload order. BSON
// documents carry their own length prefix, so the stream needs no extra
// framing.
package keyfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/mgo.v2/bson"

	"seqvault-core/removal"
	"seqvault-core/seqcodec"

	"seqvault/internal/iox"
)

// Magic identifies a key file header document.
const Magic = "SVK1"

// FormatVersion is the current key file format revision.
const FormatVersion = 1

// maxDocSize bounds a single BSON document read. Generous: even a
// chromosome-scale record keys well under this.
const maxDocSize = 1 << 30

// ErrBadFormat reports a file that is not a key file, or one whose
// structure is inconsistent with its header.
var ErrBadFormat = errors.New("keyfile: not a key file")

// Record pairs one payload record with its identity and reconstruction key.
type Record struct {
	ID   string
	Desc string
	Key  seqcodec.SequenceKey
}

type fileHeader struct {
	Magic    string `bson:"magic"`
	Version  int    `bson:"version"`
	Strategy string `bson:"strategy"`
	Records  int    `bson:"records"`
}

type entryDoc struct {
	Pos int64 `bson:"p"`
	Val int   `bson:"v"`
}

type chunkDoc struct {
	Index   int64      `bson:"index"`
	Entries []entryDoc `bson:"entries"`
}

type recordDoc struct {
	Index     int        `bson:"index"`
	ID        string     `bson:"id"`
	Desc      string     `bson:"desc,omitempty"`
	Length    int64      `bson:"length"`
	ChunkSize int64      `bson:"chunksize"`
	Chunked   bool       `bson:"chunked"`
	Single    []entryDoc `bson:"single,omitempty"`
	Chunks    []chunkDoc `bson:"chunks,omitempty"`
}

// Write emits the key file for recs to w. strategy names the numeric
// encoding the payloads were produced with and is required to decode.
func Write(w io.Writer, strategy string, recs []Record) error {
	hdr, err := bson.Marshal(fileHeader{
		Magic:    Magic,
		Version:  FormatVersion,
		Strategy: strategy,
		Records:  len(recs),
	})
	if err != nil {
		return fmt.Errorf("keyfile: marshal header: %w", err)
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	for i := range recs {
		raw, err := bson.Marshal(toDoc(i, &recs[i]))
		if err != nil {
			return fmt.Errorf("keyfile: marshal record %d: %w", i, err)
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
	}
	return nil
}

// Read parses a key file from r. It returns the records in payload order
// and the strategy name recorded at encode time.
func Read(r io.Reader) (recs []Record, strategy string, err error) {
	raw, err := readDoc(r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, "", fmt.Errorf("%w: missing header", ErrBadFormat)
		}
		return nil, "", err
	}
	var hdr fileHeader
	if err := bson.Unmarshal(raw, &hdr); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if hdr.Magic != Magic {
		return nil, "", ErrBadFormat
	}
	if hdr.Version != FormatVersion {
		return nil, "", fmt.Errorf("%w: unsupported version %d", ErrBadFormat, hdr.Version)
	}
	if hdr.Records < 0 {
		return nil, "", fmt.Errorf("%w: negative record count", ErrBadFormat)
	}

	recs = make([]Record, 0, hdr.Records)
	for i := 0; i < hdr.Records; i++ {
		raw, err := readDoc(r)
		if err != nil {
			return nil, "", fmt.Errorf("keyfile: record %d: %w", i, err)
		}
		var doc recordDoc
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, "", fmt.Errorf("keyfile: record %d: %w", i, err)
		}
		rec, err := fromDoc(i, &doc)
		if err != nil {
			return nil, "", err
		}
		recs = append(recs, rec)
	}
	return recs, hdr.Strategy, nil
}

// WriteFile writes the key file to path atomically.
func WriteFile(path, strategy string, recs []Record) error {
	return iox.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, strategy, recs)
	})
}

// ReadFile reads the key file at path.
func ReadFile(path string) ([]Record, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// readDoc reads one whole BSON document, honoring its little-endian
// self-length.
func readDoc(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := int64(int32(binary.LittleEndian.Uint32(lenBuf[:])))
	if n < 5 || n > maxDocSize {
		return nil, fmt.Errorf("%w: document length %d", ErrBadFormat, n)
	}
	doc := make([]byte, n)
	copy(doc, lenBuf[:])
	if _, err := io.ReadFull(r, doc[4:]); err != nil {
		return nil, err
	}
	return doc, nil
}

func toDoc(index int, rec *Record) recordDoc {
	doc := recordDoc{
		Index:     index,
		ID:        rec.ID,
		Desc:      rec.Desc,
		Length:    int64(rec.Key.Length),
		ChunkSize: int64(rec.Key.ChunkSize),
		Chunked:   rec.Key.Chunked,
	}
	if rec.Key.Chunked {
		doc.Chunks = make([]chunkDoc, len(rec.Key.Chunks))
		for i, ck := range rec.Key.Chunks {
			doc.Chunks[i] = chunkDoc{Index: int64(ck.Index), Entries: toEntries(ck.Key)}
		}
	} else {
		doc.Single = toEntries(rec.Key.Single)
	}
	return doc
}

func fromDoc(index int, doc *recordDoc) (Record, error) {
	if doc.Index != index {
		return Record{}, fmt.Errorf("%w: record %d has index %d", ErrBadFormat, index, doc.Index)
	}
	if doc.Length < 0 || doc.Length > math.MaxInt32 {
		return Record{}, fmt.Errorf("%w: record %d length %d", ErrBadFormat, index, doc.Length)
	}
	rec := Record{
		ID:   doc.ID,
		Desc: doc.Desc,
		Key: seqcodec.SequenceKey{
			Length:    int(doc.Length),
			ChunkSize: int(doc.ChunkSize),
			Chunked:   doc.Chunked,
		},
	}
	if doc.Chunked {
		rec.Key.Chunks = make([]seqcodec.ChunkKey, len(doc.Chunks))
		for i, ck := range doc.Chunks {
			entries, err := fromEntries(index, ck.Entries)
			if err != nil {
				return Record{}, err
			}
			rec.Key.Chunks[i] = seqcodec.ChunkKey{Index: int(ck.Index), Key: entries}
		}
	} else {
		entries, err := fromEntries(index, doc.Single)
		if err != nil {
			return Record{}, err
		}
		rec.Key.Single = entries
	}
	return rec, nil
}

func toEntries(key removal.Key) []entryDoc {
	out := make([]entryDoc, len(key))
	for i, e := range key {
		out[i] = entryDoc{Pos: int64(e.Pos), Val: int(e.Val)}
	}
	return out
}

func fromEntries(record int, docs []entryDoc) (removal.Key, error) {
	out := make(removal.Key, len(docs))
	for i, d := range docs {
		if d.Val < 0 || d.Val > math.MaxUint8 {
			return nil, fmt.Errorf("%w: record %d entry value %d", ErrBadFormat, record, d.Val)
		}
		out[i] = removal.Entry{Pos: int(d.Pos), Val: byte(d.Val)}
	}
	return out, nil
}
