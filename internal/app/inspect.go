// internal/app/inspect.go
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"seqvault-core/seqcodec"

	"seqvault/internal/cli"
	"seqvault/internal/keyfile"
	"seqvault/internal/vaultio"
	"seqvault/pkg/api"
)

func runInspect(c *cli.CLI, stdout io.Writer) error {
	kind, err := sniffArtifact(c.Inspect.Path)
	if err != nil {
		return err
	}
	switch kind {
	case "payload":
		return inspectPayload(c, stdout)
	default:
		return inspectKey(c, stdout)
	}
}

// sniffArtifact distinguishes payload from key files by the payload magic;
// key files start with a BSON length, never with "SVD1".
func sniffArtifact(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return "", fmt.Errorf("inspect %s: %w", path, err)
	}
	if string(magic[:]) == vaultio.Magic {
		return "payload", nil
	}
	return "key", nil
}

func inspectPayload(c *cli.CLI, stdout io.Writer) error {
	payloads, err := vaultio.ReadFile(c.Inspect.Path)
	if err != nil {
		return err
	}
	info := api.PayloadInfoV1{
		File:    c.Inspect.Path,
		Kind:    "payload",
		Records: len(payloads),
	}
	for _, p := range payloads {
		info.PayloadBytes += int64(len(p))
		chunks, err := seqcodec.ParseRecordPayload(p)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", c.Inspect.Path, err)
		}
		info.TotalChunks += len(chunks)
		if len(chunks) > info.MaxChunks {
			info.MaxChunks = len(chunks)
		}
	}

	if c.Inspect.JSON {
		return encodePretty(stdout, info)
	}
	fmt.Fprintf(stdout, "payload: %s\n", info.File)
	fmt.Fprintf(stdout, "records: %d\n", info.Records)
	fmt.Fprintf(stdout, "payload bytes: %d\n", info.PayloadBytes)
	fmt.Fprintf(stdout, "chunks: %d (max %d in one record)\n", info.TotalChunks, info.MaxChunks)
	return nil
}

func inspectKey(c *cli.CLI, stdout io.Writer) error {
	recs, strategy, err := keyfile.ReadFile(c.Inspect.Path)
	if err != nil {
		return err
	}
	info := api.KeyInfoV1{
		File:     c.Inspect.Path,
		Kind:     "key",
		Strategy: strategy,
		Records:  make([]api.KeyRecordInfoV1, len(recs)),
	}
	for i, r := range recs {
		ri := api.KeyRecordInfoV1{
			Index:     i,
			ID:        r.ID,
			Desc:      r.Desc,
			Length:    r.Key.Length,
			ChunkSize: r.Key.ChunkSize,
			Chunked:   r.Key.Chunked,
		}
		if r.Key.Chunked {
			ri.Chunks = len(r.Key.Chunks)
			for _, ck := range r.Key.Chunks {
				ri.Removed += len(ck.Key)
			}
		} else {
			ri.Removed = len(r.Key.Single)
		}
		info.Records[i] = ri
	}

	if c.Inspect.JSON {
		return encodePretty(stdout, info)
	}
	fmt.Fprintf(stdout, "key: %s\n", info.File)
	fmt.Fprintf(stdout, "strategy: %s\n", info.Strategy)
	fmt.Fprintf(stdout, "records: %d\n", len(info.Records))
	for _, r := range info.Records {
		fmt.Fprintf(stdout, "  [%d] %s length=%d chunked=%v chunks=%d removed=%d\n",
			r.Index, r.ID, r.Length, r.Chunked, r.Chunks, r.Removed)
	}
	return nil
}

func encodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
