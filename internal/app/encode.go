// internal/app/encode.go
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"gopkg.in/cheggaaa/pb.v1"

	"seqvault-core/seqnum"

	"seqvault/internal/cli"
	"seqvault/internal/fastaio"
	"seqvault/internal/keyfile"
	"seqvault/internal/pipeline"
	"seqvault/internal/vaultio"
)

func runEncode(ctx context.Context, c *cli.CLI, logger *log.Logger, stderr io.Writer) error {
	strategy, err := seqnum.ByName(c.Encode.Strategy)
	if err != nil {
		return err
	}

	recs, err := fastaio.ReadAllPath(ctx, c.Encode.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.Encode.Input, err)
	}
	logger.Debug("input read", "records", len(recs))
	warnDuplicateIDs(logger, recs)

	pcfg := pipeline.Config{
		Workers:   cli.WorkerCount(c.Encode.Parallel, c.Encode.Threads),
		Removals:  c.Encode.SecurityLevel,
		ChunkSize: c.Encode.ChunkSize,
		Strategy:  strategy,
		Seed:      c.Encode.Seed,
	}
	var bar *pb.ProgressBar
	if c.Progress && len(recs) > 0 {
		bar = pb.New(len(recs))
		bar.Output = stderr
		bar.Start()
		pcfg.OnRecord = func() { bar.Increment() }
	}
	encoded, err := pipeline.EncodeRecords(ctx, pcfg, recs)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	payloads := make([][]byte, len(encoded))
	keyRecs := make([]keyfile.Record, len(encoded))
	var payloadBytes int64
	for i, e := range encoded {
		payloads[i] = e.Payload
		keyRecs[i] = keyfile.Record{ID: recs[i].ID, Desc: recs[i].Desc, Key: e.Key}
		payloadBytes += int64(len(e.Payload))
	}

	if err := vaultio.WriteFile(c.Encode.PayloadOut, payloads); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if err := keyfile.WriteFile(c.Encode.KeyOut, strategy.Name(), keyRecs); err != nil {
		return fmt.Errorf("write key: %w", err)
	}

	logger.Info("encoded",
		"records", len(recs),
		"payload", c.Encode.PayloadOut,
		"key", c.Encode.KeyOut,
		"payload_bytes", payloadBytes,
	)
	return nil
}

// warnDuplicateIDs flags repeated record IDs. Encoding stays positional,
// so duplicates round-trip fine, but downstream tooling keyed by ID will
// conflate them.
func warnDuplicateIDs(logger *log.Logger, recs []fastaio.Record) {
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		if _, dup := seen[r.ID]; dup {
			logger.Warn("duplicate record id", "id", r.ID)
			continue
		}
		seen[r.ID] = struct{}{}
	}
}
