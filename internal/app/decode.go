// internal/app/decode.go
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"gopkg.in/cheggaaa/pb.v1"

	"seqvault-core/seqcodec"
	"seqvault-core/seqnum"

	"seqvault/internal/cli"
	"seqvault/internal/fastaio"
	"seqvault/internal/iox"
	"seqvault/internal/keyfile"
	"seqvault/internal/pipeline"
	"seqvault/internal/vaultio"
)

func runDecode(ctx context.Context, c *cli.CLI, logger *log.Logger, stdout, stderr io.Writer) error {
	payloads, err := vaultio.ReadFile(c.Decode.PayloadIn)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	keyRecs, strategyName, err := keyfile.ReadFile(c.Decode.KeyIn)
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}
	if len(payloads) != len(keyRecs) {
		return fmt.Errorf("payload has %d records but key has %d", len(payloads), len(keyRecs))
	}
	strategy, err := seqnum.ByName(strategyName)
	if err != nil {
		return fmt.Errorf("key file: %w", err)
	}
	logger.Debug("artifacts read", "records", len(payloads), "strategy", strategyName)

	keys := make([]seqcodec.SequenceKey, len(keyRecs))
	for i := range keyRecs {
		keys[i] = keyRecs[i].Key
	}

	pcfg := pipeline.Config{
		Workers:  cli.WorkerCount(c.Decode.Parallel, c.Decode.Threads),
		Strategy: strategy,
	}
	var bar *pb.ProgressBar
	if c.Progress && len(payloads) > 0 {
		bar = pb.New(len(payloads))
		bar.Output = stderr
		bar.Start()
		pcfg.OnRecord = func() { bar.Increment() }
	}
	seqs, err := pipeline.DecodeRecords(ctx, pcfg, payloads, keys)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	out := make([]fastaio.Record, len(seqs))
	for i := range seqs {
		out[i] = fastaio.Record{ID: keyRecs[i].ID, Desc: keyRecs[i].Desc, Seq: seqs[i]}
	}

	if c.Decode.Output == "-" {
		w := bufio.NewWriter(stdout)
		if err := fastaio.WriteAll(w, out, c.Decode.LineWidth); err != nil {
			if iox.IsBrokenPipe(err) {
				return nil
			}
			return err
		}
		if err := w.Flush(); err != nil {
			if iox.IsBrokenPipe(err) {
				return nil
			}
			return err
		}
	} else {
		err := iox.WriteFileAtomic(c.Decode.Output, 0o644, func(w io.Writer) error {
			return fastaio.WriteAll(w, out, c.Decode.LineWidth)
		})
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	logger.Info("decoded", "records", len(out), "output", c.Decode.Output)
	return nil
}
