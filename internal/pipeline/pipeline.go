// internal/pipeline/pipeline.go
//
// Package pipeline runs the sequence codec over many records with a
// bounded worker pool. Parallelism is record-granular: each record is
// one job, results land in a pre-sized slice addressed by record index,
// so output order never depends on scheduling. Removal randomness is
// seeded per record from a base seed plus the record index, which makes
// encoded bytes identical for any worker count.
package pipeline

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"seqvault-core/seqcodec"
	"seqvault-core/seqnum"

	"seqvault/internal/fastaio"
)

// Config controls the codec pipeline.
type Config struct {
	Workers   int             // worker goroutines; <= 0 means one per CPU
	Removals  int             // symbols removed per chunk buffer; < 0 selects the default
	ChunkSize int             // symbols per chunk; <= 0 selects the default
	Strategy  seqnum.Strategy // nil selects seqnum.Limb
	Seed      int64           // base seed for removal positions; 0 draws a random one
	OnRecord  func()          // called once per finished record, possibly from several goroutines
}

// Encoded is the encode product for one record.
type Encoded struct {
	Payload []byte
	Key     seqcodec.SequenceKey
}

// EncodeRecords encodes recs and returns one Encoded per record, in input
// order. A fixed Seed makes the result byte-identical across runs and
// worker counts.
func EncodeRecords(ctx context.Context, cfg Config, recs []fastaio.Record) ([]Encoded, error) {
	codec := seqcodec.New(seqcodec.Config{
		Strategy:  cfg.Strategy,
		ChunkSize: cfg.ChunkSize,
		Removals:  cfg.Removals,
	})
	base := cfg.Seed
	if base == 0 {
		base = randomSeed()
	}

	out := make([]Encoded, len(recs))
	err := runIndexed(ctx, cfg.Workers, len(recs), func(i int) error {
		rng := rand.New(rand.NewSource(base + int64(i)))
		payload, key := codec.EncodeRecord(recs[i].Seq, rng)
		out[i] = Encoded{Payload: payload, Key: key}
		if cfg.OnRecord != nil {
			cfg.OnRecord()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeRecords rebuilds the original symbols for each payload/key pair,
// in input order. The first record error aborts the remaining work.
func DecodeRecords(ctx context.Context, cfg Config, payloads [][]byte, keys []seqcodec.SequenceKey) ([][]byte, error) {
	if len(payloads) != len(keys) {
		return nil, fmt.Errorf("pipeline: %d payloads but %d keys", len(payloads), len(keys))
	}
	codec := seqcodec.New(seqcodec.Config{Strategy: cfg.Strategy})

	out := make([][]byte, len(payloads))
	err := runIndexed(ctx, cfg.Workers, len(payloads), func(i int) error {
		seq, err := codec.DecodeRecord(payloads[i], keys[i])
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = seq
		if cfg.OnRecord != nil {
			cfg.OnRecord()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// runIndexed feeds indices 0..n-1 to a pool of workers. The first error
// cancels the pool; the parent context's error wins if both fire.
func runIndexed(parent context.Context, workers, n int, do func(int) error) error {
	if n == 0 {
		return parent.Err()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobs := make(chan int, workers*2)
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)
	fail := func(err error) {
		mu.Lock()
		if first == nil {
			first = err
		}
		mu.Unlock()
		cancel()
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					if err := do(i); err != nil {
						fail(err)
						return
					}
				}
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := parent.Err(); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	return first
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.BigEndian.Uint64(b[:]))
}
