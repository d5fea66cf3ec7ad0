// Package proving implements the two-level sieve proving pipeline from
// spec §4.4: stream the already-initialized on-disk dataset through the
// AES cipher kernel for a 16-wide nonce group, accumulate per-nonce
// qualifying labels, and once some nonce collects k2 of them, gate the
// group with a K2 PoW search. Grounded in the teacher's worker-pool-over-
// io.Reader style (proving/proving.go) generalized from a single merkle
// pass to a group-at-a-time dataset rescan, using golang.org/x/sync/errgroup
// for the chunk worker pool the way go-spacemesh's services do, and in
// initialization/vrf_search.go's persistence.OpenDataset-based streaming
// for how the dataset itself is read.
package proving

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/postcore/cipher"
	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/indices"
	"github.com/spacemeshos/postcore/internal/randomx"
	"github.com/spacemeshos/postcore/k2pow"
	"github.com/spacemeshos/postcore/persistence"
	"github.com/spacemeshos/postcore/shared"
)

var (
	// ErrInsufficientLabels is returned when every nonce group up to
	// MaxGroups was exhausted without any nonce reaching k2.
	ErrInsufficientLabels = errors.New("proving: insufficient labels to reach k2 in any nonce group")
	// ErrPoWNotFound is returned when a group's sieve succeeded but no
	// group reached both k2 labels and a valid K2 PoW within MaxGroups.
	ErrPoWNotFound = errors.New("proving: no nonce group found a valid K2 PoW")
)

// Options configures a proving run.
type Options struct {
	Threads int

	// ChunkSize is the number of labels handed to a single worker at a
	// time; must be a multiple of the AES batch size.
	ChunkSize uint64

	// MaxGroups bounds how many 16-wide nonce groups are attempted before
	// giving up (spec's "second pass" retry loop).
	MaxGroups uint32

	// PoWMode selects the RandomX Fast/Light configuration for the K2 PoW
	// search (spec §4.5).
	PoWMode randomx.Mode

	// PoWMaxNonce bounds the K2 PoW search space per group attempt.
	PoWMaxNonce uint64

	Logger *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		Threads:     0, // 0 => no limit on concurrent chunk workers; the K2 PoW search uses the logical CPU count
		ChunkSize:   1 << 16,
		MaxGroups:   1 << 12,
		PoWMode:     randomx.ModeLight,
		PoWMaxNonce: 1 << 32,
		Logger:      zap.NewNop(),
	}
}

// Generate runs the proving pipeline for identity nodeID/commitmentAtxID
// against the dataset already built by initialization under opts.DataDir,
// for the given challenge, and returns a completed Proof. The prover must
// hold the initialized dataset on disk; Generate never recomputes labels.
func Generate(ctx context.Context, cfg config.Config, opts config.InitOpts, nodeID, commitmentAtxID []byte, challenge shared.Challenge, popts Options) (*shared.Proof, error) {
	numLabels := uint64(opts.NumUnits) * cfg.LabelsPerUnit
	difficulty := config.PowDifficultyForLabels(numLabels, cfg.K1)

	fileNumLabels := config.FileNumLabels(cfg, opts)
	ds, err := persistence.OpenDataset(opts.DataDir, fileNumLabels)
	if err != nil {
		return nil, shared.NewKindError(shared.KindIO, fmt.Errorf("opening dataset: %w", err))
	}
	defer ds.Close()

	reachedK2 := false

	for groupIdx := uint32(0); groupIdx < popts.MaxGroups; groupIdx++ {
		groupStart := groupIdx * shared.NonceGroupSize

		acc, err := sieveGroup(ctx, ds, numLabels, challenge, groupStart, difficulty, popts)
		if err != nil {
			return nil, shared.NewKindError(shared.KindIO, err)
		}

		nonceOffset, chosenIndices, ok := chooseNonce(acc, int(cfg.K2))
		if !ok {
			popts.Logger.Debug("no nonce reached k2 in group", zap.Uint32("group", groupIdx))
			continue
		}
		reachedK2 = true
		chosenNonce := groupStart + uint32(nonceOffset)

		key := k2pow.Key(challenge[:], nodeID, groupIdx, opts.NumUnits)
		powNonce, err := k2pow.Search(ctx, popts.PoWMode, key, cfg.PowDifficulty, popts.Threads, popts.PoWMaxNonce)
		if errors.Is(err, k2pow.ErrNotFound) {
			popts.Logger.Debug("no pow solution in group", zap.Uint32("group", groupIdx))
			continue
		}
		if err != nil {
			return nil, shared.NewKindError(shared.KindInternal, err)
		}

		packed, err := indices.Pack(chosenIndices, numLabels)
		if err != nil {
			return nil, shared.NewKindError(shared.KindInternal, err)
		}

		return &shared.Proof{
			Nonce:   chosenNonce,
			Indices: packed,
			Pow:     powNonce,
		}, nil
	}

	if reachedK2 {
		return nil, ErrPoWNotFound
	}
	return nil, ErrInsufficientLabels
}

// sieveGroup streams the whole on-disk dataset once, returning for each of
// the 16 nonces in the group the ascending-order global indices whose C0
// value beat difficulty.
func sieveGroup(ctx context.Context, ds *persistence.DatasetReader, numLabels uint64, challenge shared.Challenge, groupStart uint32, difficulty uint64, popts Options) ([shared.NonceGroupSize][]uint64, error) {
	var zero [shared.NonceGroupSize][]uint64

	kernels := make([]*cipher.Kernel, shared.NonceGroupSize)
	for n := 0; n < shared.NonceGroupSize; n++ {
		keys := cipher.DeriveGroupKeys(challenge, groupStart+uint32(n))
		k, err := cipher.NewKernel(keys)
		if err != nil {
			return zero, fmt.Errorf("deriving kernel for nonce %d: %w", groupStart+uint32(n), err)
		}
		kernels[n] = k
	}

	chunkSize := popts.ChunkSize
	if chunkSize == 0 || chunkSize%shared.AESBatchSize != 0 {
		chunkSize = 1 << 16
	}
	numChunks := int((numLabels + chunkSize - 1) / chunkSize)

	type chunkResult struct {
		acc [shared.NonceGroupSize][]uint64
	}
	results := make([]chunkResult, numChunks)

	g, gctx := errgroup.WithContext(ctx)
	if popts.Threads > 0 {
		g.SetLimit(popts.Threads)
	}

	for c := 0; c < numChunks; c++ {
		c := c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := uint64(c) * chunkSize
			end := start + chunkSize
			if end > numLabels {
				end = numLabels
			}
			acc, err := sieveChunk(ds, kernels, start, end, difficulty)
			if err != nil {
				return err
			}
			results[c] = chunkResult{acc: acc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return zero, err
	}

	var merged [shared.NonceGroupSize][]uint64
	for c := 0; c < numChunks; c++ {
		for n := 0; n < shared.NonceGroupSize; n++ {
			merged[n] = append(merged[n], results[c].acc[n]...)
		}
	}
	return merged, nil
}

// sieveChunk reads labels for [start, end) off disk and runs every nonce's
// C0 cipher over them, 8 labels (one AES batch) at a time.
func sieveChunk(ds *persistence.DatasetReader, kernels []*cipher.Kernel, start, end uint64, difficulty uint64) ([shared.NonceGroupSize][]uint64, error) {
	var acc [shared.NonceGroupSize][]uint64
	if end <= start {
		return acc, nil
	}

	for batchStart := start; batchStart < end; batchStart += shared.AESBatchSize {
		batchEnd := batchStart + shared.AESBatchSize
		if batchEnd > end {
			batchEnd = end
		}
		batch, err := ds.ReadRange(batchStart, batchEnd)
		if err != nil {
			return acc, fmt.Errorf("reading labels [%d,%d): %w", batchStart, batchEnd, err)
		}
		// Pad a short final batch up to a full AES batch; padding labels
		// never get recorded because their global index is checked below.
		if pad := int(shared.AESBatchSize) - len(batch)/shared.LabelSize; pad > 0 {
			batch = append(batch, make([]byte, pad*shared.LabelSize)...)
		}

		for n, kernel := range kernels {
			c0, err := kernel.Encrypt0(batch)
			if err != nil {
				return acc, fmt.Errorf("encrypting batch: %w", err)
			}
			for li := 0; li < int(shared.AESBatchSize); li++ {
				globalIdx := batchStart + uint64(li)
				if globalIdx >= batchEnd {
					break
				}
				val := cipher.LeadingUint64(c0[li*shared.LabelSize : (li+1)*shared.LabelSize])
				if val < difficulty {
					acc[n] = append(acc[n], globalIdx)
				}
			}
		}
	}
	return acc, nil
}

// chooseNonce picks the nonce (by offset within the group) whose k2-th
// qualifying index is smallest; ties broken by the smallest nonce offset,
// per spec §4.4's determinism clause.
func chooseNonce(acc [shared.NonceGroupSize][]uint64, k2 int) (offset int, chosen []uint64, ok bool) {
	bestOffset := -1
	var bestCompletion uint64
	for n := 0; n < shared.NonceGroupSize; n++ {
		if len(acc[n]) < k2 {
			continue
		}
		completion := acc[n][k2-1]
		if bestOffset == -1 || completion < bestCompletion {
			bestOffset = n
			bestCompletion = completion
		}
	}
	if bestOffset == -1 {
		return 0, nil, false
	}
	return bestOffset, append([]uint64(nil), acc[bestOffset][:k2]...), true
}
