// Package k2pow implements the RandomX-based K2 proof-of-work gate from
// spec §4.5: for a nonce group, find the smallest pow_nonce whose RandomX
// hash (keyed by challenge/identity/group/num_units) is below a
// difficulty threshold. Grounded in the teacher's worker-pool-over-
// errgroup style (proving/proving.go) applied to a RandomX search instead
// of a label scan.
package k2pow

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/postcore/internal/randomx"
)

// ErrNotFound is returned when no nonce below the supplied budget
// satisfies the difficulty.
var ErrNotFound = errors.New("k2pow: no qualifying nonce found within budget")

// checkInterval bounds how often a worker polls for cancellation, per
// spec §5 ("checked every ~1024 hashes").
const checkInterval = 1024

// Key derives the RandomX key for a nonce group: Blake3(challenge ||
// identity || group || num_units), per spec §4.5.
func Key(challenge, identity []byte, group uint32, numUnits uint32) []byte {
	h := blake3.New()
	h.Write(challenge)
	h.Write(identity)
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], group)
	binary.LittleEndian.PutUint32(buf[4:8], numUnits)
	h.Write(buf[:])
	return h.Sum(nil)
}

// Search finds the smallest pow_nonce in [0, maxNonce) such that
// RandomX(key, LE64(pow_nonce)) < difficulty (big-endian comparison over
// 32 bytes). It partitions the search space across threads by distinct
// strides and returns the minimal qualifying nonce across all workers.
func Search(ctx context.Context, mode randomx.Mode, key []byte, difficulty [32]byte, threads int, maxNonce uint64) (uint64, error) {
	if threads <= 0 {
		threads = defaultThreads()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var found atomic.Uint64
	found.Store(maxNonce) // sentinel: "not found yet"

	g, ctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		stride := uint64(threads)
		start := uint64(t)
		g.Go(func() error {
			vm, err := randomx.NewVM(mode, key)
			if err != nil {
				return fmt.Errorf("allocating randomx vm: %w", err)
			}
			defer vm.Close()

			var input [8]byte
			var checked int
			for nonce := start; nonce < maxNonce; nonce += stride {
				checked++
				if checked%checkInterval == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}
				if nonce >= found.Load() {
					// A smaller qualifying nonce was already found
					// elsewhere; no point continuing this stride past it.
					return nil
				}

				binary.LittleEndian.PutUint64(input[:], nonce)
				hash := vm.Hash(input[:])
				if bytes.Compare(hash[:], difficulty[:]) < 0 {
					for {
						cur := found.Load()
						if nonce >= cur || found.CompareAndSwap(cur, nonce) {
							break
						}
					}
					// Do not cancel: every stride must still walk down to
					// found.Load() so a smaller qualifying nonce elsewhere is
					// never missed (minimality).
					continue
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return 0, err
	}

	result := found.Load()
	if result >= maxNonce {
		return 0, ErrNotFound
	}
	return result, nil
}

// defaultThreads reports the number of logical CPUs available to size the
// RandomX search pool when the caller doesn't pin a thread count. Falls
// back to a single worker if the host's CPU info can't be read.
func defaultThreads() int {
	counts, err := cpu.Counts(true)
	if err != nil || counts <= 0 {
		return 1
	}
	return counts
}

// Verify checks that RandomX(key, LE64(nonce)) < difficulty.
func Verify(mode randomx.Mode, key []byte, nonce uint64, difficulty [32]byte) (bool, error) {
	vm, err := randomx.NewVM(mode, key)
	if err != nil {
		return false, fmt.Errorf("allocating randomx vm: %w", err)
	}
	defer vm.Close()

	var input [8]byte
	binary.LittleEndian.PutUint64(input[:], nonce)
	hash := vm.Hash(input[:])
	return bytes.Compare(hash[:], difficulty[:]) < 0, nil
}
