// Package verifying implements the stateless Verifier from spec §4.6: it
// recomputes a k3-subsample of the claimed labels and re-checks the
// difficulty and K2 PoW relations without ever reading the dataset.
// Grounded in the teacher's verifying/verifying.go shape (decode, bound-
// check, recompute, compare) re-based on the scrypt/AES/RandomX stack.
package verifying

import (
	"fmt"

	"github.com/spacemeshos/postcore/cipher"
	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/indices"
	"github.com/spacemeshos/postcore/internal/randomx"
	"github.com/spacemeshos/postcore/k2pow"
	"github.com/spacemeshos/postcore/labels"
	"github.com/spacemeshos/postcore/shared"
)

// Options configures a Verify call.
type Options struct {
	// K3 is the number of indices re-checked; K3 == K2 means full
	// verification.
	K3 int
	// PoWMode selects the RandomX configuration used to re-check the K2
	// PoW. Both modes produce bit-identical hashes (spec §4.5), so it need
	// not match the mode the prover used.
	PoWMode randomx.Mode
}

// Verify checks proof against metadata under cfg, returning nil on
// success or a *shared.KindError tagged KindProofInvalid describing the
// first failing relation. A failure to derive a label, build the cipher
// or allocate the RandomX VM is returned tagged KindCryptographic instead.
func Verify(proof *shared.Proof, metadata *shared.ProofMetadata, cfg config.Config, opts Options) error {
	if metadata.NumUnits < cfg.MinNumUnits || metadata.NumUnits > cfg.MaxNumUnits {
		return invalid("structure", fmt.Errorf("num_units %d out of range [%d,%d]", metadata.NumUnits, cfg.MinNumUnits, cfg.MaxNumUnits))
	}

	numLabels := metadata.NumLabels()
	if numLabels == 0 {
		return invalid("structure", fmt.Errorf("num_labels is zero"))
	}

	expectedLen := indices.PackedLen(int(cfg.K2), numLabels)
	if len(proof.Indices) != expectedLen {
		return invalid("structure", fmt.Errorf("indices length %d, expected %d", len(proof.Indices), expectedLen))
	}

	decoded, err := indices.Unpack(proof.Indices, int(cfg.K2), numLabels)
	if err != nil {
		return invalid("indices", err)
	}
	if err := checkSortedUnique(decoded, numLabels); err != nil {
		return invalid("indices", err)
	}

	commitment := shared.Commitment(metadata.NodeId, metadata.CommitmentAtxId)

	k3 := opts.K3
	if k3 <= 0 || k3 > int(cfg.K2) {
		k3 = int(cfg.K3)
	}
	sample := indices.DrawSample(metadata.Challenge, int(cfg.K2), k3)

	keys := cipher.DeriveGroupKeys(metadata.Challenge, proof.Nonce)
	kernel, err := cipher.NewKernel(keys)
	if err != nil {
		return shared.NewKindError(shared.KindCryptographic, err)
	}

	difficulty := config.PowDifficultyForLabels(numLabels, cfg.K1)

	for _, pos := range sample {
		globalIdx := decoded[pos]
		label, err := labels.Calc(commitment[:], globalIdx, cfg.Scrypt)
		if err != nil {
			return shared.NewKindError(shared.KindCryptographic, err)
		}
		c0, err := kernel.Encrypt0(label)
		if err != nil {
			return shared.NewKindError(shared.KindCryptographic, err)
		}
		if cipher.LeadingUint64(c0) >= difficulty {
			return invalid("labels", fmt.Errorf("index %d (position %d) fails difficulty check", globalIdx, pos))
		}
	}

	groupIdx := proof.Nonce / shared.NonceGroupSize
	key := k2pow.Key(metadata.Challenge[:], metadata.NodeId, groupIdx, metadata.NumUnits)
	ok, err := k2pow.Verify(opts.PoWMode, key, proof.Pow, cfg.PowDifficulty)
	if err != nil {
		return shared.NewKindError(shared.KindCryptographic, err)
	}
	if !ok {
		return invalid("pow", fmt.Errorf("pow_nonce %d does not satisfy difficulty for group %d", proof.Pow, groupIdx))
	}

	return nil
}

func checkSortedUnique(idx []uint64, numLabels uint64) error {
	for i, v := range idx {
		if v >= numLabels {
			return fmt.Errorf("index %d (%d) >= num_labels (%d)", i, v, numLabels)
		}
		if i > 0 && idx[i-1] >= v {
			return fmt.Errorf("indices not strictly increasing at position %d", i)
		}
	}
	return nil
}

func invalid(sub string, err error) error {
	return shared.NewKindError(shared.KindProofInvalid, fmt.Errorf("%s: %w", sub, err))
}
