// Package config holds the PoST protocol parameters (Config) and the
// per-identity initialization options (InitOpts), together with their
// validation rules from the data model and testable boundaries sections
// of the specification.
package config

import (
	"fmt"
	"math/bits"

	"github.com/spacemeshos/postcore/shared"
)

// Default protocol parameters.
const (
	DefaultK1 = 26
	DefaultK2 = 37
	DefaultK3 = 37

	DefaultScryptN = 8192
	DefaultScryptR = 1
	DefaultScryptP = 1

	DefaultLabelsPerUnit = 1 << 12
	DefaultMinNumUnits   = 4
	DefaultMaxNumUnits   = 1 << 16
	DefaultNumFiles      = 1

	DefaultMaxConcurrentRequests = 0 // 0 means "use runtime.NumCPU()"
	DefaultMaxPendingRequests    = 64
	DefaultMaxBodySize           = 1 << 16 // 64 KiB, ample for a JSON /certify body
)

// ScryptParams mirrors the (N, r, p) triple consumed by the label PRF.
type ScryptParams struct {
	N, R, P uint
}

func (p ScryptParams) Validate() error {
	if p.N == 0 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("scrypt N (%d) must be a power of two", p.N)
	}
	if p.R == 0 {
		return fmt.Errorf("scrypt r must be > 0")
	}
	if p.P == 0 {
		return fmt.Errorf("scrypt p must be > 0")
	}
	return nil
}

func DefaultScryptParams() ScryptParams {
	return ScryptParams{N: DefaultScryptN, R: DefaultScryptR, P: DefaultScryptP}
}

// Config holds the PoST protocol parameters shared by initialization,
// proving and verification (spec §3 "PoST configuration").
type Config struct {
	MinNumUnits   uint32 `mapstructure:"min-num-units"`
	MaxNumUnits   uint32 `mapstructure:"max-num-units"`
	LabelsPerUnit uint64 `mapstructure:"labels-per-unit"`

	K1 uint32 `mapstructure:"k1"`
	K2 uint32 `mapstructure:"k2"`
	K3 uint32 `mapstructure:"k3"`

	// PowDifficulty is a 256-bit upper bound, big-endian, for the K2 PoW
	// RandomX hash.
	PowDifficulty [32]byte `mapstructure:"pow-difficulty"`

	Scrypt ScryptParams `mapstructure:"scrypt"`
}

func DefaultConfig() Config {
	cfg := Config{
		MinNumUnits:   DefaultMinNumUnits,
		MaxNumUnits:   DefaultMaxNumUnits,
		LabelsPerUnit: DefaultLabelsPerUnit,
		K1:            DefaultK1,
		K2:            DefaultK2,
		K3:            DefaultK3,
		Scrypt:        DefaultScryptParams(),
	}
	// A permissive default: every hash qualifies. Deployments must set a
	// real difficulty.
	for i := range cfg.PowDifficulty {
		cfg.PowDifficulty[i] = 0xff
	}
	return cfg
}

func (cfg Config) Validate() error {
	if cfg.MinNumUnits == 0 {
		return fmt.Errorf("min-num-units must be > 0")
	}
	if cfg.MaxNumUnits < cfg.MinNumUnits {
		return fmt.Errorf("max-num-units (%d) must be >= min-num-units (%d)", cfg.MaxNumUnits, cfg.MinNumUnits)
	}
	if cfg.LabelsPerUnit == 0 {
		return fmt.Errorf("labels-per-unit must be > 0")
	}
	if cfg.K2 == 0 {
		return fmt.Errorf("k2 must be > 0")
	}
	if cfg.K3 > cfg.K2 {
		return fmt.Errorf("k3 (%d) must be <= k2 (%d)", cfg.K3, cfg.K2)
	}
	if cfg.K1 == 0 {
		return fmt.Errorf("k1 must be > 0")
	}
	if err := cfg.Scrypt.Validate(); err != nil {
		return err
	}
	maxLabels := uint64(cfg.MaxNumUnits) * cfg.LabelsPerUnit
	if shared.Uint64MulOverflow(uint64(cfg.MaxNumUnits), cfg.LabelsPerUnit) {
		return fmt.Errorf("max-num-units * labels-per-unit overflows uint64")
	}
	if shared.Uint64MulOverflow(maxLabels, uint64(cfg.K1)) {
		return fmt.Errorf("num-labels * k1 overflows uint64")
	}
	return nil
}

// PowDifficultyForLabels returns floor(2^64 * k1 / numLabels) as an 8-byte
// little-endian threshold, per spec §4.4's D_nonce formula. It operates on
// the low 64 bits of the (conceptually 256-bit) per-label difficulty
// comparison described in spec §4.4.
func PowDifficultyForLabels(numLabels uint64, k1 uint32) uint64 {
	if numLabels == 0 {
		return 0
	}
	if uint64(k1) >= numLabels {
		// k1 >= numLabels: every label would need to qualify; saturate to
		// the maximum threshold rather than overflow the division.
		return ^uint64(0)
	}
	// floor((k1 * 2^64) / numLabels), computed as a 128-bit/64-bit division
	// with the 128-bit dividend (k1<<64 + 0) split into (hi, lo) words.
	q, _ := bits.Div64(uint64(k1), 0, numLabels)
	return q
}
