package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidateBounds(t *testing.T) {
	r := require.New(t)

	cfg := DefaultConfig()
	cfg.MinNumUnits = 0
	r.Error(cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxNumUnits = cfg.MinNumUnits - 1
	r.Error(cfg.Validate())

	cfg = DefaultConfig()
	cfg.K3 = cfg.K2 + 1
	r.Error(cfg.Validate())

	cfg = DefaultConfig()
	cfg.K1 = 0
	r.Error(cfg.Validate())

	cfg = DefaultConfig()
	cfg.LabelsPerUnit = 0
	r.Error(cfg.Validate())
}

func TestScryptParamsValidate(t *testing.T) {
	r := require.New(t)

	r.NoError(DefaultScryptParams().Validate())
	r.Error(ScryptParams{N: 100, R: 1, P: 1}.Validate())
	r.Error(ScryptParams{N: 8192, R: 0, P: 1}.Validate())
	r.Error(ScryptParams{N: 8192, R: 1, P: 0}.Validate())
}

func TestPowDifficultyForLabels(t *testing.T) {
	r := require.New(t)

	r.EqualValues(0, PowDifficultyForLabels(0, 26))
	r.Equal(^uint64(0), PowDifficultyForLabels(10, 26))

	// k1=numLabels/2 should land near the midpoint of the uint64 range.
	got := PowDifficultyForLabels(1<<20, 1<<19)
	r.InDelta(float64(uint64(1)<<63), float64(got), float64(uint64(1)<<50))
}
