package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateInitOpts(t *testing.T) {
	r := require.New(t)

	cfg := DefaultConfig()
	opts := DefaultInitOpts()
	opts.NumUnits = cfg.MinNumUnits
	opts.NumFiles = 1
	r.NoError(Validate(cfg, opts))

	bad := opts
	bad.NumUnits = cfg.MinNumUnits - 1
	r.Error(Validate(cfg, bad))

	bad = opts
	bad.NumFiles = 0
	r.Error(Validate(cfg, bad))

	bad = opts
	bad.ComputeBatchSize = 3
	r.Error(Validate(cfg, bad))
}

func TestFileNumLabels(t *testing.T) {
	cfg := DefaultConfig()
	opts := DefaultInitOpts()
	opts.NumUnits = 4
	opts.NumFiles = 2

	require.Equal(t, uint64(4)*cfg.LabelsPerUnit/2, FileNumLabels(cfg, opts))
}

func TestDefaultDataDirNonEmpty(t *testing.T) {
	require.NotEmpty(t, DefaultDataDir)
}
