package initialization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/shared"
)

func testConfig(dataDir string) (config.Config, config.InitOpts) {
	cfg := config.DefaultConfig()
	cfg.MinNumUnits = 1
	cfg.MaxNumUnits = 4
	cfg.LabelsPerUnit = 16
	cfg.Scrypt = config.ScryptParams{N: 16, R: 1, P: 1}

	opts := config.DefaultInitOpts()
	opts.DataDir = dataDir
	opts.NumUnits = 1
	opts.NumFiles = 1
	opts.ComputeBatchSize = 8

	return cfg, opts
}

func TestInitializerFullLifecycle(t *testing.T) {
	r := require.New(t)

	dataDir := t.TempDir()
	cfg, opts := testConfig(dataDir)
	nodeID := make([]byte, shared.IdentitySize)
	atxID := make([]byte, shared.IdentitySize)

	init, err := New(cfg, opts, nodeID, atxID)
	r.NoError(err)

	state, err := init.Status()
	r.NoError(err)
	r.Equal(StateNotStarted, state)

	r.NoError(init.Initialize(context.Background()))

	state, err = init.Status()
	r.NoError(err)
	r.Equal(StateCompleted, state)

	r.NoError(init.Reset())
	state, err = init.Status()
	r.NoError(err)
	r.Equal(StateNotStarted, state)
}

func TestNewRejectsInvalidIdentityLengths(t *testing.T) {
	cfg, opts := testConfig(t.TempDir())

	_, err := New(cfg, opts, []byte("short"), make([]byte, shared.IdentitySize))
	require.Error(t, err)

	_, err = New(cfg, opts, make([]byte, shared.IdentitySize), []byte("short"))
	require.Error(t, err)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg, opts := testConfig(t.TempDir())
	opts.NumUnits = 0 // below MinNumUnits

	_, err := New(cfg, opts, make([]byte, shared.IdentitySize), make([]byte, shared.IdentitySize))
	require.Error(t, err)
}

func TestStateString(t *testing.T) {
	r := require.New(t)
	r.Equal("NOT_STARTED", StateNotStarted.String())
	r.Equal("CRASHED", StateCrashed.String())
	r.Equal("COMPLETED", StateCompleted.String())
	r.Equal("UNKNOWN", State(99).String())
}
