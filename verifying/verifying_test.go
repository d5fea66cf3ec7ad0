package verifying

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/indices"
	"github.com/spacemeshos/postcore/shared"
)

func baseConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.MinNumUnits = 1
	cfg.MaxNumUnits = 10
	cfg.LabelsPerUnit = 16
	cfg.K2 = 4
	cfg.K3 = 2
	return cfg
}

func baseMetadata(cfg config.Config) *shared.ProofMetadata {
	return &shared.ProofMetadata{
		NodeId:          make([]byte, shared.IdentitySize),
		CommitmentAtxId: make([]byte, shared.IdentitySize),
		NumUnits:        2,
		LabelsPerUnit:   cfg.LabelsPerUnit,
		K1:              cfg.K1,
		K2:              cfg.K2,
	}
}

func TestVerifyRejectsNumUnitsOutOfRange(t *testing.T) {
	cfg := baseConfig()
	meta := baseMetadata(cfg)
	meta.NumUnits = cfg.MaxNumUnits + 1

	err := Verify(&shared.Proof{}, meta, cfg, Options{})
	require.Equal(t, shared.KindProofInvalid, shared.ErrorKind(err))
	require.Contains(t, err.Error(), "structure")
}

func TestVerifyRejectsZeroNumLabels(t *testing.T) {
	cfg := baseConfig()
	cfg.MinNumUnits = 0
	meta := baseMetadata(cfg)
	meta.NumUnits = 0
	meta.LabelsPerUnit = 0

	err := Verify(&shared.Proof{}, meta, cfg, Options{})
	require.Equal(t, shared.KindProofInvalid, shared.ErrorKind(err))
}

func TestVerifyRejectsWrongIndicesLength(t *testing.T) {
	cfg := baseConfig()
	meta := baseMetadata(cfg)

	proof := &shared.Proof{Indices: []byte{0x00, 0x01}}
	err := Verify(proof, meta, cfg, Options{})
	require.Equal(t, shared.KindProofInvalid, shared.ErrorKind(err))
	require.Contains(t, err.Error(), "indices length")
}

func TestVerifyRejectsDuplicateIndices(t *testing.T) {
	cfg := baseConfig()
	meta := baseMetadata(cfg)
	numLabels := meta.NumLabels()

	packed, err := indices.Pack([]uint64{0, 0, 1, 2}, numLabels)
	require.NoError(t, err)

	proof := &shared.Proof{Indices: packed}
	verr := Verify(proof, meta, cfg, Options{})
	require.Equal(t, shared.KindProofInvalid, shared.ErrorKind(verr))
	require.Contains(t, verr.Error(), "indices")
}

func TestVerifyRejectsUnsortedIndices(t *testing.T) {
	cfg := baseConfig()
	meta := baseMetadata(cfg)
	numLabels := meta.NumLabels()

	packed, err := indices.Pack([]uint64{2, 1, 0, 3}, numLabels)
	require.NoError(t, err)

	proof := &shared.Proof{Indices: packed}
	verr := Verify(proof, meta, cfg, Options{})
	require.Equal(t, shared.KindProofInvalid, shared.ErrorKind(verr))
}
