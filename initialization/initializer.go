// Package initialization builds the labeled dataset (spec §3 "Dataset",
// §4.1) for one identity/commitment pair: deterministic, resumable by
// byte offset, and checkpointed via a JSON metadata sidecar. Adapted from
// the teacher's initialization.Initializer, replacing its merkle-tree
// commitment scheme with the scrypt-label + VRF-nonce scheme of this spec.
package initialization

import (
	"context"
	"fmt"
	"os"

	"code.cloudfoundry.org/bytefmt"
	"go.uber.org/zap"

	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/oracle"
	"github.com/spacemeshos/postcore/persistence"
	"github.com/spacemeshos/postcore/shared"
)

// Initializer runs the dataset-construction procedure for a single
// identity/commitment.
type Initializer struct {
	cfg    config.Config
	opts   config.InitOpts
	nodeID []byte
	atxID  []byte
	logger *zap.Logger
}

// Option configures an Initializer.
type Option func(*Initializer) error

func WithLogger(logger *zap.Logger) Option {
	return func(i *Initializer) error {
		i.logger = logger
		return nil
	}
}

// New constructs an Initializer for nodeID/commitmentAtxID under cfg/opts.
func New(cfg config.Config, opts config.InitOpts, nodeID, commitmentAtxID []byte, opns ...Option) (*Initializer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, shared.NewKindError(shared.KindConfig, err)
	}
	if err := config.Validate(cfg, opts); err != nil {
		return nil, shared.NewKindError(shared.KindConfig, err)
	}
	if len(nodeID) != shared.IdentitySize {
		return nil, shared.NewKindError(shared.KindConfig, fmt.Errorf("invalid node id length %d", len(nodeID)))
	}
	if len(commitmentAtxID) != shared.CommitmentSize {
		return nil, shared.NewKindError(shared.KindConfig, fmt.Errorf("invalid commitment atx id length %d", len(commitmentAtxID)))
	}

	init := &Initializer{
		cfg:    cfg,
		opts:   opts,
		nodeID: nodeID,
		atxID:  commitmentAtxID,
		logger: zap.NewNop(),
	}
	for _, opt := range opns {
		if err := opt(init); err != nil {
			return nil, err
		}
	}
	return init, nil
}

// Commitment returns Blake3(node_id || commitment_atx_id), per spec §3.
func (i *Initializer) Commitment() [32]byte {
	return shared.Commitment(i.nodeID, i.atxID)
}

// Status reports whether the datadir already holds a completed,
// configuration-matching dataset.
func (i *Initializer) Status() (State, error) {
	metadata, err := persistence.LoadMetadata(i.opts.DataDir)
	if err != nil {
		if err == persistence.ErrMetadataNotFound {
			return StateNotStarted, nil
		}
		return StateNotStarted, shared.NewKindError(shared.KindIO, err)
	}
	numLabels := uint64(i.opts.NumUnits) * i.cfg.LabelsPerUnit
	if metadata.LastPosition != nil && *metadata.LastPosition >= numLabels {
		return StateCompleted, nil
	}
	return StateCrashed, nil
}

// State is the lifecycle of a single datadir's initialization.
type State int

const (
	StateNotStarted State = iota
	StateCrashed
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NOT_STARTED"
	case StateCrashed:
		return "CRASHED"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Initialize runs (or resumes) dataset construction to completion,
// searching for the VRF nonce once the last file is written.
func (i *Initializer) Initialize(ctx context.Context) error {
	numLabels := uint64(i.opts.NumUnits) * i.cfg.LabelsPerUnit
	fileNumLabels := config.FileNumLabels(i.cfg, i.opts)

	if err := shared.ValidateNumFiles(numLabels, i.opts.NumFiles); err != nil {
		return shared.NewKindError(shared.KindConfig, err)
	}

	if !i.opts.Throttle {
		available := shared.AvailableSpace(i.opts.DataDir)
		required := numLabels * shared.LabelSize
		if required > available {
			return shared.NewKindError(shared.KindIO, fmt.Errorf(
				"not enough disk space: required %s, available %s",
				bytefmt.ByteSize(required), bytefmt.ByteSize(available)))
		}
	}

	commitment := i.Commitment()

	metadata := &shared.PostMetadata{
		NodeId:          shared.HexBytes(i.nodeID),
		CommitmentAtxId: shared.HexBytes(i.atxID),
		NumUnits:        i.opts.NumUnits,
		LabelsPerUnit:   i.cfg.LabelsPerUnit,
		MaxFileSize:     fileNumLabels * shared.LabelSize,
	}
	if err := persistence.SaveMetadata(i.opts.DataDir, metadata); err != nil {
		return shared.NewKindError(shared.KindIO, err)
	}

	wo, err := oracle.New(
		oracle.WithCommitment(commitment[:]),
		oracle.WithScryptParams(i.cfg.Scrypt),
	)
	if err != nil {
		return shared.NewKindError(shared.KindCryptographic, err)
	}
	defer wo.Close()

	for fileIdx := 0; uint(fileIdx) < i.opts.NumFiles; fileIdx++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := i.initFile(ctx, fileIdx, fileNumLabels, wo); err != nil {
			return err
		}
	}

	lastPos := numLabels
	metadata.LastPosition = &lastPos
	if err := persistence.SaveMetadata(i.opts.DataDir, metadata); err != nil {
		return shared.NewKindError(shared.KindIO, err)
	}

	nonce, nonceValue, err := SearchForNonce(ctx, i.cfg, i.opts, commitment[:], WithSearchLogger(i.logger))
	if err != nil {
		i.logger.Warn("vrf nonce search failed", zap.Error(err))
		return nil
	}
	metadata.Nonce = &nonce
	metadata.NonceValue = nonceValue
	return persistence.SaveMetadata(i.opts.DataDir, metadata)
}

func (i *Initializer) initFile(ctx context.Context, fileIdx int, fileNumLabels uint64, wo *oracle.WorkOracle) error {
	path := persistence.DataFilePath(i.opts.DataDir, fileIdx)

	existing, err := labelsAlreadyWritten(path)
	if err != nil {
		return shared.NewKindError(shared.KindIO, err)
	}
	if existing >= fileNumLabels {
		i.logger.Debug("file already complete", zap.String("file", path))
		return nil
	}

	w, err := persistence.NewFileWriter(path)
	if err != nil {
		return shared.NewKindError(shared.KindIO, err)
	}
	defer w.Close()

	globalStart := uint64(fileIdx)*fileNumLabels + existing
	batch := i.opts.ComputeBatchSize

	for pos := existing; pos < fileNumLabels; pos += batch {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		end := pos + batch
		if end > fileNumLabels {
			end = fileNumLabels
		}
		start := globalStart + (pos - existing)
		stop := globalStart + (end - existing)

		buf, err := wo.Positions(start, stop-1)
		if err != nil {
			return shared.NewKindError(shared.KindCryptographic, err)
		}
		if err := w.Write(buf); err != nil {
			return shared.NewKindError(shared.KindIO, err)
		}
		if err := w.Flush(); err != nil {
			return shared.NewKindError(shared.KindIO, err)
		}
		i.logger.Debug("wrote labels", zap.Int("file", fileIdx), zap.Uint64("upto", end))
	}
	return nil
}

func labelsAlreadyWritten(path string) (uint64, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	// A partially-written file is truncated to the last whole label so
	// that resuming is deterministic (spec §4.1 failure clause).
	whole := uint64(info.Size()) / shared.LabelSize
	if rem := info.Size() % shared.LabelSize; rem != 0 {
		if err := os.Truncate(path, int64(whole)*shared.LabelSize); err != nil {
			return 0, err
		}
	}
	return whole, nil
}

// Reset deletes all dataset files and the metadata sidecar for this
// Initializer's datadir.
func (i *Initializer) Reset() error {
	files, err := persistence.DataFiles(i.opts.DataDir)
	if err != nil {
		return shared.NewKindError(shared.KindIO, err)
	}
	for _, f := range files {
		if err := os.Remove(persistence.DataFilePath(i.opts.DataDir, mustFileIndex(f.Name()))); err != nil {
			return shared.NewKindError(shared.KindIO, err)
		}
	}
	metaPath := i.opts.DataDir + string(os.PathSeparator) + persistence.MetadataFileName()
	if err := os.Remove(metaPath); err != nil && !os.IsNotExist(err) {
		return shared.NewKindError(shared.KindIO, err)
	}
	return nil
}

func mustFileIndex(name string) int {
	idx, err := persistence.ParseFileIndex(name)
	if err != nil {
		return 0
	}
	return idx
}
