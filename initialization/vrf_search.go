package initialization

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/oracle"
	"github.com/spacemeshos/postcore/persistence"
	"github.com/spacemeshos/postcore/shared"
)

// ErrNonceNotFound is returned when the VRF search window is empty, i.e.
// the dataset's nominal label count is zero. A dataset file that is
// shorter than its nominal size yields a read error instead.
var ErrNonceNotFound = errors.New("vrf nonce not found")

type searchOpts struct {
	logger *zap.Logger
}

// SearchOption configures SearchForNonce.
type SearchOption func(*searchOpts)

func WithSearchLogger(logger *zap.Logger) SearchOption {
	return func(o *searchOpts) { o.logger = logger }
}

// SearchForNonce scans the first shared.VRFNonceSearchWindow labels of the
// dataset under opts.DataDir and returns the index and Blake3 VRF
// candidate hash of the minimizing label (spec §4.1).
func SearchForNonce(ctx context.Context, cfg config.Config, opts config.InitOpts, commitment []byte, opns ...SearchOption) (nonce uint64, nonceValue []byte, err error) {
	o := &searchOpts{logger: zap.NewNop()}
	for _, s := range opns {
		s(o)
	}
	logger := o.logger

	fileNumLabels := config.FileNumLabels(cfg, opts)
	reader, err := persistence.OpenDataset(opts.DataDir, fileNumLabels)
	if err != nil {
		return 0, nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer reader.Close()

	window := uint64(shared.VRFNonceSearchWindow)
	if total := reader.NumLabels(); window > total {
		window = total
	}

	var best []byte
	var bestIdx uint64
	for idx := uint64(0); idx < window; idx++ {
		select {
		case <-ctx.Done():
			return bestIdx, best, ctx.Err()
		default:
		}
		label, err := reader.ReadLabel(idx)
		if err != nil {
			return 0, nil, fmt.Errorf("reading label %d: %w", idx, err)
		}
		candidate := oracle.VRFCandidateHash(commitment, idx, label)
		if best == nil || bytes.Compare(candidate, best) < 0 {
			best = candidate
			bestIdx = idx
		}
	}
	if best == nil {
		return 0, nil, ErrNonceNotFound
	}

	logger.Info("found vrf nonce",
		zap.Uint64("nonce", bestIdx),
		zap.String("value", hex.EncodeToString(best)),
	)
	return bestIdx, best, nil
}
