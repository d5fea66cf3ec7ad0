package config

import (
	"fmt"
	"path/filepath"

	"github.com/spacemeshos/smutil"
)

// DefaultDataDirName is the leaf directory name used under the user's home
// directory for the default datadir.
const DefaultDataDirName = "post"

// DefaultDataDir is $HOME/post, the fallback datadir when none is given.
var DefaultDataDir = filepath.Join(smutil.GetUserHomeDirectory(), DefaultDataDirName)

// InitOpts holds the options for a single initialization run: which
// identity/commitment is being initialized, how large a dataset to build,
// and how to split it across files. Adapted from the teacher's
// config.InitOpts (consumed by initialization/layout.go's deriveFilesLayout
// in the original codebase).
type InitOpts struct {
	DataDir  string `mapstructure:"datadir"`
	NumUnits uint32 `mapstructure:"num-units"`
	NumFiles uint   `mapstructure:"num-files"`

	ComputeBatchSize uint64 `mapstructure:"compute-batch-size"`
	Throttle         bool   `mapstructure:"throttle"`
}

func DefaultInitOpts() InitOpts {
	return InitOpts{
		DataDir:          DefaultDataDir,
		NumFiles:         DefaultNumFiles,
		ComputeBatchSize: 1 << 14,
	}
}

// Validate checks opts against cfg's [MinNumUnits, MaxNumUnits] bound and
// the dataset-size invariants from the data model.
func Validate(cfg Config, opts InitOpts) error {
	if opts.NumUnits < cfg.MinNumUnits {
		return fmt.Errorf("num-units (%d) below min-num-units (%d)", opts.NumUnits, cfg.MinNumUnits)
	}
	if opts.NumUnits > cfg.MaxNumUnits {
		return fmt.Errorf("num-units (%d) above max-num-units (%d)", opts.NumUnits, cfg.MaxNumUnits)
	}
	if opts.NumFiles == 0 {
		return fmt.Errorf("num-files must be > 0")
	}
	numLabels := uint64(opts.NumUnits) * cfg.LabelsPerUnit
	if numLabels%uint64(opts.NumFiles) != 0 {
		return fmt.Errorf("num-labels (%d) not evenly divisible by num-files (%d)", numLabels, opts.NumFiles)
	}
	if opts.ComputeBatchSize == 0 || opts.ComputeBatchSize%8 != 0 {
		return fmt.Errorf("compute-batch-size (%d) must be a non-zero multiple of 8", opts.ComputeBatchSize)
	}
	return nil
}

// FileNumLabels returns the number of labels stored in each of NumFiles
// equal-size dataset files.
func FileNumLabels(cfg Config, opts InitOpts) uint64 {
	return uint64(opts.NumUnits) * cfg.LabelsPerUnit / uint64(opts.NumFiles)
}
