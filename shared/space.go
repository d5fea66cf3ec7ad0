package shared

import (
	"fmt"

	"github.com/ricochet2200/go-disk-usage/du"
)

// MaxNumFiles bounds how many equal-size files a dataset may be split
// across.
const MaxNumFiles = 256

// AvailableSpace returns the free space, in bytes, on the filesystem
// backing path.
func AvailableSpace(path string) uint64 {
	usage := du.NewDiskUsage(path)
	return usage.Available()
}

// ValidateNumFiles checks that a dataset of the given size can be evenly
// split across numFiles files that are each a multiple of the AES batch
// size (128 bytes == 8 labels), per the Dataset invariant in the data
// model.
func ValidateNumFiles(numLabels uint64, numFiles uint) error {
	if numFiles == 0 {
		return fmt.Errorf("numFiles must be > 0")
	}
	if numFiles > MaxNumFiles {
		return fmt.Errorf("numFiles (%d) exceeds max (%d)", numFiles, MaxNumFiles)
	}
	if numLabels%uint64(numFiles) != 0 {
		return fmt.Errorf("numLabels (%d) not evenly divisible by numFiles (%d)", numLabels, numFiles)
	}
	fileNumLabels := numLabels / uint64(numFiles)
	if fileNumLabels%AESBatchSize != 0 {
		return fmt.Errorf("file label count (%d) must be a multiple of %d", fileNumLabels, AESBatchSize)
	}
	return nil
}
