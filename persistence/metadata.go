package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spacemeshos/postcore/shared"
)

// ErrMetadataNotFound is returned when a datadir has no metadata file yet,
// i.e. initialization was never started there.
var ErrMetadataNotFound = errors.New("metadata file not found")

// SaveMetadata writes metadata to datadir/postdata_metadata.json.
func SaveMetadata(datadir string, metadata *shared.PostMetadata) error {
	if err := os.MkdirAll(datadir, shared.OwnerReadWriteExec); err != nil {
		return fmt.Errorf("creating datadir: %w", err)
	}

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	tmp := filepath.Join(datadir, metadataName+".tmp")
	if err := os.WriteFile(tmp, data, shared.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return os.Rename(tmp, filepath.Join(datadir, metadataName))
}

// LoadMetadata reads and unmarshals the metadata file from datadir.
func LoadMetadata(datadir string) (*shared.PostMetadata, error) {
	data, err := os.ReadFile(filepath.Join(datadir, metadataName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMetadataNotFound
		}
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	var metadata shared.PostMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	return &metadata, nil
}
