package persistence

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/postcore/shared"
)

// SaveProofScale writes proof to path using the same compact scale codec
// go-spacemesh uses to gossip a Post proof over the network, as a
// space-efficient alternative to the JSON proof document postcli writes
// for human inspection.
func SaveProofScale(path string, proof *shared.Proof) error {
	var buf bytes.Buffer
	if _, err := proof.EncodeScale(scale.NewEncoder(&buf)); err != nil {
		return fmt.Errorf("scale-encoding proof: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), shared.OwnerReadWrite)
}

// LoadProofScale reads a proof previously written by SaveProofScale.
func LoadProofScale(path string) (*shared.Proof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scale proof: %w", err)
	}
	var proof shared.Proof
	if _, err := proof.DecodeScale(scale.NewDecoder(bytes.NewReader(data))); err != nil {
		return nil, fmt.Errorf("scale-decoding proof: %w", err)
	}
	return &proof, nil
}
