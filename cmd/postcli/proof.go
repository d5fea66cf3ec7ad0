package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spacemeshos/postcore/shared"
)

// proofDocument is the on-disk JSON form of a Proof plus the metadata
// needed to verify it standalone, hex-encoding byte fields the same way
// shared.PostMetadata does.
type proofDocument struct {
	Nonce   uint32          `json:"nonce"`
	Indices shared.HexBytes `json:"indices"`
	Pow     uint64          `json:"pow"`

	NodeID          shared.HexBytes `json:"node_id"`
	CommitmentAtxID shared.HexBytes `json:"commitment_atx_id"`
	Challenge       shared.HexBytes `json:"challenge"`
	NumUnits        uint32          `json:"num_units"`
	LabelsPerUnit   uint64          `json:"labels_per_unit"`
	K1              uint32          `json:"k1"`
	K2              uint32          `json:"k2"`
}

func newProofDocument(proof *shared.Proof, metadata *shared.ProofMetadata) proofDocument {
	return proofDocument{
		Nonce:           proof.Nonce,
		Indices:         shared.HexBytes(proof.Indices),
		Pow:             proof.Pow,
		NodeID:          shared.HexBytes(metadata.NodeId),
		CommitmentAtxID: shared.HexBytes(metadata.CommitmentAtxId),
		Challenge:       shared.HexBytes(metadata.Challenge[:]),
		NumUnits:        metadata.NumUnits,
		LabelsPerUnit:   metadata.LabelsPerUnit,
		K1:              metadata.K1,
		K2:              metadata.K2,
	}
}

func (d proofDocument) split() (*shared.Proof, *shared.ProofMetadata, error) {
	if len(d.Challenge) != shared.ChallengeSize {
		return nil, nil, fmt.Errorf("challenge must be %d bytes, got %d", shared.ChallengeSize, len(d.Challenge))
	}
	var challenge shared.Challenge
	copy(challenge[:], d.Challenge)

	proof := &shared.Proof{Nonce: d.Nonce, Indices: d.Indices, Pow: d.Pow}
	metadata := &shared.ProofMetadata{
		NodeId:          d.NodeID,
		CommitmentAtxId: d.CommitmentAtxID,
		Challenge:       challenge,
		NumUnits:        d.NumUnits,
		LabelsPerUnit:   d.LabelsPerUnit,
		K1:              d.K1,
		K2:              d.K2,
	}
	return proof, metadata, nil
}

func writeProofDocument(path string, proof *shared.Proof, metadata *shared.ProofMetadata) error {
	data, err := json.MarshalIndent(newProofDocument(proof, metadata), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling proof: %w", err)
	}
	return os.WriteFile(path, data, shared.OwnerReadWrite)
}

func readProofDocument(path string) (*shared.Proof, *shared.ProofMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading proof file: %w", err)
	}
	var doc proofDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing proof file: %w", err)
	}
	return doc.split()
}
