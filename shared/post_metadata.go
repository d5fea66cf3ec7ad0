package shared

import (
	"encoding/hex"
	"encoding/json"
)

// PostMetadata is the JSON document persisted next to the dataset files as
// postdata_metadata.json (spec §6.4). Field names match the wire format;
// hex-encoded byte slices use the same MarshalJSON/UnmarshalJSON trick as
// the teacher's shared/post_metadata.go.
type PostMetadata struct {
	NodeId          HexBytes `json:"node_id"`
	CommitmentAtxId HexBytes `json:"commitment_atx_id"`

	NumUnits      uint32 `json:"num_units"`
	LabelsPerUnit uint64 `json:"labels_per_unit"`
	MaxFileSize   uint64 `json:"max_file_size"`

	Nonce        *uint64  `json:"nonce,omitempty"`
	NonceValue   HexBytes `json:"nonce_value,omitempty"`
	LastPosition *uint64  `json:"last_position,omitempty"`
}

// HexBytes marshals as a lowercase hex string, matching the teacher's
// NodeID/ATXID/NonceValue JSON types.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*h = b
	return nil
}
