package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexBytesMarshal(t *testing.T) {
	h := HexBytes{0x01, 0x02, 0x03}
	data, err := h.MarshalJSON()
	require.NoError(t, err)
	require.EqualValues(t, `"010203"`, data)
}

func TestHexBytesUnmarshal(t *testing.T) {
	var h HexBytes
	require.NoError(t, h.UnmarshalJSON([]byte(`"010203"`)))
	require.Equal(t, HexBytes{0x01, 0x02, 0x03}, h)
}

func TestPostMetadataRoundTrip(t *testing.T) {
	nonce := uint64(7)
	m := PostMetadata{
		NodeId:          HexBytes{0xaa, 0xbb},
		CommitmentAtxId: HexBytes{0xcc, 0xdd},
		NumUnits:        4,
		LabelsPerUnit:   1 << 20,
		MaxFileSize:     1 << 30,
		Nonce:           &nonce,
		NonceValue:      HexBytes{0x01},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var out PostMetadata
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, m.NodeId, out.NodeId)
	require.Equal(t, m.NumUnits, out.NumUnits)
	require.Equal(t, *m.Nonce, *out.Nonce)
}
