package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommitmentDeterministic(t *testing.T) {
	r := require.New(t)

	identity := make([]byte, IdentitySize)
	atxID := make([]byte, IdentitySize)
	for i := range identity {
		identity[i] = byte(i)
		atxID[i] = byte(255 - i)
	}

	c1 := Commitment(identity, atxID)
	c2 := Commitment(identity, atxID)
	r.Equal(c1, c2)

	atxID[0] ^= 0xff
	c3 := Commitment(identity, atxID)
	r.NotEqual(c1, c3)
}
