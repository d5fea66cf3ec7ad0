package indices

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/postcore/shared"
)

func TestDrawSampleSizeAndBounds(t *testing.T) {
	r := require.New(t)

	var challenge shared.Challenge
	for i := range challenge {
		challenge[i] = byte(i * 7)
	}

	out := DrawSample(challenge, 37, 10)
	r.Len(out, 10)

	seen := make(map[int]bool, len(out))
	for _, v := range out {
		r.False(seen[v], "duplicate index drawn: %d", v)
		seen[v] = true
		r.True(v >= 0 && v < 37)
	}
}

func TestDrawSampleFullWhenK3GEK2(t *testing.T) {
	out := DrawSample(shared.Challenge{}, 5, 5)
	require.Equal(t, []int{0, 1, 2, 3, 4}, out)

	out = DrawSample(shared.Challenge{}, 5, 10)
	require.Equal(t, []int{0, 1, 2, 3, 4}, out)
}

func TestDrawSampleDeterministic(t *testing.T) {
	var challenge shared.Challenge
	copy(challenge[:], []byte("deterministic-challenge"))

	a := DrawSample(challenge, 100, 20)
	b := DrawSample(challenge, 100, 20)
	require.Equal(t, a, b)
}
