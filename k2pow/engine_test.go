package k2pow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyDeterministicAndSensitiveToInputs(t *testing.T) {
	r := require.New(t)

	challenge := []byte("challenge-bytes")
	identity := []byte("identity-bytes")

	k1 := Key(challenge, identity, 0, 4)
	k2 := Key(challenge, identity, 0, 4)
	r.Equal(k1, k2)

	r.NotEqual(k1, Key(challenge, identity, 1, 4))
	r.NotEqual(k1, Key(challenge, identity, 0, 5))
	r.NotEqual(k1, Key([]byte("other-challenge"), identity, 0, 4))
}

func TestDefaultThreadsPositive(t *testing.T) {
	require.GreaterOrEqual(t, defaultThreads(), 1)
}
