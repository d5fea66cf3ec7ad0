package cipher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/postcore/shared"
)

func TestDeriveGroupKeysDeterministicAndDistinctPerDomain(t *testing.T) {
	r := require.New(t)

	var challenge shared.Challenge
	for i := range challenge {
		challenge[i] = byte(i)
	}

	k1 := DeriveGroupKeys(challenge, 0)
	k2 := DeriveGroupKeys(challenge, 0)
	r.Equal(k1, k2)
	r.NotEqual(k1.K0, k1.K1)

	k3 := DeriveGroupKeys(challenge, 1)
	r.NotEqual(k1.K0, k3.K0)
}

func TestKernelEncryptIsDeterministicAndKeyDependent(t *testing.T) {
	r := require.New(t)

	var challenge shared.Challenge
	keys := DeriveGroupKeys(challenge, 0)

	k, err := NewKernel(keys)
	r.NoError(err)

	labels := make([]byte, shared.LabelSize*shared.AESBatchSize)
	for i := range labels {
		labels[i] = byte(i)
	}

	out1, err := k.Encrypt0(labels)
	r.NoError(err)
	out2, err := k.Encrypt0(labels)
	r.NoError(err)
	r.Equal(out1, out2)
	r.NotEqual(labels, out1)

	out3, err := k.Encrypt1(labels)
	r.NoError(err)
	r.NotEqual(out1, out3)
}

func TestEncryptBatchRejectsUnalignedInput(t *testing.T) {
	keys := DeriveGroupKeys(shared.Challenge{}, 0)
	k, err := NewKernel(keys)
	require.NoError(t, err)

	_, err = k.Encrypt0(make([]byte, 17))
	require.Error(t, err)
}

func TestLeadingUint64(t *testing.T) {
	block := make([]byte, 16)
	block[0] = 0x01
	require.EqualValues(t, 1, LeadingUint64(block))
}
