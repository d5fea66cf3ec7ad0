package randomx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	r := require.New(t)

	key := []byte("test-key-0123456789")
	vm, err := NewVM(ModeLight, key)
	r.NoError(err)
	defer vm.Close()

	input := []byte("nonce-input")
	h1 := vm.Hash(input)
	h2 := vm.Hash(input)
	r.Equal(h1, h2)

	h3 := vm.Hash([]byte("different-input"))
	r.NotEqual(h1, h3)
}

func TestHashDiffersPerKey(t *testing.T) {
	r := require.New(t)

	input := []byte("same-input")

	vm1, err := NewVM(ModeLight, []byte("key-one"))
	r.NoError(err)
	defer vm1.Close()

	vm2, err := NewVM(ModeLight, []byte("key-two"))
	r.NoError(err)
	defer vm2.Close()

	r.NotEqual(vm1.Hash(input), vm2.Hash(input))
}

func TestKeyReportsInitializedKey(t *testing.T) {
	key := []byte("round-trip-key")
	vm, err := NewVM(ModeLight, key)
	require.NoError(t, err)
	defer vm.Close()

	require.Equal(t, key, vm.Key())
}

func TestCloseIsIdempotent(t *testing.T) {
	vm, err := NewVM(ModeLight, []byte("close-key"))
	require.NoError(t, err)

	require.NoError(t, vm.Close())
	require.NoError(t, vm.Close())
}
