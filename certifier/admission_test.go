package certifier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdmitter_ChannelCapacities(t *testing.T) {
	a := NewAdmitter(3, 5)
	require.Equal(t, 3, cap(a.slots))
	require.Equal(t, 8, cap(a.queue))
}

func TestAdmitter_ZeroValuesClampToOne(t *testing.T) {
	a := NewAdmitter(0, -1)
	require.Equal(t, 1, cap(a.slots))
	require.Equal(t, 1, cap(a.queue))

	release, err := a.Enter()
	require.NoError(t, err)
	release()
}

func TestAdmitter_ShedsLoadWhenQueueFull(t *testing.T) {
	a := NewAdmitter(1, 0)

	release, err := a.Enter()
	require.NoError(t, err)

	_, err = a.Enter()
	require.ErrorIs(t, err, ErrOverloaded)

	release()

	release2, err := a.Enter()
	require.NoError(t, err)
	release2()
}
