package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindErrorUnwrap(t *testing.T) {
	r := require.New(t)

	base := errors.New("bad challenge length")
	err := NewKindError(KindProofInvalid, base)

	r.Equal(KindProofInvalid, ErrorKind(err))
	r.True(errors.Is(err, base))
	r.Equal(base.Error(), err.Error())
}

func TestNewKindErrorNil(t *testing.T) {
	require.Nil(t, NewKindError(KindIO, nil))
}

func TestErrorKindUnknownForPlainError(t *testing.T) {
	require.Equal(t, KindUnknown, ErrorKind(errors.New("plain")))
}

func TestConfigMismatchError(t *testing.T) {
	err := ConfigMismatchError{
		Param:    "NumUnits",
		Expected: "4",
		Found:    "8",
		DataDir:  "/tmp/post",
	}
	require.Contains(t, err.Error(), "NumUnits")
	require.Contains(t, err.Error(), "/tmp/post")
}

func TestKindString(t *testing.T) {
	r := require.New(t)

	r.Equal("config", KindConfig.String())
	r.Equal("busy", KindBusy.String())
	r.Equal("unknown", Kind(99).String())
}
