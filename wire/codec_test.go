package wire_test

import (
	"bytes"
	"testing"

	"github.com/katalvlaran/graphengine/wire"
	"github.com/stretchr/testify/require"
)

func TestVarlen_RoundTripAcrossRange(t *testing.T) {
	values := []uint32{0, 1, 0x7f, 0x80, 0xff, 0x1000, 0x7fffffff - 1}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, wire.WriteVarlen(&buf, v))

		got, err := wire.ReadVarlen(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarlen_SmallValuesEncodeInOneByte(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.WriteVarlen(&buf, 0x7f))
	require.Equal(t, 1, buf.Len())
}

func TestVarlen_TooLargeRejected(t *testing.T) {
	var buf bytes.Buffer
	err := wire.WriteVarlen(&buf, 0x80000000)
	require.ErrorIs(t, err, wire.ErrVarlenTooLarge)
}

func TestKeyOrHash_LiteralKeyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := wire.KeyOrHash{Key: []byte("V/hello")}
	require.NoError(t, wire.WriteKeyOrHash(&buf, in))

	out, err := wire.ReadKeyOrHash(&buf)
	require.NoError(t, err)
	require.False(t, out.HasHash())
	require.Equal(t, in.Key, out.Key)
}

func TestKeyOrHash_HashRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := wire.KeyOrHash{Hash: 0xdeadbeefcafef00d}
	require.NoError(t, wire.WriteKeyOrHash(&buf, in))

	out, err := wire.ReadKeyOrHash(&buf)
	require.NoError(t, err)
	require.True(t, out.HasHash())
	require.Equal(t, in.Hash, out.Hash)
}
