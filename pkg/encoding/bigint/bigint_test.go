package bigint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToFromBytesRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 127, 128, -128, -129, 255, 256, -256,
		32767, 32768, -32768, -32769, 1 << 30, -(1 << 30)}
	for _, c := range cases {
		n := big.NewInt(c)
		b := ToBytes(n)
		require.Equal(t, 0, FromBytes(b).Cmp(n), "case %d", c)
	}
}

func TestToBytesKnownValues(t *testing.T) {
	require.Equal(t, []byte{}, ToBytes(big.NewInt(0)))
	require.Equal(t, []byte{1}, ToBytes(big.NewInt(1)))
	require.Equal(t, []byte{0xff}, ToBytes(big.NewInt(-1)))
	require.Equal(t, []byte{0x7f}, ToBytes(big.NewInt(127)))
	require.Equal(t, []byte{0x80, 0x00}, ToBytes(big.NewInt(128)))
	require.Equal(t, []byte{0x80}, ToBytes(big.NewInt(-128)))
	require.Equal(t, []byte{0x7f, 0xff}, ToBytes(big.NewInt(-129)))
}

func TestFromBytesEmptyIsZero(t *testing.T) {
	require.Equal(t, 0, FromBytes(nil).Cmp(big.NewInt(0)))
	require.Equal(t, 0, FromBytes([]byte{}).Cmp(big.NewInt(0)))
}

func TestSizeofMatchesToBytesLength(t *testing.T) {
	cases := []int64{0, 1, -1, 127, 128, -128, 32767, -32768, 1 << 20, -(1 << 20)}
	for _, c := range cases {
		n := big.NewInt(c)
		require.Equal(t, len(ToBytes(n)), Sizeof(n), "case %d", c)
	}
}

func TestSizeofBigValues(t *testing.T) {
	big128bit := new(big.Int).Lsh(big.NewInt(1), 100)
	require.Equal(t, len(ToBytes(big128bit)), Sizeof(big128bit))

	neg := new(big.Int).Neg(big128bit)
	require.Equal(t, len(ToBytes(neg)), Sizeof(neg))
}

func TestPushIntSize(t *testing.T) {
	cases := []struct {
		in, out int
	}{
		{0, 1}, {1, 1},
		{2, 2}, {3, 4}, {4, 4},
		{5, 8}, {8, 8},
		{9, 16}, {16, 16},
		{17, 32}, {32, 32},
		{33, 32}, {100, 32},
	}
	for _, c := range cases {
		require.Equal(t, c.out, PushIntSize(c.in), "nbytes=%d", c.in)
	}
}
