package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
)

func TestUint160StringRoundTrip(t *testing.T) {
	var u Uint160
	for i := range u {
		u[i] = byte(i + 1)
	}

	le := u.String()
	require.Len(t, le, 40)

	be := u.StringBE()
	require.True(t, len(be) == 42 && be[:2] == "0x")

	fromLE, err := Uint160DecodeString(le)
	require.NoError(t, err)
	require.Equal(t, u, fromLE)

	fromBE, err := Uint160DecodeString(be)
	require.NoError(t, err)
	require.Equal(t, u, fromBE)
}

func TestUint160DecodeBytesBEReversesBytes(t *testing.T) {
	u := Uint160{1, 2, 3}
	be := u.BytesBE()
	back, err := Uint160DecodeBytesBE(be)
	require.NoError(t, err)
	require.Equal(t, u, back)
}

func TestUint160DecodeBytesWrongSize(t *testing.T) {
	_, err := Uint160DecodeBytes([]byte{1, 2, 3})
	require.Error(t, err)
	_, err = Uint160DecodeBytesBE([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestUint160DecodeStringInvalidHex(t *testing.T) {
	_, err := Uint160DecodeString("not-hex")
	require.Error(t, err)
}

func TestUint160JSONRoundTrip(t *testing.T) {
	u := Uint160{9, 9, 9}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	require.Equal(t, `"`+u.StringBE()+`"`, string(data))

	var decoded Uint160
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, u, decoded)
}

func TestUint160EqualsAndLess(t *testing.T) {
	a := Uint160{1}
	b := Uint160{2}
	require.True(t, a.Equals(a))
	require.False(t, a.Equals(b))
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
}

func TestUint160EncodeDecodeBinary(t *testing.T) {
	u := Uint160{1, 2, 3, 4, 5}
	buf := io.NewBufBinWriter()
	u.EncodeBinary(buf.BinWriter)
	require.NoError(t, buf.Error())

	var decoded Uint160
	r := io.NewBinReaderFromBuf(buf.Bytes())
	decoded.DecodeBinary(r)
	require.NoError(t, r.Error())
	require.Equal(t, u, decoded)
}
