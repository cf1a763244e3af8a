package address

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/base58"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

func TestUint160DecodeEncodeAddress(t *testing.T) {
	var u util.Uint160
	for i := range u {
		u[i] = byte(i)
	}

	addr := Uint160ToString(u)
	val, err := StringToUint160(addr)
	require.NoError(t, err)
	require.Equal(t, u, val)
	require.Equal(t, addr, Uint160ToString(val))
}

func TestUint160DecodeKnownAddress(t *testing.T) {
	var u util.Uint160
	for i := range u {
		u[i] = byte(0xa0 + i)
	}

	addr := Uint160ToString(u)

	val, err := StringToUint160(addr)
	require.NoError(t, err)
	require.Equal(t, u.String(), val.String())
	require.Equal(t, u.StringBE(), val.StringBE())
}

func TestUint160DecodeBadBase58(t *testing.T) {
	_, err := StringToUint160("AJeAEsmeD6t279Dx4n2HWdUvUmmXQ4iJv@")
	require.Error(t, err)
}

func TestUint160DecodeBadPrefix(t *testing.T) {
	b := make([]byte, 1+util.Uint160Size)
	b[0] = 0x17 // the old Neo2 prefix, not the N3 Prefix
	addr := base58.CheckEncode(b)

	_, err := StringToUint160(addr)
	require.ErrorIs(t, err, ErrInvalidVersion)
}

func TestUint160DecodeBadLength(t *testing.T) {
	b := make([]byte, 1+util.Uint160Size+1)
	b[0] = Prefix
	addr := base58.CheckEncode(b)

	_, err := StringToUint160(addr)
	require.Error(t, err)
}

func TestPrefixFirstLetter(t *testing.T) {
	u := util.Uint160{}
	require.EqualValues(t, 'N', Uint160ToString(u)[0])

	for i := range u {
		u[i] = 0xff
	}
	require.EqualValues(t, 'N', Uint160ToString(u)[0])
}
