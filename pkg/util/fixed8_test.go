package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
)

func TestFixed8FromInt64(t *testing.T) {
	require.EqualValues(t, 100000000, Fixed8FromInt64(1))
	require.EqualValues(t, 0, Fixed8FromInt64(0))
}

func TestFixed8StringTrimsTrailingZeros(t *testing.T) {
	require.Equal(t, "1", Fixed8FromInt64(1).String())
	require.Equal(t, "1.5", Fixed8(150000000).String())
	require.Equal(t, "0.00000001", Satoshi().String())
	require.Equal(t, "-1.5", Fixed8(-150000000).String())
}

func TestFixed8FromStringRoundTrip(t *testing.T) {
	for _, s := range []string{"1", "1.5", "0.00000001", "123.456", "-2.25"} {
		v, err := Fixed8FromString(s)
		require.NoError(t, err)
		require.Equal(t, s, v.String())
	}
}

func TestFixed8FromStringTruncatesExtraDigits(t *testing.T) {
	v, err := Fixed8FromString("1.123456789")
	require.NoError(t, err)
	require.Equal(t, "1.12345678", v.String())
}

func TestFixed8ArithmeticAndConversions(t *testing.T) {
	a := Fixed8FromInt64(5)
	b := Fixed8FromInt64(2)
	require.Equal(t, Fixed8FromInt64(7), a.Add(b))
	require.Equal(t, Fixed8FromInt64(3), a.Sub(b))
	require.EqualValues(t, 5, a.Int64Value())
	require.InDelta(t, 5.0, a.FloatValue(), 0.0001)
}

func TestFixed8MarshalJSONAsNumber(t *testing.T) {
	data, err := Fixed8FromInt64(3).MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, "3", string(data))
}

func TestFixed8UnmarshalJSONAcceptsStringAndNumber(t *testing.T) {
	var f Fixed8
	require.NoError(t, json.Unmarshal([]byte(`"1.5"`), &f))
	require.Equal(t, Fixed8(150000000), f)

	var g Fixed8
	require.NoError(t, json.Unmarshal([]byte(`2.5`), &g))
	require.Equal(t, Fixed8(250000000), g)
}

func TestFixed8UnmarshalJSONRejectsBadType(t *testing.T) {
	var f Fixed8
	err := json.Unmarshal([]byte(`true`), &f)
	require.Error(t, err)
}

func TestFixed8EncodeDecodeBinary(t *testing.T) {
	f := Fixed8(-123456789)
	buf := io.NewBufBinWriter()
	f.EncodeBinary(buf.BinWriter)
	require.NoError(t, buf.Error())

	var decoded Fixed8
	r := io.NewBinReaderFromBuf(buf.Bytes())
	decoded.DecodeBinary(r)
	require.NoError(t, r.Error())
	require.Equal(t, f, decoded)
}
