package base58

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckEncodeDecode(t *testing.T) {
	b58CsumEncoded := "KxhEDBQyyEFymvfJD96q8stMbJMbZUb6D1PmXqBWZDU2WvbvVs9o"
	b58CsumDecodedHex := "802bfe58ab6d9fd575bdc3a624e4825dd2b375d64ac033fbc46ea79dbab4f69a3e01"

	b58CsumDecoded, err := hex.DecodeString(b58CsumDecodedHex)
	require.NoError(t, err)

	encoded := CheckEncode(b58CsumDecoded)
	require.Equal(t, b58CsumEncoded, encoded)

	decoded, err := CheckDecode(b58CsumEncoded)
	require.NoError(t, err)
	require.Equal(t, b58CsumDecoded, decoded)
}

func TestCheckDecodeFailures(t *testing.T) {
	_, err := CheckDecode("BASE%*")
	require.Error(t, err)

	_, err = CheckDecode("THqY")
	require.Error(t, err)

	_, err = CheckDecode("KxhEDBQyyEFymvfJD96q8stMbJMbZUb6D1PmXqBWZDU2WvbvVs9A")
	require.ErrorIs(t, err, ErrInvalidChecksum)
}

func TestBase58LeadingZeroes(t *testing.T) {
	buf := []byte{0, 0, 0, 1}
	b58 := CheckEncode(buf)
	dec, err := CheckDecode(b58)
	require.NoError(t, err)
	require.Equal(t, buf, dec)
}

func TestEncodeDecodePlain(t *testing.T) {
	buf := []byte("the quick brown fox")
	encoded := Encode(buf)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, buf, decoded)
}
