package keys

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/internal/keytestcases"
	"github.com/nspcc-dev/neo-go-sdk/internal/testserdes"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
)

func TestPrivateKeyFromHex(t *testing.T) {
	for _, tc := range keytestcases.Arr {
		priv, err := NewPrivateKeyFromHex(tc.PrivateKey)
		if tc.Invalid {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.Address, priv.Address())
		require.Equal(t, tc.Wif, priv.WIF())
		require.Equal(t, tc.PublicKey, hex.EncodeToString(priv.PublicKey().Bytes()))

		oldD := new(big.Int).Set(priv.D)
		priv.Destroy()
		require.NotEqual(t, oldD, priv.D)
	}
}

func TestPrivateKeyFromWIF(t *testing.T) {
	for _, tc := range keytestcases.Arr {
		priv, err := NewPrivateKeyFromWIF(tc.Wif)
		if tc.Invalid {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.PrivateKey, priv.String())
	}
}

func TestNewPrivateKeyAndSign(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	msg := []byte{1, 2, 3}
	sig := priv.Sign(msg)
	require.Len(t, sig, 64)
	require.True(t, priv.PublicKey().Verify(sig, hash.Sha256(msg).BytesBE()))
}

func TestSigningIsDeterministic(t *testing.T) {
	priv, err := NewPrivateKeyFromHex("c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f672")
	require.NoError(t, err)

	sig1 := priv.Sign([]byte("sample"))
	sig2 := priv.Sign([]byte("sample"))
	require.Equal(t, sig1, sig2)
	require.True(t, priv.PublicKey().Verify(sig1, hash.Sha256([]byte("sample")).BytesBE()))
}

func TestPublicKeyFromString(t *testing.T) {
	for _, tc := range keytestcases.Arr {
		if tc.Invalid {
			continue
		}
		pub, err := NewPublicKeyFromString(tc.PublicKey)
		require.NoError(t, err)
		require.Equal(t, tc.PublicKey, pub.String())
		require.Equal(t, tc.Address, pub.Address())
	}
}

func TestPublicKeyInfinity(t *testing.T) {
	pub, err := NewPublicKeyFromBytes([]byte{0x00}, Secp256r1())
	require.NoError(t, err)
	require.True(t, pub.IsInfinity())
	require.Equal(t, []byte{0x00}, pub.Bytes())
}

func TestPublicKeyEncodeDecodeBinary(t *testing.T) {
	for _, tc := range keytestcases.Arr {
		if tc.Invalid {
			continue
		}
		pub, err := NewPublicKeyFromString(tc.PublicKey)
		require.NoError(t, err)
		decoded := new(PublicKey)
		testserdes.EncodeDecodeBinary(t, pub, decoded)
	}
}

func TestPublicKeyEqual(t *testing.T) {
	a, err := NewPublicKeyFromString(keytestcases.Arr[0].PublicKey)
	require.NoError(t, err)
	b, err := NewPublicKeyFromString(keytestcases.Arr[0].PublicKey)
	require.NoError(t, err)
	c, err := NewPublicKeyFromString(keytestcases.Arr[1].PublicKey)
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestWIFEncodeDecode(t *testing.T) {
	for _, tc := range keytestcases.Arr {
		if tc.Invalid {
			continue
		}
		priv, err := NewPrivateKeyFromHex(tc.PrivateKey)
		require.NoError(t, err)

		wif, err := WIFEncode(priv.Bytes(), WIFVersion, true)
		require.NoError(t, err)
		require.Equal(t, tc.Wif, wif)

		decoded, err := WIFDecode(wif, WIFVersion)
		require.NoError(t, err)
		require.True(t, decoded.Compressed)
		require.Equal(t, tc.PrivateKey, decoded.PrivateKey.String())
	}
}

func TestWIFDecodeWrongVersion(t *testing.T) {
	_, err := WIFDecode(keytestcases.Arr[0].Wif, 0x81)
	require.Error(t, err)
}

func TestNEP2EncryptDecrypt(t *testing.T) {
	for _, tc := range keytestcases.Arr {
		if tc.Invalid {
			continue
		}
		priv, err := NewPrivateKeyFromHex(tc.PrivateKey)
		require.NoError(t, err)

		encrypted, err := NEP2Encrypt(priv, tc.Passphrase)
		require.NoError(t, err)
		require.Equal(t, tc.EncryptedWif, encrypted)

		wif, err := NEP2Decrypt(encrypted, tc.Passphrase)
		require.NoError(t, err)

		decoded, err := NewPrivateKeyFromWIF(wif)
		require.NoError(t, err)
		require.Equal(t, tc.PrivateKey, decoded.String())
	}
}

func TestNEP2DecryptWrongPassphrase(t *testing.T) {
	tc := keytestcases.Arr[0]
	_, err := NEP2Decrypt(tc.EncryptedWif, "not the passphrase")
	require.ErrorIs(t, err, ErrInvalidPassphrase)
}

func TestPublicKeysContains(t *testing.T) {
	a, err := NewPublicKeyFromString(keytestcases.Arr[0].PublicKey)
	require.NoError(t, err)
	b, err := NewPublicKeyFromString(keytestcases.Arr[1].PublicKey)
	require.NoError(t, err)
	c, err := NewPublicKeyFromString(keytestcases.Arr[2].PublicKey)
	require.NoError(t, err)

	ks := PublicKeys{a, b}
	require.True(t, ks.Contains(a))
	require.False(t, ks.Contains(c))
}

func TestPublicKeysEncodeDecodeBinary(t *testing.T) {
	a, err := NewPublicKeyFromString(keytestcases.Arr[0].PublicKey)
	require.NoError(t, err)
	b, err := NewPublicKeyFromString(keytestcases.Arr[1].PublicKey)
	require.NoError(t, err)

	ks := PublicKeys{a, b}
	var decoded PublicKeys
	testserdes.EncodeDecodeBinary(t, &ks, &decoded)
}
