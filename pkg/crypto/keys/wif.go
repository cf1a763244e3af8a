package keys

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/base58"
)

// WIFVersion is the version byte Neo uses for Wallet Import Format
// private keys.
const WIFVersion = 0x80

// compressFlag marks a WIF payload as encoding a compressed public key.
const compressFlag = 0x01

// ErrInvalidWIF is returned for malformed WIF strings or payloads.
var ErrInvalidWIF = errors.New("keys: invalid WIF")

// WIF bundles a decoded Wallet Import Format private key together with
// the version/compression flags it carried.
type WIF struct {
	Version    byte
	Compressed bool
	PrivateKey *PrivateKey
}

// WIFEncode encodes a raw 32-byte private key scalar as WIF: version
// byte, 32-byte scalar, an optional 0x01 compression flag, Base58Check
// framed.
func WIFEncode(priv []byte, version byte, compressed bool) (string, error) {
	if len(priv) != PrivateKeySize {
		return "", fmt.Errorf("%w: private key must be %d bytes", ErrInvalidWIF, PrivateKeySize)
	}
	buf := make([]byte, 0, 34)
	buf = append(buf, version)
	buf = append(buf, priv...)
	if compressed {
		buf = append(buf, compressFlag)
	}
	return base58.CheckEncode(buf), nil
}

// WIFDecode decodes a WIF string, verifying it carries the expected
// version byte (WIFVersion when version == 0).
func WIFDecode(wif string, version byte) (*WIF, error) {
	if version == 0 {
		version = WIFVersion
	}
	b, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWIF, err)
	}
	if len(b) != 1+PrivateKeySize && len(b) != 1+PrivateKeySize+1 {
		return nil, fmt.Errorf("%w: unexpected payload length %d", ErrInvalidWIF, len(b))
	}
	if b[0] != version {
		return nil, fmt.Errorf("%w: unexpected version byte 0x%02x", ErrInvalidWIF, b[0])
	}
	compressed := false
	if len(b) == 1+PrivateKeySize+1 {
		if b[len(b)-1] != compressFlag {
			return nil, fmt.Errorf("%w: unexpected compression flag", ErrInvalidWIF)
		}
		compressed = true
	}
	priv, err := NewPrivateKeyFromBytes(b[1 : 1+PrivateKeySize])
	if err != nil {
		return nil, err
	}
	return &WIF{Version: b[0], Compressed: compressed, PrivateKey: priv}, nil
}
