package keys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
	"github.com/nspcc-dev/rfc6979"
)

// PrivateKeySize is the byte length of a PrivateKey's scalar.
const PrivateKeySize = 32

// ErrInvalidPrivateKey signals a malformed or zero/out-of-range scalar.
var ErrInvalidPrivateKey = errors.New("keys: invalid private key")

// PrivateKey is a secp256r1 scalar together with its derived point,
// the signing half of an account.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// NewPrivateKey generates a fresh random PrivateKey using the system
// CSPRNG.
func NewPrivateKey() (*PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(secp256r1(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PrivateKey: *priv}, nil
}

// NewPrivateKeyFromBytes builds a PrivateKey from its raw 32-byte
// big-endian scalar.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, PrivateKeySize, len(b))
	}
	d := new(big.Int).SetBytes(b)
	if d.Sign() == 0 || d.Cmp(secp256r1().Params().N) >= 0 {
		return nil, ErrInvalidPrivateKey
	}
	priv := new(PrivateKey)
	priv.D = d
	priv.Curve = secp256r1()
	priv.X, priv.Y = secp256r1().ScalarBaseMult(b)
	return priv, nil
}

// NewPrivateKeyFromHex decodes a hex-encoded 32-byte scalar.
func NewPrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return NewPrivateKeyFromBytes(b)
}

// Bytes returns the raw 32-byte big-endian scalar, zero-padded on the
// left if needed.
func (p *PrivateKey) Bytes() []byte {
	b := make([]byte, PrivateKeySize)
	db := p.D.Bytes()
	copy(b[PrivateKeySize-len(db):], db)
	return b
}

// String is the lowercase hex form of Bytes.
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// PublicKey returns the point this key was derived from.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := PublicKey(p.PrivateKey.PublicKey)
	return &pub
}

// Address is the Base58Check address of PublicKey().Address().
func (p *PrivateKey) Address() string {
	return p.PublicKey().Address()
}

// WIF encodes p in the compressed Wallet Import Format, per spec.md
// §3's key lifecycle.
func (p *PrivateKey) WIF() string {
	s, _ := WIFEncode(p.Bytes(), WIFVersion, true)
	return s
}

// Sign hashes msg with SHA-256 and produces a deterministic, low-S
// canonical signature over the digest, per spec.md §4.2's signing
// rule.
func (p *PrivateKey) Sign(msg []byte) []byte {
	h := hash.Sha256(msg)
	return p.SignHash(h)
}

// SignHash signs a pre-computed 32-byte digest directly, used by
// transaction signing where the digest is Hash256 of the unsigned
// transaction wire form.
func (p *PrivateKey) SignHash(digest interface{ BytesBE() []byte }) []byte {
	r, s := rfc6979.SignECDSA(&p.PrivateKey, digest.BytesBE(), sha256.New)
	s = lowS(s)
	return concatRS(r, s)
}

// lowS folds s to the lower half of the curve order, the canonical
// form the protocol requires for ECDSA signatures to be accepted
// (rejects the trivial s/N-s malleability).
func lowS(s *big.Int) *big.Int {
	n := secp256r1().Params().N
	half := new(big.Int).Rsh(n, 1)
	if s.Cmp(half) > 0 {
		return new(big.Int).Sub(n, s)
	}
	return s
}

func concatRS(r, s *big.Int) []byte {
	out := make([]byte, 64)
	rb, sb := r.Bytes(), s.Bytes()
	copy(out[32-len(rb):32], rb)
	copy(out[64-len(sb):], sb)
	return out
}

// Destroy zeroes the private scalar in place, limiting the window a
// key stays resident in memory once it is no longer needed.
func (p *PrivateKey) Destroy() {
	b := p.D.Bits()
	for i := range b {
		b[i] = 0
	}
	p.D.SetInt64(0)
}

// NewPrivateKeyFromWIF decodes a WIF-encoded compressed private key.
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	w, err := WIFDecode(wif, WIFVersion)
	if err != nil {
		return nil, err
	}
	return w.PrivateKey, nil
}
