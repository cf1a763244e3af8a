package keys

import (
	"crypto/aes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/base58"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

// NEP-2 format constants (flagged 0x0142, flag byte 0xE0 for a
// compressed-key standard account).
const (
	nep2Prefix1  = 0x01
	nep2Prefix2  = 0x42
	nep2Flag     = 0xE0
	nep2Length   = 39 // prefix(2) + flag(1) + addresshash(4) + encryptedhalf1(16) + encryptedhalf2(16)
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 8
	scryptKeyLen = 64
)

// ErrInvalidNEP2 signals a malformed NEP-2 payload.
var ErrInvalidNEP2 = errors.New("keys: invalid NEP-2 payload")

// ErrInvalidPassphrase is returned by NEP2Decrypt when the passphrase
// fails to reproduce the embedded address checksum.
var ErrInvalidPassphrase = errors.New("keys: invalid passphrase")

// NEP2Encrypt encrypts priv with passphrase using the scrypt-derived,
// AES-256-ECB NEP-2 scheme, per spec.md §4.2.
func NEP2Encrypt(priv *PrivateKey, passphrase string) (string, error) {
	addressHash := addressChecksum(priv.Address())

	derived, err := scrypt.Key(normalize(passphrase), addressHash, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	derivedHalf1, derivedHalf2 := derived[:32], derived[32:]

	xored := xorBytes(priv.Bytes(), derivedHalf1)

	block, err := aes.NewCipher(derivedHalf2)
	if err != nil {
		return "", err
	}
	encHalf1 := make([]byte, 16)
	encHalf2 := make([]byte, 16)
	block.Encrypt(encHalf1, xored[:16])
	block.Encrypt(encHalf2, xored[16:])

	buf := make([]byte, 0, nep2Length)
	buf = append(buf, nep2Prefix1, nep2Prefix2, nep2Flag)
	buf = append(buf, addressHash...)
	buf = append(buf, encHalf1...)
	buf = append(buf, encHalf2...)
	return base58.CheckEncode(buf), nil
}

// NEP2Decrypt decrypts an NEP-2 string with passphrase, returning the
// WIF of the recovered private key. The passphrase is validated by
// recomputing and comparing the embedded address checksum.
func NEP2Decrypt(nep2, passphrase string) (string, error) {
	b, err := base58.CheckDecode(nep2)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidNEP2, err)
	}
	if len(b) != nep2Length {
		return "", fmt.Errorf("%w: unexpected length %d", ErrInvalidNEP2, len(b))
	}
	if b[0] != nep2Prefix1 || b[1] != nep2Prefix2 || b[2] != nep2Flag {
		return "", fmt.Errorf("%w: unexpected header bytes", ErrInvalidNEP2)
	}
	addressHash := b[3:7]
	encHalf1 := b[7:23]
	encHalf2 := b[23:39]

	derived, err := scrypt.Key(normalize(passphrase), addressHash, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	derivedHalf1, derivedHalf2 := derived[:32], derived[32:]

	block, err := aes.NewCipher(derivedHalf2)
	if err != nil {
		return "", err
	}
	xored := make([]byte, 32)
	block.Decrypt(xored[:16], encHalf1)
	block.Decrypt(xored[16:], encHalf2)

	privBytes := xorBytes(xored, derivedHalf1)
	priv, err := NewPrivateKeyFromBytes(privBytes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPassphrase, err)
	}

	if !bytesEqual(addressChecksum(priv.Address()), addressHash) {
		return "", ErrInvalidPassphrase
	}
	return priv.WIF(), nil
}

// normalize applies the Unicode NFC normalization NEP-2 requires
// before a passphrase is fed to scrypt.
func normalize(passphrase string) []byte {
	return []byte(norm.NFC.String(passphrase))
}

func addressChecksum(address string) []byte {
	s1 := sha256.Sum256([]byte(address))
	s2 := sha256.Sum256(s1[:])
	return s2[:4]
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
