package keys

import (
	"encoding/json"

	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
)

// PublicKeys is a slice of *PublicKey with the binary/JSON
// (un)marshaling and contains/sort helpers used wherever the protocol
// treats a key list as a single wire value (committee/validator
// lists, multi-sig group descriptions).
type PublicKeys []*PublicKey

// NewPublicKeysFromStrings decodes a list of hex-encoded compressed
// points.
func NewPublicKeysFromStrings(ss []string) (PublicKeys, error) {
	pks := make(PublicKeys, len(ss))
	for i, s := range ss {
		pk, err := NewPublicKeyFromString(s)
		if err != nil {
			return nil, err
		}
		pks[i] = pk
	}
	return pks, nil
}

// Contains reports whether pk is present in ks.
func (ks PublicKeys) Contains(pk *PublicKey) bool {
	for _, k := range ks {
		if k.Equal(pk) {
			return true
		}
	}
	return false
}

// EncodeBinary writes the key list as a var-array of compressed points.
func (ks PublicKeys) EncodeBinary(w *io.BinWriter) {
	w.WriteVarUint(uint64(len(ks)))
	for _, k := range ks {
		k.EncodeBinary(w)
	}
}

// DecodeBinary reads a key list as written by EncodeBinary.
func (ks *PublicKeys) DecodeBinary(r *io.BinReader) {
	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	list := make(PublicKeys, n)
	for i := range list {
		pk := new(PublicKey)
		pk.DecodeBinary(r)
		if r.Err != nil {
			return
		}
		list[i] = pk
	}
	*ks = list
}

// MarshalJSON renders the key list as an array of hex strings.
func (ks PublicKeys) MarshalJSON() ([]byte, error) {
	ss := make([]string, len(ks))
	for i, k := range ks {
		ss[i] = k.String()
	}
	return json.Marshal(ss)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (ks *PublicKeys) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return err
	}
	pks, err := NewPublicKeysFromStrings(ss)
	if err != nil {
		return err
	}
	*ks = pks
	return nil
}
