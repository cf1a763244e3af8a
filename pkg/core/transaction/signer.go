package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// MaxAttributesCount-sized limits reused here: a Signer's
// AllowedContracts/AllowedGroups/Rules lists are each capped at this
// count, matching the protocol's MaxAttributeNameLength-adjacent
// rule of 16 entries per list.
const maxSignerSubItems = 16

// ErrTooManySubItems is returned when a Signer's AllowedContracts,
// AllowedGroups, or Rules list exceeds maxSignerSubItems.
var ErrTooManySubItems = errors.New("transaction: signer list too long")

// Signer declares one account that must witness a transaction and the
// scope within which that witness is considered valid, per spec.md
// §4.5.
type Signer struct {
	Account          util.Uint160
	Scopes           WitnessScope
	AllowedContracts []util.Uint160
	AllowedGroups    []*keys.PublicKey
	Rules            []WitnessRule
}

// EncodeBinary writes the account, scope byte, and whichever of
// AllowedContracts/AllowedGroups/Rules the scope bits imply.
func (s Signer) EncodeBinary(w *io.BinWriter) {
	s.Account.EncodeBinary(w)
	w.WriteB(byte(s.Scopes))
	if s.Scopes.Has(CustomContracts) {
		w.WriteVarUint(uint64(len(s.AllowedContracts)))
		for _, c := range s.AllowedContracts {
			c.EncodeBinary(w)
		}
	}
	if s.Scopes.Has(CustomGroups) {
		w.WriteVarUint(uint64(len(s.AllowedGroups)))
		for _, g := range s.AllowedGroups {
			g.EncodeBinary(w)
		}
	}
	if s.Scopes.Has(Rules) {
		w.WriteVarUint(uint64(len(s.Rules)))
		for _, r := range s.Rules {
			r.EncodeBinary(w)
		}
	}
}

// DecodeBinary reads a Signer, reading only the sub-lists the decoded
// scope bits imply are present (the scope-bit-implies-list invariant).
func (s *Signer) DecodeBinary(r *io.BinReader) {
	s.Account.DecodeBinary(r)
	if r.Err != nil {
		return
	}
	scopeByte := r.ReadB()
	if r.Err != nil {
		return
	}
	scopes, err := ScopesFromByte(scopeByte)
	if err != nil {
		r.Err = err
		return
	}
	s.Scopes = scopes

	if scopes.Has(CustomContracts) {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > maxSignerSubItems {
			r.Err = fmt.Errorf("%w: AllowedContracts", ErrTooManySubItems)
			return
		}
		s.AllowedContracts = make([]util.Uint160, n)
		for i := range s.AllowedContracts {
			s.AllowedContracts[i].DecodeBinary(r)
			if r.Err != nil {
				return
			}
		}
	}
	if scopes.Has(CustomGroups) {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > maxSignerSubItems {
			r.Err = fmt.Errorf("%w: AllowedGroups", ErrTooManySubItems)
			return
		}
		s.AllowedGroups = make([]*keys.PublicKey, n)
		for i := range s.AllowedGroups {
			pk := new(keys.PublicKey)
			pk.DecodeBinary(r)
			if r.Err != nil {
				return
			}
			s.AllowedGroups[i] = pk
		}
	}
	if scopes.Has(Rules) {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > maxSignerSubItems {
			r.Err = fmt.Errorf("%w: Rules", ErrTooManySubItems)
			return
		}
		s.Rules = make([]WitnessRule, n)
		for i := range s.Rules {
			s.Rules[i].DecodeBinary(r)
			if r.Err != nil {
				return
			}
		}
	}
}

// signerJSON is the RPC/manifest wire shape of a Signer.
type signerJSON struct {
	Account          string            `json:"account"`
	Scopes           WitnessScope      `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule     `json:"rules,omitempty"`
}

// MarshalJSON renders the Signer in its RPC wire shape.
func (s Signer) MarshalJSON() ([]byte, error) {
	return json.Marshal(signerJSON{
		Account:          s.Account.StringBE(),
		Scopes:           s.Scopes,
		AllowedContracts: s.AllowedContracts,
		AllowedGroups:    s.AllowedGroups,
		Rules:            s.Rules,
	})
}

// UnmarshalJSON parses the Signer from its RPC wire shape.
func (s *Signer) UnmarshalJSON(data []byte) error {
	var raw signerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	account, err := util.Uint160DecodeString(raw.Account)
	if err != nil {
		return err
	}
	s.Account = account
	s.Scopes = raw.Scopes
	s.AllowedContracts = raw.AllowedContracts
	s.AllowedGroups = raw.AllowedGroups
	s.Rules = raw.Rules
	return nil
}
