package result

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
)

// Validator is one entry of a getcandidates/getvalidators/getcommittee
// reply: a registered candidate's public key, accumulated vote weight,
// and (for getcandidates) whether it's currently an active validator.
type Validator struct {
	PublicKey *keys.PublicKey
	Votes     int64
	Active    bool
}

type validatorJSON struct {
	PublicKey string          `json:"publickey"`
	Votes     json.RawMessage `json:"votes"`
	Active    bool            `json:"active,omitempty"`
}

// MarshalJSON renders Votes as the current raw-integer wire shape.
func (v Validator) MarshalJSON() ([]byte, error) {
	return json.Marshal(validatorJSON{v.PublicKey.String(), []byte(fmt.Sprintf("%d", v.Votes)), v.Active})
}

// UnmarshalJSON accepts both the legacy decimal-string Votes encoding
// and the current raw-integer one.
func (v *Validator) UnmarshalJSON(data []byte) error {
	var raw validatorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pk, err := keys.NewPublicKeyFromString(raw.PublicKey)
	if err != nil {
		return err
	}
	var votes int64
	if err := json.Unmarshal(raw.Votes, &votes); err != nil {
		var s string
		if err2 := json.Unmarshal(raw.Votes, &s); err2 != nil {
			return err
		}
		if _, err2 := fmt.Sscanf(s, "%d", &votes); err2 != nil {
			return fmt.Errorf("result: invalid votes %q: %w", s, err2)
		}
	}
	v.PublicKey = pk
	v.Votes = votes
	v.Active = raw.Active
	return nil
}
