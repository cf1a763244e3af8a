package neorpc

import (
	"encoding/json"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
)

// SignerWithWitness is the invokefunction/invokescript request shape
// combining a Signer with the Witness a caller supplies for preflight
// "verify"-trigger checks (e.g. a contract's own verify() method).
type SignerWithWitness struct {
	transaction.Signer
	transaction.Witness
}

type signerWithWitnessJSON struct {
	transaction.Signer
	Invocation   []byte `json:"invocation,omitempty"`
	Verification []byte `json:"verification,omitempty"`
}

// MarshalJSON renders the combined Signer+Witness shape the RPC server
// expects for invoke* request params; an empty Witness is omitted
// entirely, matching the teacher's default-signer convention.
func (s SignerWithWitness) MarshalJSON() ([]byte, error) {
	raw := signerWithWitnessJSON{Signer: s.Signer}
	if len(s.InvocationScript) > 0 {
		raw.Invocation = s.InvocationScript
	}
	if len(s.VerificationScript) > 0 {
		raw.Verification = s.VerificationScript
	}
	return json.Marshal(raw)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *SignerWithWitness) UnmarshalJSON(data []byte) error {
	var raw signerWithWitnessJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Signer = raw.Signer
	s.Witness = transaction.Witness{
		InvocationScript:   raw.Invocation,
		VerificationScript: raw.Verification,
	}
	return nil
}
