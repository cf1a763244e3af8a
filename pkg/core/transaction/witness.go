package transaction

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
)

// Protocol-defined caps on witness script sizes.
const (
	MaxInvocationScript   = 1024
	MaxVerificationScript = 1024
)

// ErrWitnessTooLong is returned when decoding a witness whose script
// exceeds the protocol's size caps.
var ErrWitnessTooLong = errors.New("transaction: witness script too long")

// Witness carries the invocation script (pushes signatures onto the
// stack) and verification script (the account's redeem script) that
// together prove a Signer authorized a transaction, per spec.md §3.
type Witness struct {
	InvocationScript   []byte
	VerificationScript []byte
}

// EncodeBinary writes both scripts as var_bytes.
func (w Witness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

// DecodeBinary reads both scripts, rejecting ones beyond the protocol
// caps.
func (w *Witness) DecodeBinary(br *io.BinReader) {
	w.InvocationScript = br.ReadVarBytes()
	if br.Err != nil {
		return
	}
	if len(w.InvocationScript) > MaxInvocationScript {
		br.Err = fmt.Errorf("%w: invocation script", ErrWitnessTooLong)
		return
	}
	w.VerificationScript = br.ReadVarBytes()
	if br.Err != nil {
		return
	}
	if len(w.VerificationScript) > MaxVerificationScript {
		br.Err = fmt.Errorf("%w: verification script", ErrWitnessTooLong)
	}
}

// Copy returns a value copy of w with both scripts independently
// backed (mutating the copy's scripts never touches w's).
func (w Witness) Copy() Witness {
	cp := Witness{
		InvocationScript:   make([]byte, len(w.InvocationScript)),
		VerificationScript: make([]byte, len(w.VerificationScript)),
	}
	copy(cp.InvocationScript, w.InvocationScript)
	copy(cp.VerificationScript, w.VerificationScript)
	return cp
}

// MarshalJSON renders both scripts base64-encoded.
func (w Witness) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Invocation   string `json:"invocation"`
		Verification string `json:"verification"`
	}{
		base64.StdEncoding.EncodeToString(w.InvocationScript),
		base64.StdEncoding.EncodeToString(w.VerificationScript),
	})
}

// UnmarshalJSON parses both scripts from base64.
func (w *Witness) UnmarshalJSON(data []byte) error {
	var raw struct {
		Invocation   string `json:"invocation"`
		Verification string `json:"verification"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	inv, err := base64.StdEncoding.DecodeString(raw.Invocation)
	if err != nil {
		return err
	}
	ver, err := base64.StdEncoding.DecodeString(raw.Verification)
	if err != nil {
		return err
	}
	w.InvocationScript = inv
	w.VerificationScript = ver
	return nil
}
