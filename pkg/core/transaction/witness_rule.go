package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
)

// WitnessRuleAction determines whether a matching WitnessCondition
// allows or denies the witness for the scope it is attached to.
type WitnessRuleAction byte

// The two defined actions.
const (
	WitnessDeny  WitnessRuleAction = 0
	WitnessAllow WitnessRuleAction = 1
)

// ErrInvalidRuleAction signals a byte that isn't WitnessDeny/WitnessAllow.
var ErrInvalidRuleAction = errors.New("transaction: invalid witness rule action")

func (a WitnessRuleAction) String() string {
	if a == WitnessAllow {
		return "Allow"
	}
	return "Deny"
}

// MarshalJSON renders a as its String() form.
func (a WitnessRuleAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON parses a from its String() form.
func (a *WitnessRuleAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Allow":
		*a = WitnessAllow
	case "Deny":
		*a = WitnessDeny
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRuleAction, s)
	}
	return nil
}

// WitnessRule pairs a WitnessCondition with the action to take when it
// matches, the building block of WitnessScope.Rules (spec.md §4.5).
type WitnessRule struct {
	Action    WitnessRuleAction
	Condition WitnessCondition
}

// EncodeBinary writes the action byte followed by the condition tree.
func (r WitnessRule) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(r.Action))
	r.Condition.EncodeBinary(w)
}

// DecodeBinary reads the action byte and a condition tree capped at
// MaxConditionNestingDepth.
func (r *WitnessRule) DecodeBinary(br *io.BinReader) {
	action := br.ReadB()
	if br.Err != nil {
		return
	}
	if action != byte(WitnessDeny) && action != byte(WitnessAllow) {
		br.Err = fmt.Errorf("%w: 0x%02x", ErrInvalidRuleAction, action)
		return
	}
	r.Action = WitnessRuleAction(action)
	cond, err := decodeCondition(br, 0)
	if err != nil {
		br.Err = err
		return
	}
	r.Condition = cond
}

// MarshalJSON renders {"action":..., "condition":...}.
func (r WitnessRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Action    WitnessRuleAction `json:"action"`
		Condition WitnessCondition  `json:"condition"`
	}{r.Action, r.Condition})
}

// UnmarshalJSON parses a rule and dispatches its nested condition to
// UnmarshalWitnessCondition.
func (r *WitnessRule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Action    WitnessRuleAction `json:"action"`
		Condition json.RawMessage   `json:"condition"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cond, err := UnmarshalWitnessCondition(raw.Condition)
	if err != nil {
		return err
	}
	r.Action = raw.Action
	r.Condition = cond
	return nil
}
