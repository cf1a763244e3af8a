package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/internal/testserdes"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

func TestWitnessConditionEncodeDecodeBinary(t *testing.T) {
	cases := []struct {
		name string
		cond WitnessCondition
	}{
		{"CalledByEntry", &ConditionCalledByEntry{}},
		{"ScriptHash", &ConditionScriptHash{Hash: util.Uint160{1, 2, 3}}},
		{"CalledByContract", &ConditionCalledByContract{Hash: util.Uint160{4, 5, 6}}},
		{"Boolean true", &ConditionBoolean{Value: true}},
		{"Boolean false", &ConditionBoolean{Value: false}},
		{"Not", &ConditionNot{Condition: &ConditionCalledByEntry{}}},
		{"And", &ConditionAnd{Conditions: []WitnessCondition{
			&ConditionCalledByEntry{}, &ConditionBoolean{Value: true},
		}}},
		{"Or", &ConditionOr{Conditions: []WitnessCondition{
			&ConditionBoolean{Value: false}, &ConditionCalledByEntry{},
		}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rule := &WitnessRule{Action: WitnessAllow, Condition: c.cond}
			actual := &WitnessRule{}
			testserdes.EncodeDecodeBinary(t, rule, actual)
		})
	}
}

func TestWitnessConditionNestingDepth(t *testing.T) {
	// Two levels of And/Or nesting is the maximum allowed.
	inner := &ConditionAnd{Conditions: []WitnessCondition{&ConditionCalledByEntry{}}}
	outer := &ConditionOr{Conditions: []WitnessCondition{inner}}
	rule := &WitnessRule{Action: WitnessAllow, Condition: outer}
	actual := &WitnessRule{}
	testserdes.EncodeDecodeBinary(t, rule, actual)
}

func TestWitnessConditionTooDeep(t *testing.T) {
	// Three levels of nesting must be rejected on decode.
	innermost := &ConditionAnd{Conditions: []WitnessCondition{&ConditionCalledByEntry{}}}
	middle := &ConditionOr{Conditions: []WitnessCondition{innermost}}
	outer := &ConditionAnd{Conditions: []WitnessCondition{middle}}
	rule := &WitnessRule{Action: WitnessAllow, Condition: outer}

	data, err := testserdes.EncodeBinary(rule)
	require.NoError(t, err)

	decoded := &WitnessRule{}
	err = testserdes.DecodeBinary(data, decoded)
	require.ErrorIs(t, err, ErrConditionTooDeep)
}

func TestWitnessConditionTooManySubItems(t *testing.T) {
	conds := make([]WitnessCondition, MaxSubItems+1)
	for i := range conds {
		conds[i] = &ConditionCalledByEntry{}
	}
	rule := &WitnessRule{Action: WitnessAllow, Condition: &ConditionAnd{Conditions: conds}}

	data, err := testserdes.EncodeBinary(rule)
	require.NoError(t, err)

	decoded := &WitnessRule{}
	err = testserdes.DecodeBinary(data, decoded)
	require.ErrorIs(t, err, ErrConditionTooDeep)
}

func TestWitnessConditionMarshalJSON(t *testing.T) {
	cond := &ConditionCalledByEntry{}
	b, err := cond.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"CalledByEntry"}`, string(b))

	parsed, err := UnmarshalWitnessCondition(b)
	require.NoError(t, err)
	require.Equal(t, cond, parsed)
}

func TestWitnessConditionUnknownType(t *testing.T) {
	_, err := UnmarshalWitnessCondition([]byte(`{"type":"NotARealCondition"}`))
	require.ErrorIs(t, err, ErrUnknownConditionType)
}

func TestWitnessConditionAndOrJSONRoundTrip(t *testing.T) {
	cond := &ConditionAnd{Conditions: []WitnessCondition{
		&ConditionBoolean{Value: true},
		&ConditionCalledByEntry{},
	}}
	b, err := cond.MarshalJSON()
	require.NoError(t, err)

	parsed, err := UnmarshalWitnessCondition(b)
	require.NoError(t, err)
	require.Equal(t, cond, parsed)
}
