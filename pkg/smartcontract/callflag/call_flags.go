// Package callflag defines the bitmask contracts use to declare what a
// called method is permitted to do (read/write state, call other
// contracts, emit notifications), carried on Signer scopes and nef
// method tokens alike.
package callflag

import (
	"encoding/json"
	"errors"
	"strings"
)

// CallFlag is a bitmask of permitted contract-call capabilities.
type CallFlag byte

// The individual capability bits and their standard combinations, in
// the same bit layout the protocol defines.
const (
	NoneFlag    CallFlag = 0
	ReadStates  CallFlag = 1 << 0
	WriteStates CallFlag = 1 << 1
	AllowCall   CallFlag = 1 << 2
	AllowNotify CallFlag = 1 << 3

	States   = ReadStates | WriteStates
	ReadOnly = ReadStates | AllowCall
	All      = States | AllowCall | AllowNotify
)

var names = []struct {
	flag CallFlag
	name string
}{
	{ReadStates, "ReadStates"},
	{WriteStates, "WriteStates"},
	{AllowCall, "AllowCall"},
	{AllowNotify, "AllowNotify"},
}

// Has reports whether f carries every bit set in sub.
func (f CallFlag) Has(sub CallFlag) bool {
	return f&sub == sub
}

// String renders known combinations (None, All, ReadStates, States,
// ReadOnly) by name and anything else as a comma-separated bit list.
func (f CallFlag) String() string {
	switch f {
	case NoneFlag:
		return "None"
	case All:
		return "All"
	case ReadStates:
		return "ReadStates"
	case States:
		return "States"
	case ReadOnly:
		return "ReadOnly"
	}
	var parts []string
	for _, n := range names {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, ", ")
}

// ErrInvalidString is returned by FromString for unrecognized flag names.
var ErrInvalidString = errors.New("callflag: invalid flag string")

// FromString parses a comma-separated flag name list back into a
// CallFlag, the inverse of String for the bit-list form.
func FromString(s string) (CallFlag, error) {
	switch s {
	case "None":
		return NoneFlag, nil
	case "All":
		return All, nil
	case "ReadStates":
		return ReadStates, nil
	case "States":
		return States, nil
	case "ReadOnly":
		return ReadOnly, nil
	}
	parts := strings.Split(s, ",")
	var f CallFlag
	for _, p := range parts {
		if strings.HasPrefix(p, " ") {
			p = p[1:]
		}
		if p != strings.TrimSpace(p) || p == "" {
			return NoneFlag, ErrInvalidString
		}
		var found bool
		for _, n := range names {
			if n.name == p {
				f |= n.flag
				found = true
				break
			}
		}
		if !found {
			return NoneFlag, ErrInvalidString
		}
	}
	return f, nil
}

// MarshalJSON renders f as its String() form.
func (f CallFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON parses f from its String() form.
func (f *CallFlag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := FromString(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalYAML renders f as its String() form.
func (f CallFlag) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// UnmarshalYAML parses f from its String() form.
func (f *CallFlag) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := FromString(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
