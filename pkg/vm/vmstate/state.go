// Package vmstate defines the terminal states a Neo VM execution can
// finish in, as reported by invoke* RPC results and application logs.
package vmstate

import "fmt"

// State is a VM execution's terminal status.
type State byte

// The four terminal VM states.
const (
	NoneState State = iota
	Halt
	Fault
	Break
)

// String renders the state in its RPC wire form.
func (s State) String() string {
	switch s {
	case Halt:
		return "HALT"
	case Fault:
		return "FAULT"
	case Break:
		return "BREAK"
	default:
		return "NONE"
	}
}

// FromString parses a state's RPC wire form.
func FromString(s string) (State, error) {
	switch s {
	case "HALT":
		return Halt, nil
	case "FAULT":
		return Fault, nil
	case "BREAK":
		return Break, nil
	case "NONE":
		return NoneState, nil
	default:
		return 0, fmt.Errorf("vmstate: unknown state %q", s)
	}
}

// MarshalJSON renders the state as its wire string.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the state from its wire string.
func (s *State) UnmarshalJSON(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("vmstate: invalid JSON %q", data)
	}
	v, err := FromString(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
