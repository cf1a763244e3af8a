// Package trigger defines the contexts a contract's entry points can be
// invoked under, as reported in application-execution results.
package trigger

import "fmt"

// Type is an execution trigger.
type Type byte

// The triggers the Neo VM defines.
const (
	OnPersist    Type = 0x01
	PostPersist  Type = 0x02
	Verification Type = 0x20
	Application  Type = 0x40
)

// String renders the trigger's name.
func (t Type) String() string {
	switch t {
	case OnPersist:
		return "OnPersist"
	case PostPersist:
		return "PostPersist"
	case Verification:
		return "Verification"
	case Application:
		return "Application"
	default:
		return fmt.Sprintf("Unknown(%x)", byte(t))
	}
}

// MarshalJSON renders the trigger as its name string.
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// FromString parses a trigger's name.
func FromString(s string) (Type, error) {
	switch s {
	case "OnPersist":
		return OnPersist, nil
	case "PostPersist":
		return PostPersist, nil
	case "Verification":
		return Verification, nil
	case "Application":
		return Application, nil
	default:
		return 0, fmt.Errorf("trigger: unknown type %q", s)
	}
}

// UnmarshalJSON parses the trigger from its name string.
func (t *Type) UnmarshalJSON(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("trigger: invalid JSON %q", data)
	}
	v, err := FromString(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
