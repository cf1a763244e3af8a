// Package result defines the per-method response payload shapes for
// Neo N3's JSON-RPC API, decoded by rpcclient.Client and consumed by
// the invoker/actor/contract-binding layers above it.
package result

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

// Invoke is the result of invokefunction/invokescript/invokecontractverify.
type Invoke struct {
	State          string
	GasConsumed    int64
	Script         []byte
	Stack          []stackitem.Item
	FaultException string
	Notifications  []state.NotificationEvent
	Transaction    *transaction.Transaction
	Diagnostics    *Diagnostics
	Session        uuid.UUID
}

// Diagnostics carries optional per-invocation tracing data (only
// populated when the node was started with diagnostics enabled).
type Diagnostics struct {
	Invocations  []InvocationTree `json:"invokedcontracts"`
	StorageChanges []StorageChange `json:"storagechanges"`
}

// InvocationTree is one node of the nested contract-call tree a
// diagnostics-enabled invocation records.
type InvocationTree struct {
	Call  string           `json:"call"`
	Calls []InvocationTree `json:"invokedcontracts,omitempty"`
}

// StorageChange is one storage-key mutation an invocation performed.
type StorageChange struct {
	State string `json:"state"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

type invokeJSON struct {
	State          string                     `json:"state"`
	GasConsumed    string                      `json:"gasconsumed"`
	Script         string                      `json:"script"`
	Stack          stackitem.Items             `json:"stack"`
	FaultException *string                     `json:"exception"`
	Notifications  []state.NotificationEvent   `json:"notifications"`
	Transaction    string                      `json:"tx,omitempty"`
	Diagnostics    *Diagnostics                `json:"diagnostics,omitempty"`
	Session        string                      `json:"session,omitempty"`
}

// MarshalJSON renders the Invoke in its RPC wire shape.
func (r Invoke) MarshalJSON() ([]byte, error) {
	notifications := r.Notifications
	if notifications == nil {
		notifications = []state.NotificationEvent{}
	}
	raw := invokeJSON{
		State:         r.State,
		GasConsumed:   fmt.Sprintf("%d", r.GasConsumed),
		Script:        base64.StdEncoding.EncodeToString(r.Script),
		Stack:         r.Stack,
		Notifications: notifications,
		Diagnostics:   r.Diagnostics,
	}
	if r.FaultException != "" {
		raw.FaultException = &r.FaultException
	}
	if r.Transaction != nil {
		b, err := r.Transaction.Bytes()
		if err != nil {
			return nil, err
		}
		raw.Transaction = base64.StdEncoding.EncodeToString(b)
	}
	if r.Session != uuid.Nil {
		raw.Session = r.Session.String()
	}
	return json.Marshal(raw)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *Invoke) UnmarshalJSON(data []byte) error {
	var raw invokeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	gas, err := parseInt64(raw.GasConsumed)
	if err != nil {
		return fmt.Errorf("result: invalid gasconsumed: %w", err)
	}
	script, err := base64.StdEncoding.DecodeString(raw.Script)
	if err != nil {
		return err
	}
	r.State = raw.State
	r.GasConsumed = gas
	r.Script = script
	r.Stack = raw.Stack
	if raw.FaultException != nil {
		r.FaultException = *raw.FaultException
	}
	r.Notifications = raw.Notifications
	r.Diagnostics = raw.Diagnostics
	if raw.Transaction != "" {
		b, err := base64.StdEncoding.DecodeString(raw.Transaction)
		if err != nil {
			return err
		}
		tx, err := transaction.NewTransactionFromBytes(b)
		if err != nil {
			return err
		}
		r.Transaction = tx
	} else {
		r.Transaction = nil
	}
	if raw.Session != "" {
		id, err := uuid.Parse(raw.Session)
		if err != nil {
			return err
		}
		r.Session = id
	}
	return nil
}

func parseInt64(s string) (int64, error) {
	var v int64
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

// AppExecToInvocation converts a chain-produced AppExecResult into the
// Invoke shape an RPC client receives, used by server-side code; kept
// here because the SDK's own test fixtures exercise the same
// conversion against recorded application-log payloads.
func AppExecToInvocation(aer *state.AppExecResult, err error) (*Invoke, error) {
	if err != nil {
		return nil, err
	}
	if aer == nil {
		return nil, errors.New("result: nil AppExecResult")
	}
	return &Invoke{
		State:          aer.VMState.String(),
		GasConsumed:    aer.GasConsumed,
		Stack:          aer.Stack,
		FaultException: aer.FaultException,
		Notifications:  aer.Events,
	}, nil
}
