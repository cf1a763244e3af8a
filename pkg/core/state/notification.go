// Package state holds the small set of chain-execution result shapes
// the RPC client needs to decode invocation and application-log
// responses; it is not a ledger/state implementation.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/vmstate"
)

// NotificationEvent is one `Runtime.Notify` call recorded during a
// contract execution.
type NotificationEvent struct {
	ScriptHash util.Uint160
	Name       string
	Item       stackitem.Item
}

type notificationEventJSON struct {
	Contract  util.Uint160    `json:"contract"`
	EventName string          `json:"eventname"`
	State     json.RawMessage `json:"state"`
}

// MarshalJSON renders the notification in its RPC wire shape.
func (n NotificationEvent) MarshalJSON() ([]byte, error) {
	item := n.Item
	if item == nil {
		item = stackitem.NewArray(nil)
	}
	raw, err := stackitem.MarshalJSON(item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(notificationEventJSON{n.ScriptHash, n.Name, raw})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *NotificationEvent) UnmarshalJSON(data []byte) error {
	var raw notificationEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	item, err := stackitem.UnmarshalJSON(raw.State)
	if err != nil {
		return err
	}
	n.ScriptHash = raw.Contract
	n.Name = raw.EventName
	n.Item = item
	return nil
}

// ContainedNotificationEvent is a NotificationEvent plus the hash of
// the container (transaction or block) whose execution raised it, the
// shape delivered by a notification_from_execution subscription.
type ContainedNotificationEvent struct {
	Container util.Uint256
	NotificationEvent
}

// MarshalJSON renders the event in its RPC wire shape: the container
// field alongside the embedded NotificationEvent's own fields.
func (n ContainedNotificationEvent) MarshalJSON() ([]byte, error) {
	inner, err := n.NotificationEvent.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(inner, &m); err != nil {
		return nil, err
	}
	containerJSON, err := json.Marshal(n.Container)
	if err != nil {
		return nil, err
	}
	m["container"] = containerJSON
	return json.Marshal(m)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *ContainedNotificationEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Container util.Uint256 `json:"container"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := n.NotificationEvent.UnmarshalJSON(data); err != nil {
		return err
	}
	n.Container = raw.Container
	return nil
}

// Execution is one trigger's outcome within an application log.
type Execution struct {
	Trigger        trigger.Type
	VMState        vmstate.State
	GasConsumed    int64
	Stack          []stackitem.Item
	Events         []NotificationEvent
	FaultException string
}

type executionJSON struct {
	Trigger        trigger.Type      `json:"trigger"`
	VMState        vmstate.State     `json:"vmstate"`
	GasConsumed    string            `json:"gasconsumed"`
	Stack          []json.RawMessage `json:"stack"`
	Events         []NotificationEvent `json:"notifications"`
	FaultException string            `json:"exception,omitempty"`
}

// MarshalJSON renders the execution in its RPC wire shape: a quoted
// decimal GasConsumed and "notifications" for Events.
func (e Execution) MarshalJSON() ([]byte, error) {
	stack := make([]json.RawMessage, len(e.Stack))
	for i, it := range e.Stack {
		raw, err := stackitem.MarshalJSON(it)
		if err != nil {
			return nil, err
		}
		stack[i] = raw
	}
	events := e.Events
	if events == nil {
		events = []NotificationEvent{}
	}
	return json.Marshal(executionJSON{
		Trigger:        e.Trigger,
		VMState:        e.VMState,
		GasConsumed:    fmt.Sprintf("%d", e.GasConsumed),
		Stack:          stack,
		Events:         events,
		FaultException: e.FaultException,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (e *Execution) UnmarshalJSON(data []byte) error {
	var raw executionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var gas int64
	if len(raw.GasConsumed) != 0 {
		if _, err := fmt.Sscanf(raw.GasConsumed, "%d", &gas); err != nil {
			return fmt.Errorf("state: invalid gasconsumed %q: %w", raw.GasConsumed, err)
		}
	}
	stack := make([]stackitem.Item, len(raw.Stack))
	for i, s := range raw.Stack {
		it, err := stackitem.UnmarshalJSON(s)
		if err != nil {
			return err
		}
		stack[i] = it
	}
	e.Trigger = raw.Trigger
	e.VMState = raw.VMState
	e.GasConsumed = gas
	e.Stack = stack
	e.Events = raw.Events
	e.FaultException = raw.FaultException
	return nil
}

// AppExecResult ties an Execution to the container (transaction or
// block) that produced it. Execution is embedded so callers read
// aer.VMState/aer.GasConsumed directly.
type AppExecResult struct {
	Container util.Uint256
	Execution
}

// MarshalJSON stitches the embedded Execution's own fields together
// with "container", matching the RPC wire shape (a flat object).
func (a AppExecResult) MarshalJSON() ([]byte, error) {
	execBytes, err := json.Marshal(a.Execution)
	if err != nil {
		return nil, err
	}
	containerBytes, err := json.Marshal(struct {
		Container util.Uint256 `json:"container"`
	}{a.Container})
	if err != nil {
		return nil, err
	}
	if execBytes[len(execBytes)-1] != '}' || containerBytes[0] != '{' {
		return nil, fmt.Errorf("state: can't merge internal JSON objects")
	}
	containerBytes[0] = ','
	return append(execBytes[:len(execBytes)-1], containerBytes...), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (a *AppExecResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Container util.Uint256 `json:"container"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := a.Execution.UnmarshalJSON(data); err != nil {
		return err
	}
	a.Container = raw.Container
	return nil
}
