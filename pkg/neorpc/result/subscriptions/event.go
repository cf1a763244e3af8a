// Package subscriptions wraps the chain-event payload shapes a
// WSClient subscription delivers, tagging each with the container hash
// its handler needs to correlate the push against.
package subscriptions

import (
	"encoding/json"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// NotificationEvent is a notification_from_execution push payload.
type NotificationEvent struct {
	Container util.Uint256
	state.NotificationEvent
}

type notificationEventJSON struct {
	Container util.Uint256 `json:"container"`
}

// MarshalJSON renders Container alongside the embedded event's own
// fields, merging the two flat JSON objects.
func (n NotificationEvent) MarshalJSON() ([]byte, error) {
	evData, err := n.NotificationEvent.MarshalJSON()
	if err != nil {
		return nil, err
	}
	contData, err := json.Marshal(notificationEventJSON{n.Container})
	if err != nil {
		return nil, err
	}
	var evMap, contMap map[string]json.RawMessage
	if err := json.Unmarshal(evData, &evMap); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(contData, &contMap); err != nil {
		return nil, err
	}
	for k, v := range contMap {
		evMap[k] = v
	}
	return json.Marshal(evMap)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *NotificationEvent) UnmarshalJSON(data []byte) error {
	var raw notificationEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := n.NotificationEvent.UnmarshalJSON(data); err != nil {
		return err
	}
	n.Container = raw.Container
	return nil
}

// BlockEvent is a block_added push payload: a raw wire-encoded block
// header is not modeled (the SDK has no block type), so only the hash
// and index needed for event-monitor bookkeeping are kept.
type BlockEvent struct {
	Hash  util.Uint256 `json:"hash"`
	Index uint32       `json:"index"`
}

// TransactionEvent is a transaction_added push payload.
type TransactionEvent struct {
	*transaction.Transaction
}

// ExecutionEvent is a transaction_executed push payload.
type ExecutionEvent struct {
	state.AppExecResult
}

type executionEventJSON struct {
	TxHash *util.Uint256 `json:"txid,omitempty"`
	Trigger string `json:"trigger"`
	VMState string `json:"vmstate"`
	GasConsumed string `json:"gasconsumed"`
	Stack json.RawMessage `json:"stack,omitempty"`
	Notifications []state.NotificationEvent `json:"notifications"`
	FaultException *string `json:"exception"`
}

// NotaryRequestEvent is a notary_request_event push payload; the SDK
// does not implement the Notary protocol's fallback-transaction
// scheduling, so only the raw main transaction is exposed.
type NotaryRequestEvent struct {
	Type           string                   `json:"type"`
	MainTransaction *transaction.Transaction `json:"mainTransaction,omitempty"`
}

// MissedEvent notifies a WSClient that the node's notification buffer
// overflowed and some events were dropped before delivery.
type MissedEvent struct{}
