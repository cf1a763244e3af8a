package neorpc

import (
	"errors"

	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// ErrInvalidSubscriptionFilter is returned when a filter carries a
// value the node would reject outright (an unknown VM state name, a
// notification name longer than the protocol allows), so a WSClient
// can catch the mistake before a round trip rather than after.
var ErrInvalidSubscriptionFilter = errors.New("neorpc: invalid subscription filter")

// MaxNotificationNameLength is the longest name a contract event may
// carry; NotificationFilter.Name beyond this is always invalid.
const MaxNotificationNameLength = 32

// MempoolEventType narrows a notary-request subscription to additions
// or removals.
type MempoolEventType string

// The two notary-request mempool event kinds.
const (
	MempoolEventAdded   MempoolEventType = "added"
	MempoolEventRemoved MempoolEventType = "removed"
)

// BlockFilter narrows a block_added subscription.
type BlockFilter struct {
	Primary *byte   `json:"primary,omitempty"`
	Since   *uint32 `json:"since,omitempty"`
	Till    *uint32 `json:"till,omitempty"`
}

// Copy returns a deep copy of f, or nil if f is nil.
func (f *BlockFilter) Copy() *BlockFilter {
	if f == nil {
		return nil
	}
	cp := &BlockFilter{}
	if f.Primary != nil {
		v := *f.Primary
		cp.Primary = &v
	}
	if f.Since != nil {
		v := *f.Since
		cp.Since = &v
	}
	if f.Till != nil {
		v := *f.Till
		cp.Till = &v
	}
	return cp
}

// TxFilter narrows a transaction_added subscription.
type TxFilter struct {
	Sender *util.Uint160 `json:"sender,omitempty"`
	Signer *util.Uint160 `json:"signer,omitempty"`
}

// Copy returns a deep copy of f, or nil if f is nil.
func (f *TxFilter) Copy() *TxFilter {
	if f == nil {
		return nil
	}
	cp := &TxFilter{}
	if f.Sender != nil {
		v := *f.Sender
		cp.Sender = &v
	}
	if f.Signer != nil {
		v := *f.Signer
		cp.Signer = &v
	}
	return cp
}

// NotificationFilter narrows a notification_from_execution subscription.
type NotificationFilter struct {
	Contract *util.Uint160 `json:"contract,omitempty"`
	Name     *string       `json:"name,omitempty"`
}

// Copy returns a deep copy of f, or nil if f is nil.
func (f *NotificationFilter) Copy() *NotificationFilter {
	if f == nil {
		return nil
	}
	cp := &NotificationFilter{}
	if f.Contract != nil {
		v := *f.Contract
		cp.Contract = &v
	}
	if f.Name != nil {
		v := *f.Name
		cp.Name = &v
	}
	return cp
}

// ExecutionFilter narrows a transaction_executed subscription.
type ExecutionFilter struct {
	State     *string       `json:"state,omitempty"`
	Container *util.Uint256 `json:"container,omitempty"`
}

// Copy returns a deep copy of f, or nil if f is nil.
func (f *ExecutionFilter) Copy() *ExecutionFilter {
	if f == nil {
		return nil
	}
	cp := &ExecutionFilter{}
	if f.State != nil {
		v := *f.State
		cp.State = &v
	}
	if f.Container != nil {
		v := *f.Container
		cp.Container = &v
	}
	return cp
}

// NotaryRequestFilter narrows a notary_request_event subscription.
type NotaryRequestFilter struct {
	Sender *util.Uint160     `json:"sender,omitempty"`
	Signer *util.Uint160     `json:"signer,omitempty"`
	Type   *MempoolEventType `json:"type,omitempty"`
}

// Copy returns a deep copy of f, or nil if f is nil.
func (f *NotaryRequestFilter) Copy() *NotaryRequestFilter {
	if f == nil {
		return nil
	}
	cp := &NotaryRequestFilter{}
	if f.Sender != nil {
		v := *f.Sender
		cp.Sender = &v
	}
	if f.Signer != nil {
		v := *f.Signer
		cp.Signer = &v
	}
	if f.Type != nil {
		v := *f.Type
		cp.Type = &v
	}
	return cp
}
