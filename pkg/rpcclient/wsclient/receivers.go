package wsclient

import (
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/block"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
)

// receiver is a live subscription's bookkeeping: which channel it
// feeds and how to recognize/close that channel generically, used by
// Unsubscribe/UnsubscribeAll/event_missed handling which don't care
// about the concrete payload type.
type receiver interface {
	chanIdentity() interface{}
	closeChan()
}

type blockReceiver struct {
	filter *neorpc.BlockFilter
	ch     chan *block.Block
}

func (r *blockReceiver) chanIdentity() interface{} { return r.ch }
func (r *blockReceiver) closeChan()                { close(r.ch) }

type headerReceiver struct {
	filter *neorpc.BlockFilter
	ch     chan *block.Header
}

func (r *headerReceiver) chanIdentity() interface{} { return r.ch }
func (r *headerReceiver) closeChan()                { close(r.ch) }

type txReceiver struct {
	filter *neorpc.TxFilter
	ch     chan *transaction.Transaction
}

func (r *txReceiver) chanIdentity() interface{} { return r.ch }
func (r *txReceiver) closeChan()                { close(r.ch) }

type executionReceiver struct {
	filter *neorpc.ExecutionFilter
	ch     chan *state.AppExecResult
}

func (r *executionReceiver) chanIdentity() interface{} { return r.ch }
func (r *executionReceiver) closeChan()                { close(r.ch) }

type executionNotificationReceiver struct {
	filter *neorpc.NotificationFilter
	ch     chan *state.ContainedNotificationEvent
}

func (r *executionNotificationReceiver) chanIdentity() interface{} { return r.ch }
func (r *executionNotificationReceiver) closeChan()                { close(r.ch) }

type notaryRequestReceiver struct {
	filter *neorpc.NotaryRequestFilter
	ch     chan *result.NotaryRequestEvent
}

func (r *notaryRequestReceiver) chanIdentity() interface{} { return r.ch }
func (r *notaryRequestReceiver) closeChan()                { close(r.ch) }

func blockFilterMatches(f *neorpc.BlockFilter, h *block.Header) bool {
	if f == nil {
		return true
	}
	if f.Primary != nil && *f.Primary != h.PrimaryIndex {
		return false
	}
	if f.Since != nil && h.Index < *f.Since {
		return false
	}
	if f.Till != nil && h.Index > *f.Till {
		return false
	}
	return true
}

func txFilterMatches(f *neorpc.TxFilter, tx *transaction.Transaction) bool {
	if f == nil {
		return true
	}
	if f.Sender != nil && *f.Sender != tx.Sender() {
		return false
	}
	if f.Signer != nil {
		found := false
		for _, s := range tx.Signers {
			if s.Account == *f.Signer {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func notificationFilterMatches(f *neorpc.NotificationFilter, n *state.ContainedNotificationEvent) bool {
	if f == nil {
		return true
	}
	if f.Contract != nil && *f.Contract != n.ScriptHash {
		return false
	}
	if f.Name != nil && *f.Name != n.Name {
		return false
	}
	return true
}

func executionFilterMatches(f *neorpc.ExecutionFilter, aer *state.AppExecResult) bool {
	if f == nil {
		return true
	}
	if f.State != nil && *f.State != aer.VMState.String() {
		return false
	}
	if f.Container != nil && *f.Container != aer.Container {
		return false
	}
	return true
}

func notaryRequestFilterMatches(f *neorpc.NotaryRequestFilter, ev *result.NotaryRequestEvent) bool {
	if f == nil {
		return true
	}
	if f.Type != nil && *f.Type != ev.Type {
		return false
	}
	if f.Sender == nil && f.Signer == nil {
		return true
	}
	if ev.NotaryRequest == nil || ev.NotaryRequest.MainTransaction == nil {
		return false
	}
	tx := ev.NotaryRequest.MainTransaction
	if f.Sender != nil && tx.Sender() != *f.Sender {
		return false
	}
	if f.Signer != nil {
		found := false
		for _, s := range tx.Signers {
			if s.Account == *f.Signer {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
