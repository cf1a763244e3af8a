package actor

import (
	"errors"
	"time"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/block"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Errors Wait/WaitSuccess can return.
var (
	ErrTxNotAccepted = errors.New("actor: transaction not accepted before its ValidUntilBlock")
	ErrContextDone   = errors.New("actor: context canceled while waiting")
	ErrExecFailed    = errors.New("actor: execution did not HALT")
)

// Waiter blocks until a sent transaction is accepted on chain or its
// ValidUntilBlock passes.
type Waiter interface {
	Wait(h util.Uint256, vub uint32, sendErr error) (*state.AppExecResult, error)
}

// awaitableClient is implemented by a push-capable client
// (wsclient.WSClient); Actor uses it to build an EventWaiter instead
// of polling.
type awaitableClient interface {
	ReceiveBlocks(filter *neorpc.BlockFilter, ch chan *block.Block) (string, error)
	ReceiveExecutions(filter *neorpc.ExecutionFilter, ch chan *state.AppExecResult) (string, error)
	Unsubscribe(id string) error
}

// newWaiter picks the cheapest Waiter implementation the given client
// supports: NullWaiter if client is nil, EventWaiter if it exposes
// push-subscription methods (a wsclient.WSClient), PollingWaiter
// otherwise.
func newWaiter(client RPCActor, ver *result.Version) Waiter {
	if client == nil {
		return NullWaiter{}
	}
	if sub, ok := client.(awaitableClient); ok {
		return &EventWaiter{client: sub, base: client}
	}
	return &PollingWaiter{client: client, blockTime: blockTimeOf(ver)}
}

func blockTimeOf(ver *result.Version) time.Duration {
	if ver == nil || ver.Protocol.MillisecondsPerBlock == 0 {
		return time.Second
	}
	return time.Duration(ver.Protocol.MillisecondsPerBlock) * time.Millisecond
}

// NullWaiter never waits; Wait returns sendErr unchanged (or a nil AER
// with no error if sendErr was nil), used when no client was supplied
// at all.
type NullWaiter struct{}

func (NullWaiter) Wait(_ util.Uint256, _ uint32, sendErr error) (*state.AppExecResult, error) {
	return nil, sendErr
}

// PollingWaiter polls getapplicationlog/getblockcount at roughly one
// block interval, the fallback used against a plain polling Client.
type PollingWaiter struct {
	client    RPCActor
	blockTime time.Duration
}

func (w *PollingWaiter) Wait(h util.Uint256, vub uint32, sendErr error) (*state.AppExecResult, error) {
	if sendErr != nil {
		return nil, sendErr
	}
	interval := w.blockTime
	if interval <= 0 {
		interval = time.Second
	}
	for {
		log, err := w.client.GetApplicationLog(h, nil)
		if err == nil {
			return log.ToAppExecResult(), nil
		}
		bc, bcErr := w.client.GetBlockCount()
		if bcErr == nil && bc > vub {
			return nil, ErrTxNotAccepted
		}
		select {
		case <-w.client.Context().Done():
			return nil, ErrContextDone
		case <-time.After(interval):
		}
	}
}

// EventWaiter subscribes for the transaction's execution and new
// blocks, returning as soon as either fires.
type EventWaiter struct {
	client awaitableClient
	base   RPCActor
}

func (w *EventWaiter) Wait(h util.Uint256, vub uint32, sendErr error) (*state.AppExecResult, error) {
	if sendErr != nil {
		return nil, sendErr
	}
	blockCh := make(chan *block.Block, 2)
	blockSub, err := w.client.ReceiveBlocks(nil, blockCh)
	if err != nil {
		return nil, err
	}
	defer w.client.Unsubscribe(blockSub)
	execCh := make(chan *state.AppExecResult, 2)
	txSub, err := w.client.ReceiveExecutions(&neorpc.ExecutionFilter{Container: &h}, execCh)
	if err != nil {
		return nil, err
	}
	defer w.client.Unsubscribe(txSub)

	if log, err := w.base.GetApplicationLog(h, nil); err == nil {
		return log.ToAppExecResult(), nil
	}

	for {
		select {
		case <-w.base.Context().Done():
			return nil, ErrContextDone
		case aer, ok := <-execCh:
			if ok && aer.Container == h {
				return aer, nil
			}
		case _, ok := <-blockCh:
			if !ok {
				continue
			}
			bc, err := w.base.GetBlockCount()
			if err == nil && bc > vub {
				return nil, ErrTxNotAccepted
			}
		}
	}
}
