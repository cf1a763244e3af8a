package eventmonitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/block"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

type testChain struct {
	height uint32
	blocks map[uint32]*result.Block
	logs   map[util.Uint256]*result.ApplicationLog
	err    error
}

func (c *testChain) GetBlockCount() (uint32, error) {
	return c.height, c.err
}

func (c *testChain) GetBlockByIndex(index uint32) (*result.Block, error) {
	if c.err != nil {
		return nil, c.err
	}
	b, ok := c.blocks[index]
	if !ok {
		return nil, errors.New("no such block")
	}
	return b, nil
}

func (c *testChain) GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error) {
	if c.err != nil {
		return nil, c.err
	}
	l, ok := c.logs[hash]
	if !ok {
		return nil, errors.New("no such log")
	}
	return l, nil
}

func blockWithTx(index uint32, txs ...*transaction.Transaction) *result.Block {
	return &result.Block{Block: block.Block{
		Header:       block.Header{Index: index},
		Transactions: txs,
	}}
}

func txWithNonce(nonce uint32) *transaction.Transaction {
	return &transaction.Transaction{Nonce: nonce}
}

func logWithNotification(txHash util.Uint256, contract util.Uint160, name string) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:     txHash,
		IsTransaction: true,
		Executions: []state.Execution{{
			Trigger: trigger.Application,
			Events: []state.NotificationEvent{{
				ScriptHash: contract,
				Name:       name,
				Item:       stackitem.Make([]stackitem.Item{stackitem.Make("ok")}),
			}},
		}},
	}
}

func TestMonitorPollEmitsMatchedEvents(t *testing.T) {
	contract := util.Uint160{1, 2, 3}
	tx := txWithNonce(1)
	txHash := tx.Hash()

	chain := &testChain{
		height: 2,
		blocks: map[uint32]*result.Block{
			1: blockWithTx(1, tx),
		},
		logs: map[util.Uint256]*result.ApplicationLog{
			txHash: logWithNotification(txHash, contract, "Transfer"),
		},
	}

	m, err := New(chain, Config{ChannelBufferSize: 4}, Options{})
	require.NoError(t, err)
	m.AddFilter(contract, "Transfer")

	require.NoError(t, m.poll(context.Background()))

	select {
	case ev := <-m.Events():
		require.Equal(t, contract, ev.Contract)
		require.Equal(t, "Transfer", ev.EventName)
		require.Equal(t, uint32(1), ev.BlockIndex)
		require.Equal(t, txHash, ev.TxHash)
	default:
		t.Fatal("expected an emitted event")
	}

	stats := m.Stats()
	require.EqualValues(t, 1, stats.BlocksProcessed)
	require.EqualValues(t, 1, stats.TransactionsProcessed)
	require.EqualValues(t, 1, stats.EventsEmitted)
	require.EqualValues(t, 1, stats.LastProcessedBlock)
}

func TestMonitorPollSkipsUnmatchedEvents(t *testing.T) {
	contract := util.Uint160{1, 2, 3}
	other := util.Uint160{9, 9, 9}
	tx := txWithNonce(2)
	txHash := tx.Hash()

	chain := &testChain{
		height: 2,
		blocks: map[uint32]*result.Block{
			1: blockWithTx(1, tx),
		},
		logs: map[util.Uint256]*result.ApplicationLog{
			txHash: logWithNotification(txHash, other, "Transfer"),
		},
	}

	m, err := New(chain, Config{ChannelBufferSize: 4}, Options{})
	require.NoError(t, err)
	m.AddFilter(contract, "Transfer")

	require.NoError(t, m.poll(context.Background()))

	select {
	case ev := <-m.Events():
		t.Fatalf("expected no event, got %+v", ev)
	default:
	}
}

func TestMonitorPollDoesNotReprocessSeenTransactions(t *testing.T) {
	contract := util.Uint160{1, 2, 3}
	tx := txWithNonce(3)
	txHash := tx.Hash()

	chain := &testChain{
		height: 2,
		blocks: map[uint32]*result.Block{
			1: blockWithTx(1, tx),
		},
		logs: map[util.Uint256]*result.ApplicationLog{
			txHash: logWithNotification(txHash, contract, "Transfer"),
		},
	}

	m, err := New(chain, Config{ChannelBufferSize: 4}, Options{})
	require.NoError(t, err)
	m.AddFilter(contract, "Transfer")

	require.NoError(t, m.poll(context.Background()))
	<-m.Events()

	chain.height = 3
	chain.blocks[2] = blockWithTx(2, tx)
	require.NoError(t, m.poll(context.Background()))

	select {
	case ev := <-m.Events():
		t.Fatalf("expected the already-seen transaction not to be reprocessed, got %+v", ev)
	default:
	}
}

func TestMonitorRunStopsOnClose(t *testing.T) {
	chain := &testChain{height: 0}
	m, err := New(chain, Config{PollInterval: time.Millisecond, ChannelBufferSize: 1}, Options{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- m.Run(context.Background())
	}()
	m.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}

	_, ok := <-m.Events()
	require.False(t, ok, "Events channel should be closed once Run returns")
}

func TestMonitorRunStopsOnContextCancel(t *testing.T) {
	chain := &testChain{height: 0}
	m, err := New(chain, Config{PollInterval: time.Millisecond, ChannelBufferSize: 1}, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestMonitorAddRemoveFilter(t *testing.T) {
	chain := &testChain{}
	m, err := New(chain, Config{}, Options{})
	require.NoError(t, err)

	id := m.AddFilter(util.Uint160{1}, "Transfer")
	_, matched := m.match(state.NotificationEvent{ScriptHash: util.Uint160{1}, Name: "Transfer"})
	require.True(t, matched)

	m.RemoveFilter(id)
	_, matched = m.match(state.NotificationEvent{ScriptHash: util.Uint160{1}, Name: "Transfer"})
	require.False(t, matched)
}

func TestMonitorNewRejectsBadCacheSize(t *testing.T) {
	_, err := New(&testChain{}, Config{ProcessedCacheSize: -1}, Options{})
	require.NoError(t, err, "negative size should fall back to the default rather than error")
}
