// Package wsclient implements a push-transport JSON-RPC 2.0 client
// against a Neo N3 node's /ws endpoint: the same request surface as
// rpcclient.Client, plus server-pushed event subscriptions delivered
// over a single persistent connection.
package wsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/block"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/vmstate"
)

// ErrWSConnLost is returned by any call made after the connection has
// been closed, locally or by the peer.
var ErrWSConnLost = errors.New("wsclient: connection closed")

// WSOptions configures a WSClient; Options is the same transport/cache
// knob set rpcclient.Client takes.
type WSOptions struct {
	rpcclient.Options

	// CloseNotificationChannelIfFull, when true, makes WSClient close
	// (rather than block on) a subscriber channel that can't keep up:
	// a full buffered channel with no reader is dropped instead of
	// stalling every other subscriber behind it.
	CloseNotificationChannelIfFull bool
}

type pendingCall struct {
	result json.RawMessage
	err    error
}

// WSClient is a Neo N3 RPC client multiplexed over one WebSocket
// connection; it embeds *rpcclient.Client so every read/write RPC
// method (GetBlockCount, SendRawTransaction, ...) is available
// unchanged, routed through this connection instead of one HTTP POST
// per call.
type WSClient struct {
	*rpcclient.Client

	conn   *websocket.Conn
	connWG sync.WaitGroup
	writeMu sync.Mutex

	getNextRequestID func() uint64
	nextID           uint64

	pendingMu sync.Mutex
	pending   map[uint64]chan pendingCall

	subscriptionsLock sync.RWMutex
	subscriptions     map[string]receiver
	receivers         map[interface{}][]string

	closeNotificationChannelIfFull bool

	done      chan struct{}
	closeOnce sync.Once
	errMu     sync.Mutex
	connErr   error

	log *zap.Logger
}

// NewWS dials endpoint (a ws:// or wss:// URL) and returns a ready
// WSClient; call Init afterwards to learn the node's network magic.
func NewWS(ctx context.Context, endpoint string, opts WSOptions) (*WSClient, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	if opts.DialTimeout > 0 {
		dialer.HandshakeTimeout = opts.DialTimeout
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("wsclient: dial: %w", err)
	}

	base, err := rpcclient.New(ctx, endpoint, opts.Options)
	if err != nil {
		conn.Close()
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &WSClient{
		Client:                         base,
		conn:                           conn,
		pending:                        make(map[uint64]chan pendingCall),
		subscriptions:                  make(map[string]receiver),
		receivers:                      make(map[interface{}][]string),
		closeNotificationChannelIfFull: opts.CloseNotificationChannelIfFull,
		done:                           make(chan struct{}),
		log:                            logger,
	}
	c.getNextRequestID = func() uint64 { return atomic.AddUint64(&c.nextID, 1) }
	c.Client.SetTransport(c.transport)

	c.connWG.Add(1)
	go c.readLoop()

	return c, nil
}

// GetError returns the error that ended the connection, if any.
func (c *WSClient) GetError() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.connErr
}

func (c *WSClient) setError(err error) {
	c.errMu.Lock()
	if c.connErr == nil {
		c.connErr = err
	}
	c.errMu.Unlock()
}

// Close shuts the connection down, failing any call in flight and
// closing every subscriber channel.
func (c *WSClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
	c.connWG.Wait()
}

func (c *WSClient) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// transport implements rpcclient.Client's pluggable round trip by
// writing a request frame and waiting for the correlated response
// frame, both multiplexed over the single connection readLoop reads.
func (c *WSClient) transport(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if c.isClosed() {
		return nil, ErrWSConnLost
	}
	id := c.getNextRequestID()
	req, err := neorpc.NewRequest(int64(id), method, params...)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	ch := make(chan pendingCall, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	werr := c.conn.WriteMessage(websocket.TextMessage, body)
	c.writeMu.Unlock()
	if werr != nil {
		c.setError(werr)
		return nil, fmt.Errorf("wsclient: %s: %w", method, werr)
	}

	select {
	case res := <-ch:
		return res.result, res.err
	case <-c.done:
		return nil, ErrWSConnLost
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// wireMessage is sniffed to tell a correlated response (carries "id")
// apart from a server-pushed event (carries "method").
type wireMessage struct {
	ID     *int64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *neorpc.Error   `json:"error"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func (c *WSClient) readLoop() {
	defer c.connWG.Done()
	defer c.shutdown()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.setError(fmt.Errorf("wsclient: failed to read JSON response (timeout/connection loss/malformed response): %w", err))
			return
		}
		var msg wireMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Error("wsclient: malformed frame", zap.Error(err))
			continue
		}
		if msg.ID != nil {
			c.pendingMu.Lock()
			ch, ok := c.pending[uint64(*msg.ID)]
			c.pendingMu.Unlock()
			if !ok {
				continue
			}
			if msg.Error != nil {
				ch <- pendingCall{err: msg.Error}
			} else {
				ch <- pendingCall{result: msg.Result}
			}
			continue
		}
		if msg.Method == "" {
			continue
		}
		c.dispatch(msg.Method, msg.Params)
	}
}

func (c *WSClient) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.conn.Close()

	c.pendingMu.Lock()
	for id, ch := range c.pending {
		ch <- pendingCall{err: ErrWSConnLost}
		delete(c.pending, id)
	}
	c.pendingMu.Unlock()

	c.closeAllSubscriptions()
}

func (c *WSClient) closeAllSubscriptions() {
	c.subscriptionsLock.Lock()
	closed := make(map[interface{}]bool)
	for _, r := range c.subscriptions {
		key := r.chanIdentity()
		if closed[key] {
			continue
		}
		closed[key] = true
		r.closeChan()
	}
	c.subscriptions = make(map[string]receiver)
	c.receivers = make(map[interface{}][]string)
	c.subscriptionsLock.Unlock()
}

func (c *WSClient) removeReceiverChan(key interface{}) {
	c.subscriptionsLock.Lock()
	delete(c.receivers, key)
	c.subscriptionsLock.Unlock()
}

// deliver sends v down ch, closing (and dropping) ch on overflow if
// CloseNotificationChannelIfFull is set, otherwise falling back to a
// blocking send so event ordering is preserved for a slow consumer.
func deliver[T any](c *WSClient, ch chan T, v T) {
	select {
	case ch <- v:
		return
	case <-c.done:
		return
	default:
	}
	if c.closeNotificationChannelIfFull {
		c.removeReceiverChan(interface{}(ch))
		close(ch)
		return
	}
	select {
	case ch <- v:
	case <-c.done:
	}
}

func (c *WSClient) dispatch(method string, rawParams json.RawMessage) {
	if method == neorpc.MissedEventID.String() {
		c.closeAllSubscriptions()
		return
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(rawParams, &arr); err != nil || len(arr) == 0 {
		c.log.Error("wsclient: malformed event params", zap.String("method", method))
		return
	}
	payload := arr[0]
	switch method {
	case neorpc.BlockEventID.String():
		c.dispatchBlock(payload)
	case neorpc.TransactionEventID.String():
		c.dispatchTransaction(payload)
	case neorpc.NotificationEventID.String():
		c.dispatchNotification(payload)
	case neorpc.ExecutionEventID.String():
		c.dispatchExecution(payload)
	case neorpc.NotaryRequestEventID.String():
		c.dispatchNotaryRequest(payload)
	}
}

func (c *WSClient) dispatchBlock(payload json.RawMessage) {
	blk := &block.Block{}
	if err := blk.UnmarshalJSON(payload); err != nil {
		c.log.Error("wsclient: decode block_added", zap.Error(err))
		return
	}
	c.subscriptionsLock.RLock()
	defer c.subscriptionsLock.RUnlock()
	delivered := make(map[interface{}]bool)
	for _, r := range c.subscriptions {
		switch rr := r.(type) {
		case *blockReceiver:
			if !blockFilterMatches(rr.filter, &blk.Header) {
				continue
			}
			key := interface{}(rr.ch)
			if delivered[key] {
				continue
			}
			delivered[key] = true
			go deliver(c, rr.ch, blk)
		case *headerReceiver:
			if !blockFilterMatches(rr.filter, &blk.Header) {
				continue
			}
			key := interface{}(rr.ch)
			if delivered[key] {
				continue
			}
			delivered[key] = true
			hdr := blk.Header
			go deliver(c, rr.ch, &hdr)
		}
	}
}

func (c *WSClient) dispatchTransaction(payload json.RawMessage) {
	tx := &transaction.Transaction{}
	if err := tx.UnmarshalJSON(payload); err != nil {
		c.log.Error("wsclient: decode transaction_added", zap.Error(err))
		return
	}
	c.subscriptionsLock.RLock()
	defer c.subscriptionsLock.RUnlock()
	delivered := make(map[interface{}]bool)
	for _, r := range c.subscriptions {
		rr, ok := r.(*txReceiver)
		if !ok || !txFilterMatches(rr.filter, tx) {
			continue
		}
		key := interface{}(rr.ch)
		if delivered[key] {
			continue
		}
		delivered[key] = true
		go deliver(c, rr.ch, tx)
	}
}

func (c *WSClient) dispatchNotification(payload json.RawMessage) {
	n := &state.ContainedNotificationEvent{}
	if err := n.UnmarshalJSON(payload); err != nil {
		c.log.Error("wsclient: decode notification_from_execution", zap.Error(err))
		return
	}
	c.subscriptionsLock.RLock()
	defer c.subscriptionsLock.RUnlock()
	delivered := make(map[interface{}]bool)
	for _, r := range c.subscriptions {
		rr, ok := r.(*executionNotificationReceiver)
		if !ok || !notificationFilterMatches(rr.filter, n) {
			continue
		}
		key := interface{}(rr.ch)
		if delivered[key] {
			continue
		}
		delivered[key] = true
		go deliver(c, rr.ch, n)
	}
}

func (c *WSClient) dispatchExecution(payload json.RawMessage) {
	aer := &state.AppExecResult{}
	if err := json.Unmarshal(payload, aer); err != nil {
		c.log.Error("wsclient: decode transaction_executed", zap.Error(err))
		return
	}
	c.subscriptionsLock.RLock()
	defer c.subscriptionsLock.RUnlock()
	delivered := make(map[interface{}]bool)
	for _, r := range c.subscriptions {
		rr, ok := r.(*executionReceiver)
		if !ok || !executionFilterMatches(rr.filter, aer) {
			continue
		}
		key := interface{}(rr.ch)
		if delivered[key] {
			continue
		}
		delivered[key] = true
		go deliver(c, rr.ch, aer)
	}
}

func (c *WSClient) dispatchNotaryRequest(payload json.RawMessage) {
	ev := &result.NotaryRequestEvent{}
	if err := json.Unmarshal(payload, ev); err != nil {
		c.log.Error("wsclient: decode notary_request_event", zap.Error(err))
		return
	}
	c.subscriptionsLock.RLock()
	defer c.subscriptionsLock.RUnlock()
	delivered := make(map[interface{}]bool)
	for _, r := range c.subscriptions {
		rr, ok := r.(*notaryRequestReceiver)
		if !ok || !notaryRequestFilterMatches(rr.filter, ev) {
			continue
		}
		key := interface{}(rr.ch)
		if delivered[key] {
			continue
		}
		delivered[key] = true
		go deliver(c, rr.ch, ev)
	}
}

// ReceiveBlocks subscribes for new blocks matching filter, delivering
// each to ch until Unsubscribe(id) or Close.
func (c *WSClient) ReceiveBlocks(filter *neorpc.BlockFilter, ch chan *block.Block) (string, error) {
	return c.subscribe(neorpc.BlockEventID, filter, &blockReceiver{filter: filter, ch: ch}, ch)
}

// ReceiveHeadersOfAddedBlocks is ReceiveBlocks without the
// transaction list, cheaper when only the header is needed.
func (c *WSClient) ReceiveHeadersOfAddedBlocks(filter *neorpc.BlockFilter, ch chan *block.Header) (string, error) {
	return c.subscribe(neorpc.BlockEventID, filter, &headerReceiver{filter: filter, ch: ch}, ch)
}

// ReceiveTransactions subscribes for new mempool transactions matching
// filter.
func (c *WSClient) ReceiveTransactions(filter *neorpc.TxFilter, ch chan *transaction.Transaction) (string, error) {
	return c.subscribe(neorpc.TransactionEventID, filter, &txReceiver{filter: filter, ch: ch}, ch)
}

// ReceiveExecutionNotifications subscribes for contract Runtime.Notify
// events matching filter.
func (c *WSClient) ReceiveExecutionNotifications(filter *neorpc.NotificationFilter, ch chan *state.ContainedNotificationEvent) (string, error) {
	return c.subscribe(neorpc.NotificationEventID, filter, &executionNotificationReceiver{filter: filter, ch: ch}, ch)
}

// ReceiveExecutions subscribes for transaction/block application
// results matching filter.
func (c *WSClient) ReceiveExecutions(filter *neorpc.ExecutionFilter, ch chan *state.AppExecResult) (string, error) {
	if filter != nil && filter.State != nil {
		if _, err := vmstate.FromString(*filter.State); err != nil {
			return "", fmt.Errorf("%w: %s", neorpc.ErrInvalidSubscriptionFilter, *filter.State)
		}
	}
	return c.subscribe(neorpc.ExecutionEventID, filter, &executionReceiver{filter: filter, ch: ch}, ch)
}

// ReceiveNotaryRequests subscribes for P2P notary request pool events
// matching filter.
func (c *WSClient) ReceiveNotaryRequests(filter *neorpc.NotaryRequestFilter, ch chan *result.NotaryRequestEvent) (string, error) {
	return c.subscribe(neorpc.NotaryRequestEventID, filter, &notaryRequestReceiver{filter: filter, ch: ch}, ch)
}

func (c *WSClient) subscribe(event neorpc.EventID, filter interface{}, r receiver, chanKey interface{}) (string, error) {
	if f, ok := filter.(*neorpc.NotificationFilter); ok && f != nil && f.Name != nil && len(*f.Name) > neorpc.MaxNotificationNameLength {
		return "", fmt.Errorf("%w: notification name too long", neorpc.ErrInvalidSubscriptionFilter)
	}
	params := []interface{}{event.String()}
	if !isNilFilter(filter) {
		params = append(params, filter)
	}
	var id string
	if err := c.Client.Call("subscribe", &id, params...); err != nil {
		return "", err
	}
	c.subscriptionsLock.Lock()
	c.subscriptions[id] = r
	c.receivers[chanKey] = append(c.receivers[chanKey], id)
	c.subscriptionsLock.Unlock()
	return id, nil
}

func isNilFilter(filter interface{}) bool {
	switch f := filter.(type) {
	case *neorpc.BlockFilter:
		return f == nil
	case *neorpc.TxFilter:
		return f == nil
	case *neorpc.NotificationFilter:
		return f == nil
	case *neorpc.ExecutionFilter:
		return f == nil
	case *neorpc.NotaryRequestFilter:
		return f == nil
	default:
		return filter == nil
	}
}

// Unsubscribe cancels subscription id; it does not close the
// receiving channel, which callers keep ownership of.
func (c *WSClient) Unsubscribe(id string) error {
	c.subscriptionsLock.RLock()
	r, ok := c.subscriptions[id]
	c.subscriptionsLock.RUnlock()
	if !ok {
		return fmt.Errorf("wsclient: not subscribed: %s", id)
	}
	var ok2 bool
	if err := c.Client.Call("unsubscribe", &ok2, id); err != nil {
		return err
	}
	if !ok2 {
		return errors.New("wsclient: unsubscribe rejected by node")
	}
	c.subscriptionsLock.Lock()
	delete(c.subscriptions, id)
	key := r.chanIdentity()
	ids := c.receivers[key]
	for i, rid := range ids {
		if rid == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(c.receivers, key)
	} else {
		c.receivers[key] = ids
	}
	c.subscriptionsLock.Unlock()
	return nil
}

// UnsubscribeAll cancels every live subscription.
func (c *WSClient) UnsubscribeAll() error {
	c.subscriptionsLock.RLock()
	ids := make([]string, 0, len(c.subscriptions))
	for id := range c.subscriptions {
		ids = append(ids, id)
	}
	c.subscriptionsLock.RUnlock()
	for _, id := range ids {
		if err := c.Unsubscribe(id); err != nil {
			return err
		}
	}
	return nil
}
