package eventmonitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Chain is the subset of rpcclient.Client a Monitor polls: current
// height, a block's transaction list, and a transaction's application
// log. *rpcclient.Client (directly, or wrapped by *wsclient.WSClient)
// satisfies it unchanged.
type Chain interface {
	GetBlockCount() (uint32, error)
	GetBlockByIndex(index uint32) (*result.Block, error)
	GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error)
}

// Options configures a Monitor's ambient concerns: logging is the
// only mandatory-by-convention one, following rpcclient/wsclient's
// lead of defaulting to a no-op logger rather than requiring one.
type Options struct {
	Logger *zap.Logger
}

// Monitor periodically walks new blocks' application logs and reports
// the notifications matching its registered filters on a channel. It
// implements an at-least-once delivery guarantee per (transaction,
// notification) pair: a notification is redelivered only if the
// Monitor is restarted after its processed-transaction cache has
// evicted the transaction's entry, which is a documented tradeoff, not
// a failure mode.
//
// Within one Monitor, events are emitted in ascending
// (block index, transaction index, notification index) order. Across
// Monitors, there is no ordering guarantee.
type Monitor struct {
	chain Chain
	cfg   Config
	log   *zap.Logger

	out chan EventInfo

	done      chan struct{}
	closeOnce sync.Once

	mu                 sync.Mutex
	filters            map[uuid.UUID]Filter
	lastProcessedBlock uint32
	metrics            *Metrics

	seen *lru.Cache[util.Uint256, struct{}]

	statsMu sync.Mutex
	stats   Stats
}

// New builds a Monitor against chain. Filters are added afterwards via
// AddFilter; a Monitor with no filters polls but reports nothing.
func New(chain Chain, cfg Config, opts Options) (*Monitor, error) {
	cfg = cfg.withDefaults()
	seen, err := lru.New[util.Uint256, struct{}](cfg.ProcessedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("eventmonitor: processed cache: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		chain:              chain,
		cfg:                cfg,
		log:                logger,
		out:                make(chan EventInfo, cfg.ChannelBufferSize),
		done:               make(chan struct{}),
		filters:            make(map[uuid.UUID]Filter),
		lastProcessedBlock: cfg.StartBlock,
		seen:               seen,
	}, nil
}

// AddFilter registers a filter matching notifications raised by
// contract named eventNames (or any event, if eventNames is empty) and
// returns a handle RemoveFilter accepts.
func (m *Monitor) AddFilter(contract util.Uint160, eventNames ...string) uuid.UUID {
	id := uuid.New()
	names := make(map[string]struct{}, len(eventNames))
	for _, n := range eventNames {
		names[n] = struct{}{}
	}
	m.mu.Lock()
	m.filters[id] = Filter{ID: id, Contract: contract, EventNames: names}
	m.mu.Unlock()
	return id
}

// RemoveFilter unregisters the filter id names; a stale or unknown id
// is a no-op.
func (m *Monitor) RemoveFilter(id uuid.UUID) {
	m.mu.Lock()
	delete(m.filters, id)
	m.mu.Unlock()
}

// Events returns the channel matched notifications are delivered on.
// The channel is closed once Run returns.
func (m *Monitor) Events() <-chan EventInfo {
	return m.out
}

// Stats returns a snapshot of the Monitor's cumulative poll counters.
func (m *Monitor) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// Close stops a running Monitor; Run returns shortly afterwards. Close
// is safe to call more than once and from any goroutine.
func (m *Monitor) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

// Run drives the poll loop until ctx is cancelled or Close is called,
// ticking every PollInterval. The caller owns the goroutine Run runs
// in; cancelling ctx (or calling Close) is the only way to stop it.
// Run closes the Events channel before returning.
func (m *Monitor) Run(ctx context.Context) error {
	defer close(m.out)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	if err := m.poll(ctx); err != nil {
		m.log.Warn("eventmonitor: initial poll failed", zap.Error(err))
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return nil
		case <-ticker.C:
			if err := m.poll(ctx); err != nil {
				m.log.Warn("eventmonitor: poll failed", zap.Error(err))
			}
		}
	}
}

// poll implements one tick: fetch the current height, walk every
// block since lastProcessedBlock, and for each of its transactions not
// already seen, fetch its application log and emit any notification a
// registered filter matches.
func (m *Monitor) poll(ctx context.Context) error {
	m.statsMu.Lock()
	m.stats.PollsRun++
	m.statsMu.Unlock()

	height, err := m.chain.GetBlockCount()
	if err != nil {
		m.bumpPollErrors()
		return fmt.Errorf("eventmonitor: getblockcount: %w", err)
	}

	m.mu.Lock()
	from := m.lastProcessedBlock
	m.mu.Unlock()

	for index := from + 1; index < height; index++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return nil
		default:
		}
		if err := m.processBlock(ctx, index); err != nil {
			m.bumpPollErrors()
			return fmt.Errorf("eventmonitor: block %d: %w", index, err)
		}
		m.mu.Lock()
		m.lastProcessedBlock = index
		m.mu.Unlock()
		m.statsMu.Lock()
		m.stats.BlocksProcessed++
		m.stats.LastProcessedBlock = index
		m.statsMu.Unlock()
		if m.metrics != nil {
			m.metrics.blocksProcessed.Inc()
			m.metrics.lastBlock.Set(float64(index))
		}
	}
	return nil
}

func (m *Monitor) bumpPollErrors() {
	m.statsMu.Lock()
	m.stats.PollErrors++
	m.statsMu.Unlock()
	if m.metrics != nil {
		m.metrics.pollErrors.Inc()
	}
}

func (m *Monitor) processBlock(ctx context.Context, index uint32) error {
	blk, err := m.chain.GetBlockByIndex(index)
	if err != nil {
		return fmt.Errorf("getblock: %w", err)
	}
	for _, tx := range blk.Transactions {
		hash := tx.Hash()
		if _, ok := m.seen.Get(hash); ok {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return nil
		default:
		}
		if err := m.processTransaction(index, hash); err != nil {
			return fmt.Errorf("tx %s: %w", hash.StringBE(), err)
		}
		m.seen.Add(hash, struct{}{})
		m.statsMu.Lock()
		m.stats.TransactionsProcessed++
		m.statsMu.Unlock()
	}
	return nil
}

func (m *Monitor) processTransaction(blockIndex uint32, hash util.Uint256) error {
	trig := trigger.Application
	log, err := m.chain.GetApplicationLog(hash, &trig)
	if err != nil {
		return fmt.Errorf("getapplicationlog: %w", err)
	}
	for _, exec := range log.Executions {
		for _, ev := range exec.Events {
			info, matched := m.match(ev)
			if !matched {
				continue
			}
			info.BlockIndex = blockIndex
			info.TxHash = hash
			info.Timestamp = time.Now()
			select {
			case m.out <- info:
			case <-m.done:
				return nil
			}
			m.statsMu.Lock()
			m.stats.EventsEmitted++
			m.statsMu.Unlock()
			if m.metrics != nil {
				m.metrics.eventsEmitted.Inc()
			}
		}
	}
	return nil
}

func (m *Monitor) match(ev state.NotificationEvent) (EventInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.filters {
		if f.matches(ev.ScriptHash, ev.Name) {
			return EventInfo{
				Contract:  ev.ScriptHash,
				EventName: ev.Name,
				State:     ev.Item,
			}, true
		}
	}
	return EventInfo{}, false
}
