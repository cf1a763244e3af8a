package eventmonitor

import (
	"time"

	"github.com/google/uuid"

	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

// EventInfo is one contract notification a Monitor's filters matched,
// ready for delivery to a consumer.
type EventInfo struct {
	Contract   util.Uint160
	EventName  string
	BlockIndex uint32
	TxHash     util.Uint256
	State      stackitem.Item
	Timestamp  time.Time
}

// Filter selects the notifications a Monitor reports: a contract hash
// plus the event names to report from it. An empty EventNames matches
// every event the contract raises.
type Filter struct {
	ID         uuid.UUID
	Contract   util.Uint160
	EventNames map[string]struct{}
}

func (f Filter) matches(contract util.Uint160, name string) bool {
	if f.Contract != contract {
		return false
	}
	if len(f.EventNames) == 0 {
		return true
	}
	_, ok := f.EventNames[name]
	return ok
}

// Stats reports a Monitor's cumulative poll counters.
type Stats struct {
	BlocksProcessed       uint64
	TransactionsProcessed uint64
	EventsEmitted         uint64
	PollsRun              uint64
	PollErrors            uint64
	LastProcessedBlock    uint32
}
