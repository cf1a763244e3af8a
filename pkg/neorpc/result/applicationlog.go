package result

import (
	"encoding/json"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// ApplicationLog is the result of getapplicationlog: every trigger's
// Execution recorded for a single transaction or block container.
type ApplicationLog struct {
	Container     util.Uint256
	IsTransaction bool
	Executions    []state.Execution
}

type applicationLogJSON struct {
	TxID       *util.Uint256     `json:"txid,omitempty"`
	BlockHash  *util.Uint256     `json:"blockhash,omitempty"`
	Executions []state.Execution `json:"executions"`
}

// MarshalJSON renders the log in its RPC wire shape, keyed by
// whichever of txid/blockhash the container actually is.
func (l ApplicationLog) MarshalJSON() ([]byte, error) {
	raw := applicationLogJSON{Executions: l.Executions}
	if raw.Executions == nil {
		raw.Executions = []state.Execution{}
	}
	if l.IsTransaction {
		raw.TxID = &l.Container
	} else {
		raw.BlockHash = &l.Container
	}
	return json.Marshal(raw)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (l *ApplicationLog) UnmarshalJSON(data []byte) error {
	var raw applicationLogJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Executions = raw.Executions
	switch {
	case raw.TxID != nil:
		l.Container = *raw.TxID
		l.IsTransaction = true
	case raw.BlockHash != nil:
		l.Container = *raw.BlockHash
		l.IsTransaction = false
	}
	return nil
}

// ToAppExecResult picks the log's single Execution matching trig (or
// the first one if trig is nil), the shape Actor.WaitSuccess and the
// invoker layer consume.
func (l *ApplicationLog) ToAppExecResult() *state.AppExecResult {
	if len(l.Executions) == 0 {
		return nil
	}
	return &state.AppExecResult{Container: l.Container, Execution: l.Executions[0]}
}
