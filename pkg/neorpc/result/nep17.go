package result

import (
	"encoding/json"

	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// NEP17Balance is one token's balance for a getnep17balances reply.
type NEP17Balance struct {
	Asset       util.Uint160
	Amount      string
	LastUpdated uint32
}

type nep17BalanceJSON struct {
	Asset       util.Uint160 `json:"assethash"`
	Amount      string       `json:"amount"`
	LastUpdated uint32       `json:"lastupdatedblock"`
}

// MarshalJSON renders the balance in its RPC wire shape.
func (b NEP17Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(nep17BalanceJSON{b.Asset, b.Amount, b.LastUpdated})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (b *NEP17Balance) UnmarshalJSON(data []byte) error {
	var raw nep17BalanceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Asset = raw.Asset
	b.Amount = raw.Amount
	b.LastUpdated = raw.LastUpdated
	return nil
}

// NEP17Balances is the getnep17balances RPC result.
type NEP17Balances struct {
	Balances []NEP17Balance `json:"balance"`
	Address  string         `json:"address"`
}

// NEP17Transfer is one entry of a getnep17transfers reply's
// sent/received list.
type NEP17Transfer struct {
	Timestamp   uint64
	Asset       util.Uint160
	Address     string
	Amount      string
	Index       uint32
	NotifyIndex uint32
	TxHash      util.Uint256
}

type nep17TransferJSON struct {
	Timestamp   uint64       `json:"timestamp"`
	Asset       util.Uint160 `json:"assethash"`
	Address     string       `json:"transferaddress,omitempty"`
	Amount      string       `json:"amount"`
	Index       uint32       `json:"blockindex"`
	NotifyIndex uint32       `json:"transfernotifyindex"`
	TxHash      util.Uint256 `json:"txhash"`
}

// MarshalJSON renders the transfer in its RPC wire shape.
func (t NEP17Transfer) MarshalJSON() ([]byte, error) {
	return json.Marshal(nep17TransferJSON(t))
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *NEP17Transfer) UnmarshalJSON(data []byte) error {
	var raw nep17TransferJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = NEP17Transfer(raw)
	return nil
}

// NEP17Transfers is the getnep17transfers RPC result.
type NEP17Transfers struct {
	Sent     []NEP17Transfer `json:"sent"`
	Received []NEP17Transfer `json:"received"`
	Address  string          `json:"address"`
}
