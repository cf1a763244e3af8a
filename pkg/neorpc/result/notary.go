package result

import (
	"encoding/json"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc"
)

// NotaryRequest is the pair of transactions a P2P notary request
// carries: the main transaction a notary-assisted signer wants
// witnessed, and the fallback transaction that reclaims the sender's
// deposit if the main one doesn't collect enough signatures in time.
type NotaryRequest struct {
	MainTransaction     *transaction.Transaction
	FallbackTransaction *transaction.Transaction
}

// NotaryRequestEvent is the payload of a notary_request_event
// subscription: which mempool change (add/remove) happened to which
// request.
type NotaryRequestEvent struct {
	Type          neorpc.MempoolEventType
	NotaryRequest *NotaryRequest
}

type notaryRequestEventJSON struct {
	Type    string `json:"type"`
	Request struct {
		Main     json.RawMessage `json:"maintransaction"`
		Fallback json.RawMessage `json:"fallbacktransaction"`
	} `json:"notaryrequest"`
}

// MarshalJSON renders the event in its RPC wire shape.
func (e NotaryRequestEvent) MarshalJSON() ([]byte, error) {
	var raw notaryRequestEventJSON
	raw.Type = string(e.Type)
	if e.NotaryRequest != nil && e.NotaryRequest.MainTransaction != nil {
		raw.Request.Main, _ = e.NotaryRequest.MainTransaction.MarshalJSON()
	}
	if e.NotaryRequest != nil && e.NotaryRequest.FallbackTransaction != nil {
		raw.Request.Fallback, _ = e.NotaryRequest.FallbackTransaction.MarshalJSON()
	}
	return json.Marshal(raw)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (e *NotaryRequestEvent) UnmarshalJSON(data []byte) error {
	var raw notaryRequestEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Type = neorpc.MempoolEventType(raw.Type)
	req := &NotaryRequest{}
	if len(raw.Request.Main) > 0 {
		main := &transaction.Transaction{}
		if err := main.UnmarshalJSON(raw.Request.Main); err != nil {
			return err
		}
		req.MainTransaction = main
	}
	if len(raw.Request.Fallback) > 0 {
		fb := &transaction.Transaction{}
		if err := fb.UnmarshalJSON(raw.Request.Fallback); err != nil {
			return err
		}
		req.FallbackTransaction = fb
	}
	e.NotaryRequest = req
	return nil
}
