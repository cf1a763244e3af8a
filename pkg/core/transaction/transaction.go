package transaction

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Protocol-wide transaction caps.
const (
	MaxTransactionSize = 102400
	MaxAttributes      = 16
	MaxScriptLength    = MaxTransactionSize
)

// DummyVersion is the only transaction version the protocol currently
// defines.
const DummyVersion = 0

var (
	// ErrTooManyAttributes is returned when Attributes/Signers exceed
	// MaxAttributes combined.
	ErrTooManyAttributes = errors.New("transaction: too many attributes")
	// ErrTxTooBig is returned when the encoded transaction exceeds
	// MaxTransactionSize.
	ErrTxTooBig = errors.New("transaction: too big")
	// ErrInvalidVersion is returned for any version byte other than 0.
	ErrInvalidVersion = errors.New("transaction: invalid version")
	// ErrEmptyScript is returned when a transaction carries no script.
	ErrEmptyScript = errors.New("transaction: empty script")
)

// Transaction is a signed Neo N3 transaction: the unsigned fields
// (Version through Script) are what gets hashed and signed, and the
// Witnesses carry the proofs that each Signer authorized it, per
// spec.md §3.
type Transaction struct {
	Version         byte
	Nonce           uint32
	SystemFee       int64
	NetworkFee      int64
	ValidUntilBlock uint32
	Signers         []Signer
	Attributes      []Attribute
	Script          []byte
	Witnesses       []Witness

	hash      util.Uint256
	hashValid bool
	size      int
}

// New builds an unsigned Transaction over the given script. Signers,
// Attributes, and Witnesses are added separately before Hash()/Bytes()
// are called.
func New(script []byte, systemFee, networkFee int64, validUntilBlock uint32) *Transaction {
	return &Transaction{
		Version:         DummyVersion,
		SystemFee:       systemFee,
		NetworkFee:      networkFee,
		ValidUntilBlock: validUntilBlock,
		Script:          script,
	}
}

// Sender is the first Signer's Account, the account responsible for
// this transaction's network fee when no fee-only signer is present.
func (t *Transaction) Sender() util.Uint160 {
	if len(t.Signers) == 0 {
		return util.Uint160{}
	}
	return t.Signers[0].Account
}

// HasSigner reports whether acc is one of this transaction's Signers.
func (t *Transaction) HasSigner(acc util.Uint160) bool {
	for _, s := range t.Signers {
		if s.Account.Equals(acc) {
			return true
		}
	}
	return false
}

// HasAttribute reports whether the transaction carries at least one
// attribute of the given type.
func (t *Transaction) HasAttribute(typ AttrType) bool {
	for _, a := range t.Attributes {
		if a.Type == typ {
			return true
		}
	}
	return false
}

// GetAttributes returns the Attributes of the given type, in order.
func (t *Transaction) GetAttributes(typ AttrType) []Attribute {
	var out []Attribute
	for _, a := range t.Attributes {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

func (t *Transaction) encodeHashableFields(w *io.BinWriter) {
	w.WriteB(t.Version)
	w.WriteU32LE(t.Nonce)
	w.WriteI64LE(t.SystemFee)
	w.WriteI64LE(t.NetworkFee)
	w.WriteU32LE(t.ValidUntilBlock)

	w.WriteVarUint(uint64(len(t.Signers)))
	for _, s := range t.Signers {
		s.EncodeBinary(w)
	}

	w.WriteVarUint(uint64(len(t.Attributes)))
	for _, a := range t.Attributes {
		a.EncodeBinary(w)
	}

	w.WriteVarBytes(t.Script)
}

// EncodeBinary writes the transaction's unsigned fields followed by
// its Witnesses, matching the RPC/P2P wire format.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	t.encodeHashableFields(w)
	w.WriteVarUint(uint64(len(t.Witnesses)))
	for _, wit := range t.Witnesses {
		wit.EncodeBinary(w)
	}
}

// DecodeBinary reads a Transaction as produced by EncodeBinary,
// validating signer/attribute counts; the cached hash and size are
// invalidated and lazily recomputed on the next Hash()/Size() call.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	t.Version = r.ReadB()
	if r.Err != nil {
		return
	}
	if t.Version != DummyVersion {
		r.Err = fmt.Errorf("%w: %d", ErrInvalidVersion, t.Version)
		return
	}
	t.Nonce = r.ReadU32LE()
	t.SystemFee = r.ReadI64LE()
	t.NetworkFee = r.ReadI64LE()
	t.ValidUntilBlock = r.ReadU32LE()
	if r.Err != nil {
		return
	}

	nSigners := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nSigners > MaxAttributes {
		r.Err = ErrTooManyAttributes
		return
	}
	t.Signers = make([]Signer, nSigners)
	for i := range t.Signers {
		t.Signers[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	nAttrs := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nAttrs+nSigners > MaxAttributes {
		r.Err = ErrTooManyAttributes
		return
	}
	t.Attributes = make([]Attribute, nAttrs)
	for i := range t.Attributes {
		t.Attributes[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	t.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err != nil {
		return
	}
	if len(t.Script) == 0 {
		r.Err = ErrEmptyScript
		return
	}

	nWit := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nWit > MaxAttributes {
		r.Err = ErrTooManyAttributes
		return
	}
	t.Witnesses = make([]Witness, nWit)
	for i := range t.Witnesses {
		t.Witnesses[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	t.hashValid = false
	t.size = 0
}

// GetSignedPart returns the serialized unsigned fields: this is what
// every Signer's signature is computed over.
func (t *Transaction) GetSignedPart() []byte {
	buf := new(bytes.Buffer)
	w := io.NewBinWriterFromIO(buf)
	t.encodeHashableFields(w)
	return buf.Bytes()
}

// Hash returns the SHA-256 of the unsigned fields, caching the
// result after the first call (or after DecodeBinary).
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashValid {
		t.hash = hash.Sha256(t.GetSignedPart())
		t.hashValid = true
	}
	return t.hash
}

// GetSignedHash returns the digest every Witness actually signs: the
// SHA-256 of the network's magic number (little-endian uint32)
// prefixed to the transaction's hash, binding a signature to one
// specific network so it can't be replayed on another.
func (t *Transaction) GetSignedHash(network uint32) util.Uint256 {
	buf := new(bytes.Buffer)
	w := io.NewBinWriterFromIO(buf)
	w.WriteU32LE(network)
	h := t.Hash()
	buf.Write(h.BytesBE())
	return hash.Sha256(buf.Bytes())
}

// Hashable is anything a wallet Account can sign: a network-scoped
// digest over a container's unsigned fields. Transaction is the only
// implementation the SDK needs.
type Hashable interface {
	GetSignedHash(network uint32) util.Uint256
}

// Size returns the full wire-encoded size in bytes, including
// Witnesses.
func (t *Transaction) Size() int {
	if t.size == 0 {
		buf := new(bytes.Buffer)
		w := io.NewBinWriterFromIO(buf)
		t.EncodeBinary(w)
		t.size = buf.Len()
	}
	return t.size
}

// Bytes serializes the full transaction (unsigned fields + witnesses).
func (t *Transaction) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := io.NewBinWriterFromIO(buf)
	t.EncodeBinary(w)
	if w.Err != nil {
		return nil, w.Err
	}
	if buf.Len() > MaxTransactionSize {
		return nil, ErrTxTooBig
	}
	return buf.Bytes(), nil
}

// NewTransactionFromBytes decodes a full wire-encoded transaction.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	r := io.NewBinReaderFromBuf(b)
	t := &Transaction{}
	t.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return t, nil
}

// transactionJSON is the RPC wire shape of a Transaction.
type transactionJSON struct {
	Hash            string      `json:"hash"`
	Size            int         `json:"size"`
	Version         byte        `json:"version"`
	Nonce           uint32      `json:"nonce"`
	Sender          string      `json:"sender,omitempty"`
	SystemFee       string      `json:"sysfee"`
	NetworkFee      string      `json:"netfee"`
	ValidUntilBlock uint32      `json:"validuntilblock"`
	Signers         []Signer    `json:"signers"`
	Attributes      []Attribute `json:"attributes"`
	Script          string      `json:"script"`
	Witnesses       []Witness   `json:"witnesses"`
}

// MarshalJSON renders the transaction in its RPC wire shape.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	attrs := t.Attributes
	if attrs == nil {
		attrs = []Attribute{}
	}
	return json.Marshal(transactionJSON{
		Hash:            t.Hash().StringBE(),
		Size:            t.Size(),
		Version:         t.Version,
		Nonce:           t.Nonce,
		Sender:          t.Sender().StringBE(),
		SystemFee:       fmt.Sprintf("%d", t.SystemFee),
		NetworkFee:      fmt.Sprintf("%d", t.NetworkFee),
		ValidUntilBlock: t.ValidUntilBlock,
		Signers:         t.Signers,
		Attributes:      attrs,
		Script:          base64.StdEncoding.EncodeToString(t.Script),
		Witnesses:       t.Witnesses,
	})
}

// UnmarshalJSON parses the transaction from its RPC wire shape; the
// Hash/Size fields are not trusted and are recomputed locally.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	script, err := base64.StdEncoding.DecodeString(raw.Script)
	if err != nil {
		return err
	}
	var sysFee, netFee int64
	if _, err := fmt.Sscanf(raw.SystemFee, "%d", &sysFee); err != nil {
		return fmt.Errorf("transaction: invalid sysfee: %w", err)
	}
	if _, err := fmt.Sscanf(raw.NetworkFee, "%d", &netFee); err != nil {
		return fmt.Errorf("transaction: invalid netfee: %w", err)
	}

	t.Version = raw.Version
	t.Nonce = raw.Nonce
	t.SystemFee = sysFee
	t.NetworkFee = netFee
	t.ValidUntilBlock = raw.ValidUntilBlock
	t.Signers = raw.Signers
	t.Attributes = raw.Attributes
	t.Script = script
	t.Witnesses = raw.Witnesses
	t.hashValid = false
	t.size = 0
	return nil
}
