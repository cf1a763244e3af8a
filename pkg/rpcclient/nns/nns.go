package nns

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

// Invokable is the subset of Invoker a Reader needs.
type Invokable interface {
	Call(contract util.Uint160, operation string, params ...interface{}) (*result.Invoke, error)
}

// Reader is the read-only NNS binding.
type Reader struct {
	invoker Invokable
	hash    util.Uint160
}

// NewReader builds a Reader against the NNS contract deployed at hash.
func NewReader(invoker Invokable, hash util.Uint160) *Reader {
	return &Reader{invoker, hash}
}

// GetPrice calls `getPrice` for a domain of the given name length.
func (c *Reader) GetPrice(length uint8) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getPrice", int64(length)))
}

// IsAvailable calls `isAvailable` for name.
func (c *Reader) IsAvailable(name string) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isAvailable", name))
}

// Resolve calls `resolve`, looking up name's typ record.
func (c *Reader) Resolve(name string, typ RecordType) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "resolve", name, int64(typ)))
}

// GetRecord calls `getRecord`, the single-record counterpart of
// GetAllRecords.
func (c *Reader) GetRecord(name string, typ RecordType) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "getRecord", name, int64(typ)))
}

func itemsToRecords(items []stackitem.Item) ([]RecordState, error) {
	out := make([]RecordState, len(items))
	for i, it := range items {
		if err := out[i].FromStackItem(it); err != nil {
			return nil, fmt.Errorf("nns: entry %d: %w", i, err)
		}
	}
	return out, nil
}

// RecordsIterator pages through a `getAllRecords` result. A
// session-backed iterator reports an explicit error rather than
// pretending to return nothing, since this client has no
// TraverseIterator/TerminateSession transport.
type RecordsIterator struct {
	values    []stackitem.Item
	sessional bool
}

// Next returns up to num decoded records from the iterator.
func (it *RecordsIterator) Next(num int) ([]RecordState, error) {
	if it.sessional {
		return nil, errors.New("nns: session-backed iterator traversal is not supported by this client")
	}
	if num > len(it.values) {
		num = len(it.values)
	}
	batch := it.values[:num]
	it.values = it.values[num:]
	return itemsToRecords(batch)
}

// Terminate releases the iterator's server-side session, if any.
func (it *RecordsIterator) Terminate() error {
	if it.sessional {
		return errors.New("nns: session-backed iterator traversal is not supported by this client")
	}
	return nil
}

// GetAllRecords calls `getAllRecords` for name.
func (c *Reader) GetAllRecords(name string) (*RecordsIterator, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "getAllRecords", name))
	if err != nil {
		return nil, err
	}
	interop, ok := item.(stackitem.Interop)
	if !ok {
		return nil, fmt.Errorf("nns: expected Interop, got %s", item.Type())
	}
	iter, ok := interop.Value.(result.Iterator)
	if !ok {
		return nil, errors.New("nns: interop doesn't carry an iterator")
	}
	if iter.ID != nil && len(iter.Values) == 0 {
		return &RecordsIterator{sessional: true}, nil
	}
	return &RecordsIterator{values: iter.Values}, nil
}

// GetAllRecordsExpanded calls `getAllRecords` for name and immediately
// drains up to maxItems decoded records, for callers that don't need
// (or can't use) paged iteration.
func (c *Reader) GetAllRecordsExpanded(name string, maxItems int) ([]RecordState, error) {
	iter, err := c.GetAllRecords(name)
	if err != nil {
		return nil, err
	}
	return iter.Next(maxItems)
}

// RootIterator pages through a `roots` result, the same
// session-or-values shape as RecordsIterator but over plain root name
// strings.
type RootIterator struct {
	values    []stackitem.Item
	sessional bool
}

// Next returns up to num decoded root names from the iterator.
func (it *RootIterator) Next(num int) ([]string, error) {
	if it.sessional {
		return nil, errors.New("nns: session-backed iterator traversal is not supported by this client")
	}
	if num > len(it.values) {
		num = len(it.values)
	}
	batch := it.values[:num]
	it.values = it.values[num:]
	out := make([]string, len(batch))
	for i, v := range batch {
		b, err := stackitem.ToBytes(v)
		if err != nil {
			return nil, fmt.Errorf("nns: root %d: %w", i, err)
		}
		out[i] = string(b)
	}
	return out, nil
}

// Terminate releases the iterator's server-side session, if any.
func (it *RootIterator) Terminate() error {
	if it.sessional {
		return errors.New("nns: session-backed iterator traversal is not supported by this client")
	}
	return nil
}

// Roots calls `roots`, the contract's registered top-level domains.
func (c *Reader) Roots() (*RootIterator, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "roots"))
	if err != nil {
		return nil, err
	}
	interop, ok := item.(stackitem.Interop)
	if !ok {
		return nil, fmt.Errorf("nns: expected Interop, got %s", item.Type())
	}
	iter, ok := interop.Value.(result.Iterator)
	if !ok {
		return nil, errors.New("nns: interop doesn't carry an iterator")
	}
	if iter.ID != nil && len(iter.Values) == 0 {
		return &RootIterator{sessional: true}, nil
	}
	return &RootIterator{values: iter.Values}, nil
}

// RootsExpanded calls `roots` and immediately drains up to maxItems
// root names.
func (c *Reader) RootsExpanded(maxItems int) ([]string, error) {
	iter, err := c.Roots()
	if err != nil {
		return nil, err
	}
	return iter.Next(maxItems)
}

// OwnerOf calls `ownerOf`, the NEP-11 ownership query for a domain
// name's token ID.
func (c *Reader) OwnerOf(name string) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "ownerOf", name))
}

// ActorInvokable is the subset of Actor a Contract needs.
type ActorInvokable interface {
	Invokable
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// Contract is the read/write NNS binding.
type Contract struct {
	Reader
	actor ActorInvokable
}

// New builds a read/write binding against the NNS contract deployed
// at hash.
func New(actor ActorInvokable, hash util.Uint160) *Contract {
	return &Contract{Reader{actor, hash}, actor}
}

func (c *Contract) callScript(method string, args ...interface{}) ([]byte, error) {
	params, err := smartcontract.NewParametersFromValues(args...)
	if err != nil {
		return nil, err
	}
	b := smartcontract.NewBuilder()
	iargs := make([]interface{}, len(params))
	for i, p := range params {
		iargs[i] = p
	}
	b.InvokeMethod(c.hash, method, iargs...)
	return b.Script()
}

func (c *Contract) call(method string, args ...interface{}) (util.Uint256, uint32, error) {
	script, err := c.callScript(method, args...)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return c.actor.SendRun(script)
}

func (c *Contract) callTransaction(method string, args ...interface{}) (*transaction.Transaction, error) {
	script, err := c.callScript(method, args...)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeRun(script)
}

func (c *Contract) callUnsigned(method string, args ...interface{}) (*transaction.Transaction, error) {
	script, err := c.callScript(method, args...)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeUnsignedRun(script, nil)
}

// Update broadcasts an `update` call, redeploying the contract with a
// new nef/manifest pair.
func (c *Contract) Update(nef []byte, manifest string) (util.Uint256, uint32, error) {
	return c.call("update", nef, manifest)
}

// UpdateTransaction signs and returns, without broadcasting, an
// `update` transaction.
func (c *Contract) UpdateTransaction(nef []byte, manifest string) (*transaction.Transaction, error) {
	return c.callTransaction("update", nef, manifest)
}

// UpdateUnsigned builds, without signing, an `update` transaction.
func (c *Contract) UpdateUnsigned(nef []byte, manifest string) (*transaction.Transaction, error) {
	return c.callUnsigned("update", nef, manifest)
}

// AddRoot broadcasts an `addRoot` call registering a new top-level
// domain.
func (c *Contract) AddRoot(root string) (util.Uint256, uint32, error) {
	return c.call("addRoot", root)
}

// AddRootTransaction signs and returns, without broadcasting, an
// `addRoot` transaction.
func (c *Contract) AddRootTransaction(root string) (*transaction.Transaction, error) {
	return c.callTransaction("addRoot", root)
}

// AddRootUnsigned builds, without signing, an `addRoot` transaction.
func (c *Contract) AddRootUnsigned(root string) (*transaction.Transaction, error) {
	return c.callUnsigned("addRoot", root)
}

// SetPrice broadcasts a `setPrice` call, one price per domain-name
// length bracket.
func (c *Contract) SetPrice(priceList []int64) (util.Uint256, uint32, error) {
	return c.call("setPrice", priceList)
}

// SetPriceTransaction signs and returns, without broadcasting, a
// `setPrice` transaction.
func (c *Contract) SetPriceTransaction(priceList []int64) (*transaction.Transaction, error) {
	return c.callTransaction("setPrice", priceList)
}

// SetPriceUnsigned builds, without signing, a `setPrice` transaction.
func (c *Contract) SetPriceUnsigned(priceList []int64) (*transaction.Transaction, error) {
	return c.callUnsigned("setPrice", priceList)
}

// Register broadcasts a `register` call claiming name for owner.
func (c *Contract) Register(name string, owner util.Uint160) (util.Uint256, uint32, error) {
	return c.call("register", name, owner)
}

// RegisterTransaction signs and returns, without broadcasting, a
// `register` transaction.
func (c *Contract) RegisterTransaction(name string, owner util.Uint160) (*transaction.Transaction, error) {
	return c.callTransaction("register", name, owner)
}

// RegisterUnsigned builds, without signing, a `register` transaction.
func (c *Contract) RegisterUnsigned(name string, owner util.Uint160) (*transaction.Transaction, error) {
	return c.callUnsigned("register", name, owner)
}

// Renew broadcasts a `renew` call extending name's registration by
// one year.
func (c *Contract) Renew(name string) (util.Uint256, uint32, error) {
	return c.call("renew", name)
}

// RenewTransaction signs and returns, without broadcasting, a `renew`
// transaction.
func (c *Contract) RenewTransaction(name string) (*transaction.Transaction, error) {
	return c.callTransaction("renew", name)
}

// RenewUnsigned builds, without signing, a `renew` transaction.
func (c *Contract) RenewUnsigned(name string) (*transaction.Transaction, error) {
	return c.callUnsigned("renew", name)
}

// Renew2 broadcasts a `renew` call extending name's registration by
// the given number of years.
func (c *Contract) Renew2(name string, years int64) (util.Uint256, uint32, error) {
	return c.call("renew", name, years)
}

// Renew2Transaction signs and returns, without broadcasting, a
// multi-year `renew` transaction.
func (c *Contract) Renew2Transaction(name string, years int64) (*transaction.Transaction, error) {
	return c.callTransaction("renew", name, years)
}

// Renew2Unsigned builds, without signing, a multi-year `renew`
// transaction.
func (c *Contract) Renew2Unsigned(name string, years int64) (*transaction.Transaction, error) {
	return c.callUnsigned("renew", name, years)
}

// SetAdmin broadcasts a `setAdmin` call delegating record management
// of name to admin.
func (c *Contract) SetAdmin(name string, admin util.Uint160) (util.Uint256, uint32, error) {
	return c.call("setAdmin", name, admin)
}

// SetAdminTransaction signs and returns, without broadcasting, a
// `setAdmin` transaction.
func (c *Contract) SetAdminTransaction(name string, admin util.Uint160) (*transaction.Transaction, error) {
	return c.callTransaction("setAdmin", name, admin)
}

// SetAdminUnsigned builds, without signing, a `setAdmin` transaction.
func (c *Contract) SetAdminUnsigned(name string, admin util.Uint160) (*transaction.Transaction, error) {
	return c.callUnsigned("setAdmin", name, admin)
}

// SetRecord broadcasts a `setRecord` call setting name's typ record to
// data.
func (c *Contract) SetRecord(name string, typ RecordType, data string) (util.Uint256, uint32, error) {
	return c.call("setRecord", name, int64(typ), data)
}

// SetRecordTransaction signs and returns, without broadcasting, a
// `setRecord` transaction.
func (c *Contract) SetRecordTransaction(name string, typ RecordType, data string) (*transaction.Transaction, error) {
	return c.callTransaction("setRecord", name, int64(typ), data)
}

// SetRecordUnsigned builds, without signing, a `setRecord`
// transaction.
func (c *Contract) SetRecordUnsigned(name string, typ RecordType, data string) (*transaction.Transaction, error) {
	return c.callUnsigned("setRecord", name, int64(typ), data)
}

// DeleteRecord broadcasts a `deleteRecord` call removing name's typ
// record.
func (c *Contract) DeleteRecord(name string, typ RecordType) (util.Uint256, uint32, error) {
	return c.call("deleteRecord", name, int64(typ))
}

// DeleteRecordTransaction signs and returns, without broadcasting, a
// `deleteRecord` transaction.
func (c *Contract) DeleteRecordTransaction(name string, typ RecordType) (*transaction.Transaction, error) {
	return c.callTransaction("deleteRecord", name, int64(typ))
}

// DeleteRecordUnsigned builds, without signing, a `deleteRecord`
// transaction.
func (c *Contract) DeleteRecordUnsigned(name string, typ RecordType) (*transaction.Transaction, error) {
	return c.callUnsigned("deleteRecord", name, int64(typ))
}

// Transfer broadcasts a `transfer` call moving ownership of the
// domain name token to to, the NEP-11 single-owner transfer NNS
// inherits as an NFT contract.
func (c *Contract) Transfer(to util.Uint160, name string, data interface{}) (util.Uint256, uint32, error) {
	return c.call("transfer", to, name, data)
}

// TransferTransaction signs and returns, without broadcasting, a
// `transfer` transaction.
func (c *Contract) TransferTransaction(to util.Uint160, name string, data interface{}) (*transaction.Transaction, error) {
	return c.callTransaction("transfer", to, name, data)
}

// TransferUnsigned builds, without signing, a `transfer` transaction.
func (c *Contract) TransferUnsigned(to util.Uint160, name string, data interface{}) (*transaction.Transaction, error) {
	return c.callUnsigned("transfer", to, name, data)
}
