// Package rpcclient implements a polling JSON-RPC 2.0 client for Neo
// N3 nodes, covering the read/write method surface a wallet, indexer,
// or contract-binding caller needs without depending on a full P2P
// node implementation.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient/cache"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Options configures a Client. It is YAML-taggable so an operator can
// drive it from the same config file as the rest of the SDK's ambient
// stack.
type Options struct {
	// DialTimeout is the HTTP client's dial timeout; zero uses a
	// reasonable default.
	DialTimeout time.Duration `yaml:"dial_timeout"`
	// RequestTimeout bounds a single RPC call.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// Cache configures the response cache; a zero-value Config
	// disables caching.
	Cache cache.Config `yaml:"cache"`
	// Logger receives wire-traffic and lifecycle logs; defaults to a
	// no-op logger.
	Logger *zap.Logger `yaml:"-"`
}

var errNetworkNotInitialized = errors.New("rpcclient: call Init before using the client")

// Cache TTLs for the response classes the client distinguishes:
// immutable results (blocks, confirmed transactions) are cached far
// longer than results that can change from one block to the next.
const (
	immutableCacheTTL     = time.Hour
	balanceCacheTTL       = 10 * time.Second
	contractStateCacheTTL = 60 * time.Second
)

// Client is a polling JSON-RPC 2.0 transport against a single Neo N3
// node.
type Client struct {
	ctx        context.Context
	endpoint   *url.URL
	http       *http.Client
	cache      *cache.Cache
	log        *zap.Logger
	requestID  int64

	// transport performs a single JSON-RPC round trip and returns the
	// decoded result payload (or the RPC/transport error). It defaults
	// to an HTTP POST to endpoint; wsclient.WSClient overrides it to
	// multiplex calls over a single persistent connection, letting it
	// reuse every method below unchanged.
	transport func(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)

	initMu  sync.Mutex
	version *result.Version
}

// New constructs a Client against endpoint without contacting the
// node; call Init before using any method that needs network magic.
func New(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: invalid endpoint: %w", err)
	}
	dialTimeout := opts.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 10 * time.Second
	}
	reqTimeout := opts.RequestTimeout
	if reqTimeout == 0 {
		reqTimeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cacheCfg := opts.Cache
	if cacheCfg.MaxEntries == 0 {
		cacheCfg = cache.DefaultConfig
	}
	c, err := cache.New(cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: cache init: %w", err)
	}
	httpClient := &http.Client{
		Timeout: reqTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: dialTimeout}).DialContext,
		},
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cl := &Client{ctx: ctx, endpoint: u, http: httpClient, cache: c, log: logger}
	cl.transport = cl.httpTransport
	return cl, nil
}

// Call performs an arbitrary JSON-RPC method call, decoding its result
// into out; wsclient.WSClient uses this for subscribe/unsubscribe,
// which have no dedicated Client method of their own.
func (c *Client) Call(method string, out interface{}, params ...interface{}) error {
	return c.call(method, out, params...)
}

// SetTransport overrides how Client performs a single JSON-RPC round
// trip; wsclient.WSClient uses this to multiplex calls over one
// persistent connection instead of issuing one HTTP POST per call, so
// it can reuse every method below unchanged.
func (c *Client) SetTransport(f func(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)) {
	c.transport = f
}

// Endpoint returns the node URL this Client was built against.
func (c *Client) Endpoint() string { return c.endpoint.String() }

// Context returns the context this Client was constructed with, used
// by Actor/Waiter to bound how long they wait for a transaction to be
// accepted.
func (c *Client) Context() context.Context { return c.ctx }

// Init fetches the node's getversion response and caches its protocol
// parameters (network magic, address version) for use by Signer
// validation and transaction building elsewhere in the SDK.
func (c *Client) Init() error {
	v, err := c.GetVersion()
	if err != nil {
		return fmt.Errorf("rpcclient: init: %w", err)
	}
	c.initMu.Lock()
	c.version = v
	c.initMu.Unlock()
	c.log.Info("client initialized", zap.Uint32("network", v.Protocol.Network), zap.String("useragent", v.UserAgent))
	return nil
}

// NetworkMagic returns the node's network magic, as fetched by Init.
func (c *Client) NetworkMagic() (uint32, error) {
	c.initMu.Lock()
	defer c.initMu.Unlock()
	if c.version == nil {
		return 0, errNetworkNotInitialized
	}
	return c.version.Protocol.Network, nil
}

// Ping checks liveness by calling getblockcount.
func (c *Client) Ping() error {
	_, err := c.GetBlockCount()
	return err
}

// Close stops the response cache's background cleanup sweep. It does
// not close any underlying HTTP connections, which the standard
// library's transport pools and reuses on its own.
func (c *Client) Close() {
	c.cache.Close()
}

func (c *Client) nextID() int64 { return atomic.AddInt64(&c.requestID, 1) }

// call performs a single JSON-RPC round trip, decoding result into out
// (a pointer) on success.
func (c *Client) call(method string, out interface{}, params ...interface{}) error {
	return c.callCtx(context.Background(), method, out, params...)
}

func (c *Client) callCtx(ctx context.Context, method string, out interface{}, params ...interface{}) error {
	raw, err := c.transport(ctx, method, params...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("rpcclient: %s: decoding result: %w", method, err)
	}
	return nil
}

// httpTransport is the default transport: one HTTP POST per call.
func (c *Client) httpTransport(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	req, err := neorpc.NewRequest(c.nextID(), method, params...)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug("rpc request", zap.String("method", method), zap.ByteString("body", body))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error("rpc transport error", zap.String("method", method), zap.Error(err))
		return nil, fmt.Errorf("rpcclient: %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: %s: reading response: %w", method, err)
	}
	c.log.Debug("rpc response", zap.String("method", method), zap.ByteString("body", data))

	var rpcResp neorpc.Response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, fmt.Errorf("rpcclient: %s: decoding response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// cachedCall caches fetch's result under key. A ttl of zero uses the
// cache's configured DefaultTTL; callers with their own notion of how
// long a result stays valid (immutable blocks and transactions,
// quickly-changing balances and contract state) pass an explicit one.
func (c *Client) cachedCall(key string, ttl time.Duration, out interface{}, fetch func() (interface{}, error)) error {
	if v, ok := c.cache.Get(key); ok {
		return assignCached(out, v)
	}
	v, err := fetch()
	if err != nil {
		return err
	}
	if ttl <= 0 {
		c.cache.Set(key, v)
	} else {
		c.cache.SetTTL(key, v, ttl)
	}
	return assignCached(out, v)
}

func assignCached(out, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// GetVersion calls getversion.
func (c *Client) GetVersion() (*result.Version, error) {
	v := new(result.Version)
	if err := c.call("getversion", v); err != nil {
		return nil, err
	}
	return v, nil
}

// GetBlockCount calls getblockcount.
func (c *Client) GetBlockCount() (uint32, error) {
	var n uint32
	if err := c.call("getblockcount", &n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetBlockHash calls getblockhash for the given height.
func (c *Client) GetBlockHash(index uint32) (util.Uint256, error) {
	var h util.Uint256
	if err := c.call("getblockhash", &h, index); err != nil {
		return util.Uint256{}, err
	}
	return h, nil
}

// GetBlock calls getblock with verbose=true for the given block hash,
// returning the fully decoded block. A block is immutable once it can
// be fetched by hash, so the result is cached for an hour.
func (c *Client) GetBlock(hash util.Uint256) (*result.Block, error) {
	b := &result.Block{}
	err := c.cachedCall("getblock:"+hash.StringBE(), immutableCacheTTL, b, func() (interface{}, error) {
		v := &result.Block{}
		if err := c.call("getblock", v, hash.StringBE(), true); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBlockByIndex is GetBlock addressed by height instead of hash.
func (c *Client) GetBlockByIndex(index uint32) (*result.Block, error) {
	b := &result.Block{}
	err := c.cachedCall(fmt.Sprintf("getblock:#%d", index), immutableCacheTTL, b, func() (interface{}, error) {
		v := &result.Block{}
		if err := c.call("getblock", v, index, true); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBlockHeader calls getblockheader with verbose=true for the given
// block hash. Headers are immutable for the same reason blocks are, so
// the result is cached for an hour.
func (c *Client) GetBlockHeader(hash util.Uint256) (*result.Header, error) {
	h := &result.Header{}
	err := c.cachedCall("getblockheader:"+hash.StringBE(), immutableCacheTTL, h, func() (interface{}, error) {
		v := &result.Header{}
		if err := c.call("getblockheader", v, hash.StringBE(), true); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetRawTransaction calls getrawtransaction with verbose=true and
// returns the raw bytes of the transaction plus its decoded form. A
// confirmed transaction never changes, so the decoded result is cached
// for an hour; an unconfirmed (mempool-only) transaction is fetched
// fresh every time by virtue of not yet being cacheable under this key
// until its first successful confirmed lookup.
func (c *Client) GetRawTransaction(hash util.Uint256) (*transaction.Transaction, error) {
	key := "getrawtransaction:" + hash.StringBE()
	raw, err := c.getRawTransactionBase64(key, hash)
	if err != nil {
		return nil, err
	}
	b, err := decodeBase64(raw)
	if err != nil {
		return nil, err
	}
	return transaction.NewTransactionFromBytes(b)
}

func (c *Client) getRawTransactionBase64(key string, hash util.Uint256) (string, error) {
	if v, ok := c.cache.Get(key); ok {
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("rpcclient: cached %s entry has unexpected type %T", key, v)
		}
		return s, nil
	}
	var raw string
	if err := c.call("getrawtransaction", &raw, hash.StringBE(), 0); err != nil {
		return "", err
	}
	c.cache.SetTTL(key, raw, immutableCacheTTL)
	return raw, nil
}

// GetTransactionHeight calls gettransactionheight.
func (c *Client) GetTransactionHeight(hash util.Uint256) (uint32, error) {
	var h uint32
	if err := c.call("gettransactionheight", &h, hash.StringBE()); err != nil {
		return 0, err
	}
	return h, nil
}

// GetRawMemPool calls getrawmempool; the result is cached and
// invalidated by SendRawTransaction, since a just-sent transaction
// would otherwise be invisible until the cache entry's TTL expires.
func (c *Client) GetRawMemPool() ([]util.Uint256, error) {
	var hashes []util.Uint256
	err := c.cachedCall("getrawmempool", 0, &hashes, func() (interface{}, error) {
		var v []util.Uint256
		if err := c.call("getrawmempool", &v); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

// ValidateAddress calls validateaddress.
func (c *Client) ValidateAddress(addr string) (bool, error) {
	var reply struct {
		Address string `json:"address"`
		IsValid bool   `json:"isvalid"`
	}
	if err := c.call("validateaddress", &reply, addr); err != nil {
		return false, err
	}
	return reply.IsValid, nil
}

// GetCommittee calls getcommittee.
func (c *Client) GetCommittee() ([]string, error) {
	var pks []string
	if err := c.call("getcommittee", &pks); err != nil {
		return nil, err
	}
	return pks, nil
}

// GetNextBlockValidators calls getnextblockvalidators.
func (c *Client) GetNextBlockValidators() ([]result.Validator, error) {
	var vs []result.Validator
	if err := c.call("getnextblockvalidators", &vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// GetCandidates calls getcandidates.
func (c *Client) GetCandidates() ([]result.Validator, error) {
	var vs []result.Validator
	if err := c.call("getcandidates", &vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// GetPeers calls getpeers.
func (c *Client) GetPeers() (*result.GetPeers, error) {
	gp := new(result.GetPeers)
	if err := c.call("getpeers", gp); err != nil {
		return nil, err
	}
	return gp, nil
}

// GetApplicationLog calls getapplicationlog for a transaction or block
// hash, optionally scoped to a single trigger.
func (c *Client) GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error) {
	params := []interface{}{hash.StringBE()}
	if trig != nil {
		params = append(params, trig.String())
	}
	log := new(result.ApplicationLog)
	if err := c.call("getapplicationlog", log, params...); err != nil {
		return nil, err
	}
	return log, nil
}

// InvokeFunction calls invokefunction.
func (c *Client) InvokeFunction(contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error) {
	ps := params
	if ps == nil {
		ps = []smartcontract.Parameter{}
	}
	inv := new(result.Invoke)
	if err := c.call("invokefunction", inv, contract.StringBE(), operation, ps, signersToWire(signers)); err != nil {
		return nil, err
	}
	return inv, nil
}

// InvokeScript calls invokescript.
func (c *Client) InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	inv := new(result.Invoke)
	if err := c.call("invokescript", inv, encodeBase64(script), signersToWire(signers)); err != nil {
		return nil, err
	}
	return inv, nil
}

// InvokeContractVerify calls invokecontractverify.
func (c *Client) InvokeContractVerify(contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	ps := params
	if ps == nil {
		ps = []smartcontract.Parameter{}
	}
	inv := new(result.Invoke)
	if err := c.call("invokecontractverify", inv, contract.StringBE(), ps, signersWithWitnesses(signers, witnesses)); err != nil {
		return nil, err
	}
	return inv, nil
}

// InvokeFunctionAtBlock calls invokefunction with the invocation
// pinned to the state as of the given block hash.
func (c *Client) InvokeFunctionAtBlock(block util.Uint256, contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error) {
	return c.invokeFunctionHistoric(block.StringBE(), contract, operation, params, signers)
}

// InvokeFunctionAtHeight calls invokefunction with the invocation
// pinned to the state as of the given block height.
func (c *Client) InvokeFunctionAtHeight(height uint32, contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error) {
	return c.invokeFunctionHistoric(height, contract, operation, params, signers)
}

// InvokeFunctionWithState calls invokefunction with the invocation
// pinned to the given MPT state root.
func (c *Client) InvokeFunctionWithState(root util.Uint256, contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error) {
	return c.invokeFunctionHistoric(root.StringBE(), contract, operation, params, signers)
}

func (c *Client) invokeFunctionHistoric(at interface{}, contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error) {
	ps := params
	if ps == nil {
		ps = []smartcontract.Parameter{}
	}
	inv := new(result.Invoke)
	if err := c.call("invokefunctionhistoric", inv, at, contract.StringBE(), operation, ps, signersToWire(signers)); err != nil {
		return nil, err
	}
	return inv, nil
}

// InvokeScriptAtBlock calls invokescript pinned to the given block
// hash.
func (c *Client) InvokeScriptAtBlock(block util.Uint256, script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	return c.invokeScriptHistoric(block.StringBE(), script, signers)
}

// InvokeScriptAtHeight calls invokescript pinned to the given block
// height.
func (c *Client) InvokeScriptAtHeight(height uint32, script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	return c.invokeScriptHistoric(height, script, signers)
}

// InvokeScriptWithState calls invokescript pinned to the given MPT
// state root.
func (c *Client) InvokeScriptWithState(root util.Uint256, script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	return c.invokeScriptHistoric(root.StringBE(), script, signers)
}

func (c *Client) invokeScriptHistoric(at interface{}, script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	inv := new(result.Invoke)
	if err := c.call("invokescripthistoric", inv, at, encodeBase64(script), signersToWire(signers)); err != nil {
		return nil, err
	}
	return inv, nil
}

// InvokeContractVerifyAtBlock calls invokecontractverify pinned to the
// given block hash.
func (c *Client) InvokeContractVerifyAtBlock(block util.Uint256, contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	return c.invokeContractVerifyHistoric(block.StringBE(), contract, params, signers, witnesses)
}

// InvokeContractVerifyAtHeight calls invokecontractverify pinned to
// the given block height.
func (c *Client) InvokeContractVerifyAtHeight(height uint32, contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	return c.invokeContractVerifyHistoric(height, contract, params, signers, witnesses)
}

// InvokeContractVerifyWithState calls invokecontractverify pinned to
// the given MPT state root.
func (c *Client) InvokeContractVerifyWithState(root util.Uint256, contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	return c.invokeContractVerifyHistoric(root.StringBE(), contract, params, signers, witnesses)
}

func (c *Client) invokeContractVerifyHistoric(at interface{}, contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses []transaction.Witness) (*result.Invoke, error) {
	ps := params
	if ps == nil {
		ps = []smartcontract.Parameter{}
	}
	inv := new(result.Invoke)
	if err := c.call("invokecontractverifyhistoric", inv, at, contract.StringBE(), ps, signersWithWitnesses(signers, witnesses)); err != nil {
		return nil, err
	}
	return inv, nil
}

func signersToWire(signers []transaction.Signer) []neorpc.SignerWithWitness {
	out := make([]neorpc.SignerWithWitness, len(signers))
	for i, s := range signers {
		out[i] = neorpc.SignerWithWitness{Signer: s}
	}
	return out
}

func signersWithWitnesses(signers []transaction.Signer, witnesses []transaction.Witness) []neorpc.SignerWithWitness {
	out := make([]neorpc.SignerWithWitness, len(signers))
	for i, s := range signers {
		sw := neorpc.SignerWithWitness{Signer: s}
		if i < len(witnesses) {
			sw.Witness = witnesses[i]
		}
		out[i] = sw
	}
	return out
}

// SendRawTransaction calls sendrawtransaction and invalidates the
// mempool/application-log cache entries it could otherwise mask.
func (c *Client) SendRawTransaction(tx *transaction.Transaction) (util.Uint256, error) {
	b, err := tx.Bytes()
	if err != nil {
		return util.Uint256{}, err
	}
	var reply struct {
		Hash util.Uint256 `json:"hash"`
	}
	if err := c.call("sendrawtransaction", &reply, encodeBase64(b)); err != nil {
		return util.Uint256{}, err
	}
	c.cache.Invalidate("getrawmempool")
	return reply.Hash, nil
}

// CalculateNetworkFee calls calculatenetworkfee for a not-yet-signed
// transaction, returning the network fee a fully-witnessed version of
// it would need.
func (c *Client) CalculateNetworkFee(tx *transaction.Transaction) (int64, error) {
	b, err := tx.Bytes()
	if err != nil {
		return 0, err
	}
	var reply struct {
		Fee string `json:"networkfee"`
	}
	if err := c.call("calculatenetworkfee", &reply, encodeBase64(b)); err != nil {
		return 0, err
	}
	var fee int64
	if _, err := fmt.Sscanf(reply.Fee, "%d", &fee); err != nil {
		return 0, fmt.Errorf("rpcclient: invalid networkfee: %w", err)
	}
	return fee, nil
}

// GetContractState calls getcontractstate by script hash or name. The
// result is cached for a minute: long enough to spare a hot path
// repeated lookups, short enough that a contract update (a rare but
// real possibility for non-NEF-locked contracts) is picked up quickly.
func (c *Client) GetContractState(id string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.cachedCall("getcontractstate:"+id, contractStateCacheTTL, &raw, func() (interface{}, error) {
		var v json.RawMessage
		if err := c.call("getcontractstate", &v, id); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// GetNEP17Balances calls getnep17balances.
func (c *Client) GetNEP17Balances(account util.Uint160) (*result.NEP17Balances, error) {
	out := new(result.NEP17Balances)
	err := c.cachedCall("getnep17balances:"+account.StringBE(), balanceCacheTTL, out, func() (interface{}, error) {
		v := new(result.NEP17Balances)
		if err := c.call("getnep17balances", v, account.StringBE()); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetNEP17Transfers calls getnep17transfers, optionally bounded by a
// Unix-timestamp window.
func (c *Client) GetNEP17Transfers(account util.Uint160, from, to *time.Time) (*result.NEP17Transfers, error) {
	params := []interface{}{account.StringBE()}
	if from != nil {
		params = append(params, strconv.FormatInt(from.Unix(), 10))
	}
	if to != nil {
		params = append(params, strconv.FormatInt(to.Unix(), 10))
	}
	out := new(result.NEP17Transfers)
	if err := c.call("getnep17transfers", out, params...); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeBase64(b []byte) string            { return base64.StdEncoding.EncodeToString(b) }
func decodeBase64(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }
