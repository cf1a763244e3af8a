package result

import (
	"encoding/json"
	"errors"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// errProtocolTooOld is returned when a getversion response predates
// the protocol.initialgasdistribution field this SDK requires.
var errProtocolTooOld = errors.New("result: node's RPC server is too old (missing protocol.initialgasdistribution)")

// Hardfork names the protocol activation heights a node reports.
type Hardfork string

// The hardforks the protocol has defined so far.
const (
	HFAspidochelone Hardfork = "HF_Aspidochelone"
	HFBasilisk      Hardfork = "HF_Basilisk"
	HFCockatrice    Hardfork = "HF_Cockatrice"
	HFDomovoi       Hardfork = "HF_Domovoi"
	HFEchidna       Hardfork = "HF_Echidna"
)

// Protocol is the static chain-parameter portion of a getversion reply.
type Protocol struct {
	AddressVersion              byte
	Network                     uint32
	MillisecondsPerBlock         uint32
	MaxTraceableBlocks          uint32
	MaxValidUntilBlockIncrement uint32
	MaxTransactionsPerBlock     uint32
	MemoryPoolMaxTransactions   int
	ValidatorsCount             byte
	InitialGasDistribution      util.Fixed8
	Hardforks                   map[Hardfork]uint32
	StandbyCommittee            keys.PublicKeys
	SeedList                    []string
	// ValidatorsHistory maps a block height to the validator count
	// active from that height on, letting CalculateValidUntilBlock
	// pick the right count even across a committee-size change.
	// Absent from the node's own wire response (there is no RPC field
	// for it); populated locally by callers who already know their
	// chain's history, with height 0 falling back to ValidatorsCount.
	ValidatorsHistory map[uint32]uint32
}

type protocolJSON struct {
	AddressVersion              byte              `json:"addressversion"`
	Network                     uint32            `json:"network"`
	MillisecondsPerBlock        uint32            `json:"msperblock"`
	MaxTraceableBlocks          uint32            `json:"maxtraceableblocks"`
	MaxValidUntilBlockIncrement uint32            `json:"maxvaliduntilblockincrement"`
	MaxTransactionsPerBlock     uint32            `json:"maxtransactionsperblock"`
	MemoryPoolMaxTransactions   int               `json:"memorypoolmaxtransactions"`
	ValidatorsCount             byte              `json:"validatorscount"`
	InitialGasDistribution      json.RawMessage   `json:"initialgasdistribution"`
	Hardforks                   []hardforkJSON    `json:"hardforks,omitempty"`
	StandbyCommittee            []string          `json:"standbycommittee,omitempty"`
	SeedList                    []string          `json:"seedlist,omitempty"`
}

type hardforkJSON struct {
	Name        string `json:"name"`
	BlockHeight uint32 `json:"blockheight"`
}

// MarshalJSON renders the Protocol in the current (non-legacy) wire
// shape: InitialGasDistribution as a raw integer, not a decimal
// string.
func (p Protocol) MarshalJSON() ([]byte, error) {
	raw := protocolJSON{
		AddressVersion:              p.AddressVersion,
		Network:                     p.Network,
		MillisecondsPerBlock:        p.MillisecondsPerBlock,
		MaxTraceableBlocks:          p.MaxTraceableBlocks,
		MaxValidUntilBlockIncrement: p.MaxValidUntilBlockIncrement,
		MaxTransactionsPerBlock:     p.MaxTransactionsPerBlock,
		MemoryPoolMaxTransactions:   p.MemoryPoolMaxTransactions,
		ValidatorsCount:             p.ValidatorsCount,
		InitialGasDistribution:      []byte(p.InitialGasDistribution.String()),
		SeedList:                    p.SeedList,
	}
	for name, h := range p.Hardforks {
		raw.Hardforks = append(raw.Hardforks, hardforkJSON{strippedHFName(name), h})
	}
	for _, pk := range p.StandbyCommittee {
		raw.StandbyCommittee = append(raw.StandbyCommittee, pk.String())
	}
	return json.Marshal(raw)
}

func strippedHFName(h Hardfork) string {
	s := string(h)
	if len(s) > 3 && s[:3] == "HF_" {
		return s[3:]
	}
	return s
}

// UnmarshalJSON accepts both the Go-node and C#-node hardfork name
// spellings ("Aspidochelone" vs "HF_Aspidochelone") and both the old
// (decimal-string Fixed8) and new (raw integer) InitialGasDistribution
// encodings, erroring on the legacy responseFromGoOld shape that omits
// InitialGasDistribution and RPC/Application sections entirely.
func (p *Protocol) UnmarshalJSON(data []byte) error {
	var raw protocolJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.InitialGasDistribution) == 0 {
		return errProtocolTooOld
	}
	var gas util.Fixed8
	if err := gas.UnmarshalJSON(raw.InitialGasDistribution); err != nil {
		return err
	}
	p.AddressVersion = raw.AddressVersion
	p.Network = raw.Network
	p.MillisecondsPerBlock = raw.MillisecondsPerBlock
	p.MaxTraceableBlocks = raw.MaxTraceableBlocks
	p.MaxValidUntilBlockIncrement = raw.MaxValidUntilBlockIncrement
	p.MaxTransactionsPerBlock = raw.MaxTransactionsPerBlock
	p.MemoryPoolMaxTransactions = raw.MemoryPoolMaxTransactions
	p.ValidatorsCount = raw.ValidatorsCount
	p.InitialGasDistribution = gas
	p.SeedList = raw.SeedList
	if raw.Hardforks != nil {
		p.Hardforks = make(map[Hardfork]uint32, len(raw.Hardforks))
		for _, hf := range raw.Hardforks {
			name := hf.Name
			if len(name) < 3 || name[:3] != "HF_" {
				name = "HF_" + name
			}
			p.Hardforks[Hardfork(name)] = hf.BlockHeight
		}
	}
	if raw.StandbyCommittee != nil {
		pks, err := keys.NewPublicKeysFromStrings(raw.StandbyCommittee)
		if err != nil {
			return err
		}
		p.StandbyCommittee = pks
	}
	return nil
}

// RPC describes the node's RPC-server capabilities.
type RPC struct {
	MaxIteratorResultItems  int  `json:"maxiteratorresultitems"`
	SessionEnabled          bool `json:"sessionenabled"`
	SessionExpansionEnabled bool `json:"sessionbackedbympt,omitempty"`
}

// Application describes optional NeoGo-specific node extensions.
type Application struct {
	SaveInvocations         bool `json:"saveinvocations,omitempty"`
	KeepOnlyLatestState     bool `json:"keeponlylateststate,omitempty"`
	RemoveUntraceableBlocks bool `json:"removeuntraceableblocks,omitempty"`
}

// Version is the getversion RPC result.
type Version struct {
	TCPPort     uint16
	WSPort      uint16
	Nonce       uint32
	UserAgent   string
	RPC         RPC
	Protocol    Protocol
	Application Application
}

type versionJSON struct {
	TCPPort     uint16       `json:"tcpport,omitempty"`
	WSPort      uint16       `json:"wsport,omitempty"`
	Nonce       uint32       `json:"nonce"`
	UserAgent   string       `json:"useragent"`
	RPC         RPC          `json:"rpc"`
	Protocol    Protocol     `json:"protocol"`
	Application *Application `json:"application,omitempty"`
}

// MarshalJSON renders the Version in its RPC wire shape.
func (v Version) MarshalJSON() ([]byte, error) {
	raw := versionJSON{v.TCPPort, v.WSPort, v.Nonce, v.UserAgent, v.RPC, v.Protocol, nil}
	if v.Application != (Application{}) {
		raw.Application = &v.Application
	}
	return json.Marshal(raw)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Version) UnmarshalJSON(data []byte) error {
	var raw versionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.TCPPort = raw.TCPPort
	v.WSPort = raw.WSPort
	v.Nonce = raw.Nonce
	v.UserAgent = raw.UserAgent
	v.RPC = raw.RPC
	v.Protocol = raw.Protocol
	if raw.Application != nil {
		v.Application = *raw.Application
	} else {
		v.Application = Application{}
	}
	return nil
}
