package result

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
)

// Peer is one entry of a getpeers reply's unconnected/bad lists: a bare
// address the node knows about but is not (or was not) connected to.
type Peer struct {
	Address string
	Port    uint16
}

// ConnectedPeer is one entry of a getpeers reply's connected list,
// additionally carrying the remote node's advertised identity.
type ConnectedPeer struct {
	Peer
	UserAgent       string
	LastKnownHeight uint32
}

// GetPeers is the getpeers RPC result.
type GetPeers struct {
	Unconnected []Peer
	Connected   []ConnectedPeer
	Bad         []Peer
}

// NewGetPeers returns an empty GetPeers.
func NewGetPeers() GetPeers { return GetPeers{} }

func splitHostPort(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 0, nil //nolint:nilerr // bare host, no port known yet
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return host, 0, err
	}
	return host, uint16(port), nil
}

// AddUnconnected appends addresses (host:port form) to Unconnected.
func (p *GetPeers) AddUnconnected(addrs []string) { p.Unconnected = append(p.Unconnected, toPeers(addrs)...) }

// AddBad appends addresses to Bad.
func (p *GetPeers) AddBad(addrs []string) { p.Bad = append(p.Bad, toPeers(addrs)...) }

func toPeers(addrs []string) []Peer {
	out := make([]Peer, 0, len(addrs))
	for _, a := range addrs {
		host, port, err := splitHostPort(a)
		if err != nil {
			continue
		}
		out = append(out, Peer{Address: host, Port: port})
	}
	return out
}

// PeerInfo is the minimal shape of a connected-peer descriptor, enough
// to build a ConnectedPeer without depending on a full P2P stack.
type PeerInfo struct {
	Address   string
	UserAgent string
	Height    uint32
}

// AddConnected appends peers (already split into host/port-bearing
// PeerInfo values) to Connected, tolerating addresses net.SplitHostPort
// cannot parse (e.g. a malformed bracketed IPv6 literal) by skipping
// them, matching the node's own defensive getpeers handler.
func (p *GetPeers) AddConnected(peers []PeerInfo) {
	for _, pi := range peers {
		host, port, err := splitHostPort(pi.Address)
		if err != nil {
			continue
		}
		p.Connected = append(p.Connected, ConnectedPeer{
			Peer:            Peer{Address: host, Port: port},
			UserAgent:       pi.UserAgent,
			LastKnownHeight: pi.Height,
		})
	}
}

type peerJSON struct {
	Address string          `json:"address"`
	Port    json.RawMessage `json:"port"`
}

func (p Peer) MarshalJSON() ([]byte, error) {
	return json.Marshal(peerJSON{p.Address, []byte(strconv.Itoa(int(p.Port)))})
}

func (p *Peer) UnmarshalJSON(data []byte) error {
	var raw peerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Address = raw.Address
	var portNum int
	if err := json.Unmarshal(raw.Port, &portNum); err == nil {
		if portNum < 0 || portNum > 0xffff {
			return fmt.Errorf("result: port out of range: %d", portNum)
		}
		p.Port = uint16(portNum)
		return nil
	}
	var portStr string
	if err := json.Unmarshal(raw.Port, &portStr); err != nil {
		return fmt.Errorf("result: invalid port: %s", raw.Port)
	}
	v, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return fmt.Errorf("result: invalid port %q: %w", portStr, err)
	}
	p.Port = uint16(v)
	return nil
}

type connectedPeerJSON struct {
	Address         string          `json:"address"`
	Port            json.RawMessage `json:"port"`
	UserAgent       string          `json:"useragent,omitempty"`
	LastKnownHeight uint32          `json:"lastknownheight,omitempty"`
}

func (p ConnectedPeer) MarshalJSON() ([]byte, error) {
	return json.Marshal(connectedPeerJSON{p.Address, []byte(strconv.Itoa(int(p.Port))), p.UserAgent, p.LastKnownHeight})
}

func (p *ConnectedPeer) UnmarshalJSON(data []byte) error {
	var raw connectedPeerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var bare Peer
	if err := bare.UnmarshalJSON(data); err != nil {
		return err
	}
	p.Peer = bare
	p.UserAgent = raw.UserAgent
	p.LastKnownHeight = raw.LastKnownHeight
	return nil
}
