package tracker

import (
	"encoding/binary"
	"net"
	"strconv"

	"torrentcore/bencode"
)

// Peer is a single peer address decoded from either the compact
// (6-byte binary) or legacy (list of dicts) peer list format. A
// legacy entry's peer id is discarded — nothing downstream of the
// tracker needs it until the wire handshake, which is out of scope
// here. Compact entries and legacy entries with an IP literal set IP;
// legacy entries naming a DNS host set Host instead and leave IP nil —
// resolving it is left to the downstream peer subsystem.
type Peer struct {
	IP   net.IP
	Host string
	Port uint16
}

func (p Peer) String() string {
	host := p.Host
	if p.IP != nil {
		host = p.IP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(int(p.Port)))
}

// Response is the decoded result of a successful announce.
type Response struct {
	Interval       int64
	MinInterval    *int64
	TrackerID      string
	Complete       *int64
	Incomplete     *int64
	WarningMessage string
	Peers          []Peer
}

// decodeResponse turns a raw tracker announce body into a Response,
// or a tracker-signaled failure, or a malformed-response error.
func decodeResponse(body []byte) (*Response, error) {
	root, _, err := bencode.Decode(body)
	if err != nil {
		return nil, newErr(ErrNotBencode, "", err)
	}
	if root.Kind != bencode.Dict {
		return nil, newErr(ErrMalformedResponse, "root is not a dict", nil)
	}

	if reason, ok := root.Dict["failure reason"]; ok {
		if reason.Kind != bencode.ByteString {
			return nil, newErr(ErrMalformedResponse, "failure reason has wrong type", nil)
		}
		return nil, newErr(ErrTrackerFailure, reason.Str(), nil)
	}

	intervalVal, ok := root.Dict["interval"]
	if !ok || intervalVal.Kind != bencode.Integer {
		return nil, newErr(ErrMalformedResponse, "missing or malformed interval", nil)
	}

	resp := &Response{Interval: intervalVal.Int}

	if v, ok := root.Dict["min interval"]; ok && v.Kind == bencode.Integer {
		n := v.Int
		resp.MinInterval = &n
	}
	if v, ok := root.Dict["tracker id"]; ok && v.Kind == bencode.ByteString {
		resp.TrackerID = v.Str()
	}
	if v, ok := root.Dict["warning message"]; ok && v.Kind == bencode.ByteString {
		resp.WarningMessage = v.Str()
	}
	if v, ok := root.Dict["complete"]; ok && v.Kind == bencode.Integer {
		n := v.Int
		resp.Complete = &n
	}
	if v, ok := root.Dict["incomplete"]; ok && v.Kind == bencode.Integer {
		n := v.Int
		resp.Incomplete = &n
	}

	peersVal, ok := root.Dict["peers"]
	if !ok {
		return nil, newErr(ErrMalformedResponse, "missing peers", nil)
	}
	peers, err := decodePeers(peersVal)
	if err != nil {
		return nil, err
	}
	resp.Peers = peers
	return resp, nil
}

// decodePeers auto-detects compact (a single byte string, 6 bytes per
// peer) vs legacy (a list of {ip, port, peer id} dicts) encodings.
func decodePeers(v *bencode.Value) ([]Peer, error) {
	switch v.Kind {
	case bencode.ByteString:
		return decodeCompactPeers(v.Bytes)
	case bencode.List:
		return decodeLegacyPeers(v.List)
	default:
		return nil, newErr(ErrMalformedResponse, "peers has wrong type", nil)
	}
}

const compactPeerSize = 6

func decodeCompactPeers(data []byte) ([]Peer, error) {
	if len(data)%compactPeerSize != 0 {
		return nil, newErr(ErrBadCompactLength, "length not a multiple of 6", nil)
	}
	n := len(data) / compactPeerSize
	peers := make([]Peer, n)
	for i := 0; i < n; i++ {
		offset := i * compactPeerSize
		ip := make(net.IP, 4)
		copy(ip, data[offset:offset+4])
		peers[i] = Peer{
			IP:   ip,
			Port: binary.BigEndian.Uint16(data[offset+4 : offset+6]),
		}
	}
	return peers, nil
}

func decodeLegacyPeers(list []*bencode.Value) ([]Peer, error) {
	peers := make([]Peer, 0, len(list))
	for _, entry := range list {
		if entry.Kind != bencode.Dict {
			return nil, newErr(ErrMalformedResponse, "peer entry is not a dict", nil)
		}
		ipVal, ok := entry.Dict["ip"]
		if !ok || ipVal.Kind != bencode.ByteString {
			return nil, newErr(ErrMalformedResponse, "peer entry missing ip", nil)
		}
		portVal, ok := entry.Dict["port"]
		if !ok || portVal.Kind != bencode.Integer {
			return nil, newErr(ErrMalformedResponse, "peer entry missing port", nil)
		}
		// ip may be an IPv4/IPv6 literal or a DNS hostname; a hostname
		// is valid tracker output and is left for the downstream peer
		// subsystem to resolve rather than rejected here.
		ip := net.ParseIP(ipVal.Str())
		peer := Peer{Port: uint16(portVal.Int)}
		if ip != nil {
			peer.IP = ip
		} else {
			peer.Host = ipVal.Str()
		}
		peers = append(peers, peer)
	}
	return peers, nil
}
