package tracker

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Event is the `event` announce parameter (BEP-3).
type Event string

const (
	EventNone      Event = ""
	EventStarted   Event = "started"
	EventStopped   Event = "stopped"
	EventCompleted Event = "completed"
)

// Request holds the parameters of a single tracker announce. InfoHash
// and PeerID are raw 20-byte binary strings, not hex or base64 — they
// get percent-encoded directly, byte for byte, when the request is
// built.
type Request struct {
	InfoHash   [20]byte
	PeerID     [20]byte
	Port       uint16
	Uploaded   int64
	Downloaded int64
	Left       int64
	Compact    bool
	Event      Event
	IP         string // optional
	NumWant    *int64 // optional
	Key        string // optional
	TrackerID  string // optional
}

// Validate checks a Request for internally inconsistent or malformed
// fields before any network I/O is attempted.
func (r Request) Validate() error {
	if r.Port == 0 {
		return newErr(ErrInvalidRequest, "port must be nonzero", nil)
	}
	switch r.Event {
	case EventNone, EventStarted, EventStopped, EventCompleted:
	default:
		return newErr(ErrInvalidRequest, "unknown event "+string(r.Event), nil)
	}
	if r.IP != "" && net.ParseIP(r.IP) == nil {
		return newErr(ErrInvalidRequest, "invalid ip "+r.IP, nil)
	}
	if r.NumWant != nil && *r.NumWant < 0 {
		return newErr(ErrInvalidRequest, "numwant cannot be negative", nil)
	}
	return nil
}

// percentEncodeBinary percent-encodes every byte outside the RFC 3986
// unreserved set, which BEP-3 uses for info_hash and peer_id. It deliberately does not match net/url's QueryEscape
// rules (which treat space and a few other bytes differently), so
// info_hash and peer_id are percent-encoded by hand rather than
// passed through url.Values.
func percentEncodeBinary(b []byte) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for _, c := range b {
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '.' || c == '-' || c == '_' || c == '~' {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0x0f])
		}
	}
	return sb.String()
}

// Encode renders the request as a tracker announce query string,
// e.g. "info_hash=...&peer_id=...&compact=1&downloaded=0&left=...";
// the fields after peer_id come in url.Values' sorted key order. info_hash and
// peer_id are percent-encoded manually; every other field goes
// through url.Values, which is safe for them since they're ordinary
// ASCII. compact is always present (0 or 1); no_peer_id is added with
// an empty value whenever compact is off, never set by the caller
// directly.
func (r Request) Encode() string {
	compact := "0"
	if r.Compact {
		compact = "1"
	}
	values := url.Values{
		"port":       {strconv.Itoa(int(r.Port))},
		"uploaded":   {strconv.FormatInt(r.Uploaded, 10)},
		"downloaded": {strconv.FormatInt(r.Downloaded, 10)},
		"left":       {strconv.FormatInt(r.Left, 10)},
		"compact":    {compact},
	}
	if !r.Compact {
		values.Set("no_peer_id", "")
	}
	if r.Event != EventNone {
		values.Set("event", string(r.Event))
	}
	if r.IP != "" {
		values.Set("ip", r.IP)
	}
	if r.NumWant != nil {
		values.Set("numwant", strconv.FormatInt(*r.NumWant, 10))
	}
	if r.Key != "" {
		values.Set("key", r.Key)
	}
	if r.TrackerID != "" {
		values.Set("trackerid", r.TrackerID)
	}

	query := values.Encode()
	return "info_hash=" + percentEncodeBinary(r.InfoHash[:]) +
		"&peer_id=" + percentEncodeBinary(r.PeerID[:]) +
		"&" + query
}
