package tracker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torrentcore/tracker"
)

func TestRequestEncodePercentEncodesBinaryFields(t *testing.T) {
	req := tracker.Request{
		Port:     6881,
		Left:     100,
		Compact:  true,
		NumWant:  nil,
	}
	// bytes chosen to include both unreserved and reserved octets
	copy(req.InfoHash[:], []byte{0x00, 0x01, 0xff, 'a', 'b', 'c', '-', '.', '_', '~', 0x7f, 0x20, 0x2f, 0, 0, 0, 0, 0, 0, 0})
	copy(req.PeerID[:], []byte("-GO0001-123456789012"))

	encoded := req.Encode()
	assert.Contains(t, encoded, "info_hash=%00%01%FFabc-._~%7F%20%2F")
	assert.Contains(t, encoded, "peer_id=-GO0001-123456789012")
	assert.Contains(t, encoded, "compact=1")
	assert.Contains(t, encoded, "port=6881")
	assert.Contains(t, encoded, "left=100")
}

func TestRequestValidateRejectsZeroPort(t *testing.T) {
	req := tracker.Request{}
	err := req.Validate()
	require.Error(t, err)
	var tErr *tracker.Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, tracker.ErrInvalidRequest, tErr.Kind)
}

func TestRequestEncodeCompactAlwaysPresent(t *testing.T) {
	compact := tracker.Request{Port: 1, Compact: true}
	assert.Contains(t, compact.Encode(), "compact=1")
	assert.NotContains(t, compact.Encode(), "no_peer_id")

	notCompact := tracker.Request{Port: 1, Compact: false}
	encoded := notCompact.Encode()
	assert.Contains(t, encoded, "compact=0")
	assert.Contains(t, encoded, "no_peer_id=")
}

func TestAnnounceCompactPeers(t *testing.T) {
	// one peer, ip 1.2.3.4 port 0x1AE1 = 6881
	compact := []byte{1, 2, 3, 4, 0x1A, 0xE1}
	body := "d8:intervali1800e5:peers6:" + string(compact) + "e"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "info_hash=")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := tracker.NewClient()
	req := tracker.Request{Port: 6881, Left: 0, Compact: true}
	resp, err := client.Announce(context.Background(), srv.URL, req)
	require.NoError(t, err)
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, "1.2.3.4", resp.Peers[0].IP.String())
	assert.Equal(t, uint16(6881), resp.Peers[0].Port)
	assert.Equal(t, int64(1800), resp.Interval)
}

func TestAnnounceLegacyPeers(t *testing.T) {
	peerDict := "d2:ip7:5.6.7.87:peer id20:aaaaaaaaaaaaaaaaaaaa4:porti51413ee"
	body := "d8:intervali900e5:peersl" + peerDict + "ee"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := tracker.NewClient()
	req := tracker.Request{Port: 6881, Left: 0}
	resp, err := client.Announce(context.Background(), srv.URL, req)
	require.NoError(t, err)
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, "5.6.7.8", resp.Peers[0].IP.String())
	assert.Equal(t, uint16(51413), resp.Peers[0].Port)
}

func TestAnnounceLegacyPeerHostname(t *testing.T) {
	peerDict := "d2:ip19:tracker.example.com7:peer id20:aaaaaaaaaaaaaaaaaaaa4:porti6881ee"
	body := "d8:intervali900e5:peersl" + peerDict + "ee"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := tracker.NewClient()
	req := tracker.Request{Port: 6881, Left: 0}
	resp, err := client.Announce(context.Background(), srv.URL, req)
	require.NoError(t, err)
	require.Len(t, resp.Peers, 1)
	assert.Nil(t, resp.Peers[0].IP)
	assert.Equal(t, "tracker.example.com", resp.Peers[0].Host)
	assert.Equal(t, uint16(6881), resp.Peers[0].Port)
	assert.Equal(t, "tracker.example.com:6881", resp.Peers[0].String())
}

func TestAnnounceTrackerFailure(t *testing.T) {
	body := "d14:failure reason17:torrent not founde"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := tracker.NewClient()
	req := tracker.Request{Port: 6881}
	_, err := client.Announce(context.Background(), srv.URL, req)
	require.Error(t, err)
	var tErr *tracker.Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, tracker.ErrTrackerFailure, tErr.Kind)
	assert.Contains(t, tErr.Error(), "torrent not found")
}

func TestAnnounceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := tracker.NewClient()
	req := tracker.Request{Port: 6881}
	_, err := client.Announce(context.Background(), srv.URL, req)
	require.Error(t, err)
	var tErr *tracker.Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, tracker.ErrBadStatus, tErr.Kind)
}

func TestAnnounceNotBencode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not bencode at all"))
	}))
	defer srv.Close()

	client := tracker.NewClient()
	req := tracker.Request{Port: 6881}
	_, err := client.Announce(context.Background(), srv.URL, req)
	require.Error(t, err)
	var tErr *tracker.Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, tracker.ErrNotBencode, tErr.Kind)
}

func TestAnnounceBadCompactLength(t *testing.T) {
	body := "d8:intervali900e5:peers5:abcdee"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := tracker.NewClient()
	req := tracker.Request{Port: 6881}
	_, err := client.Announce(context.Background(), srv.URL, req)
	require.Error(t, err)
	var tErr *tracker.Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, tracker.ErrBadCompactLength, tErr.Kind)
}

func TestAnnounceContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("d8:intervali1e5:peers0:e"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := tracker.NewClient()
	req := tracker.Request{Port: 6881}
	_, err := client.Announce(ctx, srv.URL, req)
	require.Error(t, err)
	var tErr *tracker.Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, tracker.ErrCanceled, tErr.Kind)
}

func TestPeerString(t *testing.T) {
	compact := []byte{127, 0, 0, 1, 0x1F, 0x90}
	body := "d8:intervali1e5:peers6:" + string(compact) + "e"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := tracker.NewClient()
	resp, err := client.Announce(context.Background(), srv.URL, tracker.Request{Port: 1})
	require.NoError(t, err)
	require.Len(t, resp.Peers, 1)
	assert.True(t, strings.HasPrefix(resp.Peers[0].String(), "127.0.0.1:"))
}

func TestAnnounceFullResponseFields(t *testing.T) {
	peerBytes := []byte{0x02, 0x9c, 0xc9, 0xfe, 0xbf, 'C'}
	body := "d8:completei5e10:incompletei3e8:intervali15e12:min intervali10e5:peers6:" +
		string(peerBytes) + "e"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := tracker.NewClient()
	resp, err := client.Announce(context.Background(), srv.URL, tracker.Request{Port: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(15), resp.Interval)
	require.NotNil(t, resp.MinInterval)
	assert.Equal(t, int64(10), *resp.MinInterval)
	require.NotNil(t, resp.Complete)
	assert.Equal(t, int64(5), *resp.Complete)
	require.NotNil(t, resp.Incomplete)
	assert.Equal(t, int64(3), *resp.Incomplete)
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, "2.156.201.254", resp.Peers[0].IP.String())
}
