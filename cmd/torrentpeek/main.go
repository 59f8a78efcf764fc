// Command torrentpeek opens a .torrent file, prints its info-hash,
// announces once to its tracker, and prints the peers that come back.
// It does not handshake peers, download pieces, or write anything to
// disk — that remains downstream, out of scope here.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"time"

	"torrentcore/metainfo"
	"torrentcore/tracker"
)

var (
	timeout = flag.Duration("timeout", 30*time.Second, "tracker announce timeout")
	port    = flag.Uint("port", 6881, "port to advertise in the announce request")
)

func generatePeerID() [20]byte {
	var id [20]byte
	copy(id[:], "-TC0001-")
	rand.Read(id[8:])
	return id
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		log.Fatal("usage: torrentpeek <path-to-torrent-file>")
	}

	tf, err := metainfo.Open(args[0])
	if err != nil {
		log.Fatalf("parsing torrent file: %v", err)
	}
	fmt.Printf("name:      %s\n", tf.Info.Name())
	fmt.Printf("info hash: %s\n", tf.InfoHash.HashString())
	fmt.Printf("size:      %d bytes\n", tf.Info.TotalLength())
	fmt.Printf("pieces:    %d\n", tf.Info.NumPieces())

	client := tracker.NewClient(tracker.WithTimeout(*timeout))
	req := tracker.Request{
		InfoHash: tf.InfoHash,
		PeerID:   generatePeerID(),
		Port:     uint16(*port),
		Left:     tf.Info.TotalLength(),
		Compact:  true,
		Event:    tracker.EventStarted,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := client.Announce(ctx, tf.Announce, req)
	if err != nil {
		log.Fatalf("announce failed: %v", err)
	}

	fmt.Printf("interval:  %d seconds\n", resp.Interval)
	fmt.Printf("peers (%d):\n", len(resp.Peers))
	for _, p := range resp.Peers {
		fmt.Printf("  %s\n", p.String())
	}
}
