// Package metainfo lifts a decoded bencode tree into the typed
// torrent metainfo model (BEP-3) and computes the info-hash, the
// content identity every downstream BitTorrent subsystem keys on.
package metainfo

// PieceSize is the byte length of a single SHA-1 piece hash.
const PieceSize = 20

// InfoHash is a 20-byte SHA-1 digest of a torrent's info dictionary,
// taken over its bencoded bytes exactly as they appear in the file.
type InfoHash [PieceSize]byte

// File describes one file within a multi-file torrent's info
// dictionary.
type File struct {
	Length int64
	MD5Sum []byte // optional, nil if absent
	Path   []string
}

// SingleFile is the info-dictionary shape used when the torrent
// describes exactly one file (no `files` key).
type SingleFile struct {
	PieceLength int64
	Pieces      []byte // raw concatenated SHA-1 hashes, len % 20 == 0
	Private     *int64 // optional
	Name        string
	Length      int64
	MD5Sum      []byte // optional
}

// MultiFile is the info-dictionary shape used when the torrent
// describes more than one file (a `files` key is present).
type MultiFile struct {
	PieceLength int64
	Pieces      []byte
	Private     *int64
	Name        string
	Files       []File
}

// Info is the discriminated union of the two info-dictionary shapes.
// Exactly one of Single or Multi is non-nil.
type Info struct {
	Single *SingleFile
	Multi  *MultiFile
}

// PieceLength returns the info dictionary's piece length regardless
// of which variant is set.
func (i Info) PieceLength() int64 {
	if i.Single != nil {
		return i.Single.PieceLength
	}
	return i.Multi.PieceLength
}

// Pieces returns the concatenated SHA-1 piece hashes regardless of
// which variant is set.
func (i Info) Pieces() []byte {
	if i.Single != nil {
		return i.Single.Pieces
	}
	return i.Multi.Pieces
}

// Name returns the suggested file or directory name regardless of
// which variant is set.
func (i Info) Name() string {
	if i.Single != nil {
		return i.Single.Name
	}
	return i.Multi.Name
}

// TotalLength returns the sum of all file lengths described by Info.
func (i Info) TotalLength() int64 {
	if i.Single != nil {
		return i.Single.Length
	}
	var total int64
	for _, f := range i.Multi.Files {
		total += f.Length
	}
	return total
}

// NumPieces returns the number of SHA-1 piece hashes in Pieces.
func (i Info) NumPieces() int {
	return len(i.Pieces()) / PieceSize
}

// TorrentFile is the typed root of a parsed .torrent file.
type TorrentFile struct {
	Announce     string
	AnnounceList [][]string // BEP-12 tiers, in file order; nil if absent
	CreationDate *int64
	Comment      *string
	CreatedBy    *string
	Encoding     *string
	Info         Info
	InfoHash     InfoHash
}

// Tiers flattens AnnounceList into a single ordered list of tracker
// URLs, falling back to [Announce] when no announce-list is present.
// This is a convenience for callers that don't want to implement
// BEP-12 tier fallback themselves; the unflattened tier structure
// remains available on AnnounceList.
func (t *TorrentFile) Tiers() []string {
	if len(t.AnnounceList) == 0 {
		return []string{t.Announce}
	}
	var urls []string
	for _, tier := range t.AnnounceList {
		urls = append(urls, tier...)
	}
	if len(urls) == 0 {
		return []string{t.Announce}
	}
	return urls
}

// HashString renders InfoHash as uppercase hex, for display and log
// lines.
func (h InfoHash) HashString() string {
	const hexDigits = "0123456789ABCDEF"
	out := make([]byte, 0, len(h)*2)
	for _, b := range h {
		out = append(out, hexDigits[b>>4], hexDigits[b&0x0f])
	}
	return string(out)
}
