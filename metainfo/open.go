package metainfo

import "os"

// Open reads a .torrent file from disk and parses it. Reading the
// file that describes the download is distinct from the non-goal of
// on-disk piece storage — the metainfo pipeline has to get its input
// bytes from somewhere.
func Open(path string) (*TorrentFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
