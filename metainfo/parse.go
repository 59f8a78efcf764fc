package metainfo

import (
	"crypto/sha1"

	"torrentcore/bencode"
)

// Parse decodes a .torrent file's bytes into a typed TorrentFile,
// including its info-hash. The root value must be a bencode dict; the
// info-hash is computed over the exact raw bytes the `info` key
// occupied in data, not a re-encoding, so it is correct even if data
// contains keys this parser doesn't otherwise interpret.
func Parse(data []byte) (*TorrentFile, error) {
	root, _, err := bencode.Decode(data)
	if err != nil {
		return nil, err
	}
	if root.Kind != bencode.Dict {
		return nil, newErr(ErrRootNotDict, "")
	}

	rawInfo, found, err := bencode.RawValueForKey(data, "info")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newErr(ErrMissingKey, "info")
	}
	sum := sha1.Sum(rawInfo)

	infoVal, ok := root.Dict["info"]
	if !ok {
		return nil, newErr(ErrMissingKey, "info")
	}
	if infoVal.Kind != bencode.Dict {
		return nil, newErr(ErrWrongType, "info")
	}

	info, err := parseInfo(infoVal)
	if err != nil {
		return nil, err
	}

	announce, err := requiredString(root, "announce")
	if err != nil {
		return nil, err
	}

	tf := &TorrentFile{
		Announce: announce,
		Info:     info,
		InfoHash: InfoHash(sum),
	}

	if v, ok := root.Dict["announce-list"]; ok {
		list, err := parseAnnounceList(v)
		if err != nil {
			return nil, err
		}
		tf.AnnounceList = list
	}
	if v, ok := root.Dict["creation date"]; ok {
		if v.Kind != bencode.Integer {
			return nil, newErr(ErrWrongType, "creation date")
		}
		n := v.Int
		tf.CreationDate = &n
	}
	if s, ok, err := optionalString(root, "comment"); err != nil {
		return nil, err
	} else if ok {
		tf.Comment = &s
	}
	if s, ok, err := optionalString(root, "created by"); err != nil {
		return nil, err
	} else if ok {
		tf.CreatedBy = &s
	}
	if s, ok, err := optionalString(root, "encoding"); err != nil {
		return nil, err
	} else if ok {
		tf.Encoding = &s
	}

	return tf, nil
}

func parseAnnounceList(v *bencode.Value) ([][]string, error) {
	if v.Kind != bencode.List {
		return nil, newErr(ErrWrongType, "announce-list")
	}
	tiers := make([][]string, 0, len(v.List))
	for _, tierVal := range v.List {
		if tierVal.Kind != bencode.List {
			return nil, newErr(ErrWrongType, "announce-list tier")
		}
		tier := make([]string, 0, len(tierVal.List))
		for _, urlVal := range tierVal.List {
			if urlVal.Kind != bencode.ByteString {
				return nil, newErr(ErrWrongType, "announce-list url")
			}
			tier = append(tier, urlVal.Str())
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

func parseInfo(v *bencode.Value) (Info, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return Info{}, err
	}
	pieceLength, err := requiredInt(v, "piece length")
	if err != nil {
		return Info{}, err
	}
	pieces, err := requiredBytes(v, "pieces")
	if err != nil {
		return Info{}, err
	}
	if len(pieces)%PieceSize != 0 {
		return Info{}, newErr(ErrBadPiecesLength, "pieces")
	}
	private, err := optionalInt(v, "private")
	if err != nil {
		return Info{}, err
	}

	if filesVal, ok := v.Dict["files"]; ok {
		files, err := parseFiles(filesVal)
		if err != nil {
			return Info{}, err
		}
		if len(files) == 0 {
			return Info{}, newErr(ErrEmptyFiles, "files")
		}
		return Info{Multi: &MultiFile{
			PieceLength: pieceLength,
			Pieces:      pieces,
			Private:     private,
			Name:        name,
			Files:       files,
		}}, nil
	}

	length, err := requiredInt(v, "length")
	if err != nil {
		return Info{}, err
	}
	md5, _, err := optionalBytes(v, "md5sum")
	if err != nil {
		return Info{}, err
	}
	return Info{Single: &SingleFile{
		PieceLength: pieceLength,
		Pieces:      pieces,
		Private:     private,
		Name:        name,
		Length:      length,
		MD5Sum:      md5,
	}}, nil
}

func parseFiles(v *bencode.Value) ([]File, error) {
	if v.Kind != bencode.List {
		return nil, newErr(ErrWrongType, "files")
	}
	files := make([]File, 0, len(v.List))
	for _, fileVal := range v.List {
		if fileVal.Kind != bencode.Dict {
			return nil, newErr(ErrWrongType, "files[]")
		}
		length, err := requiredInt(fileVal, "length")
		if err != nil {
			return nil, err
		}
		md5, _, err := optionalBytes(fileVal, "md5sum")
		if err != nil {
			return nil, err
		}
		pathVal, ok := fileVal.Dict["path"]
		if !ok {
			return nil, newErr(ErrMissingKey, "path")
		}
		if pathVal.Kind != bencode.List || len(pathVal.List) == 0 {
			return nil, newErr(ErrWrongType, "path")
		}
		path := make([]string, 0, len(pathVal.List))
		for _, comp := range pathVal.List {
			if comp.Kind != bencode.ByteString {
				return nil, newErr(ErrWrongType, "path component")
			}
			path = append(path, comp.Str())
		}
		files = append(files, File{Length: length, MD5Sum: md5, Path: path})
	}
	return files, nil
}

func requiredString(v *bencode.Value, key string) (string, error) {
	child, ok := v.Dict[key]
	if !ok {
		return "", newErr(ErrMissingKey, key)
	}
	if child.Kind != bencode.ByteString {
		return "", newErr(ErrWrongType, key)
	}
	return child.Str(), nil
}

func optionalString(v *bencode.Value, key string) (string, bool, error) {
	child, ok := v.Dict[key]
	if !ok {
		return "", false, nil
	}
	if child.Kind != bencode.ByteString {
		return "", false, newErr(ErrWrongType, key)
	}
	return child.Str(), true, nil
}

func requiredBytes(v *bencode.Value, key string) ([]byte, error) {
	child, ok := v.Dict[key]
	if !ok {
		return nil, newErr(ErrMissingKey, key)
	}
	if child.Kind != bencode.ByteString {
		return nil, newErr(ErrWrongType, key)
	}
	return child.Bytes, nil
}

func optionalBytes(v *bencode.Value, key string) ([]byte, bool, error) {
	child, ok := v.Dict[key]
	if !ok {
		return nil, false, nil
	}
	if child.Kind != bencode.ByteString {
		return nil, false, newErr(ErrWrongType, key)
	}
	return child.Bytes, true, nil
}

func requiredInt(v *bencode.Value, key string) (int64, error) {
	child, ok := v.Dict[key]
	if !ok {
		return 0, newErr(ErrMissingKey, key)
	}
	if child.Kind != bencode.Integer {
		return 0, newErr(ErrWrongType, key)
	}
	return child.Int, nil
}

func optionalInt(v *bencode.Value, key string) (*int64, error) {
	child, ok := v.Dict[key]
	if !ok {
		return nil, nil
	}
	if child.Kind != bencode.Integer {
		return nil, newErr(ErrWrongType, key)
	}
	n := child.Int
	return &n, nil
}
