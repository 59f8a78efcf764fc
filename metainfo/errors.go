package metainfo

import "fmt"

// ErrorKind names a specific way parsing a .torrent file can fail.
type ErrorKind int

const (
	// ErrRootNotDict means the top-level bencode value was not a dict.
	ErrRootNotDict ErrorKind = iota
	// ErrMissingKey means a required key was absent.
	ErrMissingKey
	// ErrWrongType means a key mapped to a value of the wrong bencode kind.
	ErrWrongType
	// ErrBadPiecesLength means `pieces` was not a multiple of 20 bytes.
	ErrBadPiecesLength
	// ErrEmptyFiles means a multi-file `info` had an empty `files` list.
	ErrEmptyFiles
)

func (k ErrorKind) String() string {
	switch k {
	case ErrRootNotDict:
		return "root is not a dict"
	case ErrMissingKey:
		return "missing required key"
	case ErrWrongType:
		return "wrong type for key"
	case ErrBadPiecesLength:
		return "pieces length not a multiple of 20"
	case ErrEmptyFiles:
		return "empty files list"
	default:
		return "unknown metainfo error"
	}
}

// Error is the error type for metainfo-level parse failures. Input
// that is not valid bencode fails with the bencode package's
// *bencode.Error instead, returned unwrapped.
type Error struct {
	Kind ErrorKind
	// Key is the dict key involved, when applicable.
	Key string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("metainfo: %s", e.Kind)
	}
	return fmt.Sprintf("metainfo: %s: %q", e.Kind, e.Key)
}

func newErr(kind ErrorKind, key string) *Error {
	return &Error{Kind: kind, Key: key}
}
