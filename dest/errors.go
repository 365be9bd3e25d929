package dest

import (
	"errors"
	"fmt"

	"github.com/daedaleanai/assetcp/digest"
)

// ErrorKind classifies why a file could not be resolved.
type ErrorKind uint

const (
	ErrorUnknown ErrorKind = iota
	ErrorUnsupportedAlgorithm
	ErrorSourceRead
	ErrorOutsideVolume
	ErrorEmptyKey
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorUnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case ErrorSourceRead:
		return "SourceReadError"
	case ErrorOutsideVolume:
		return "OutsideVolume"
	case ErrorEmptyKey:
		return "EmptyKey"
	}
	return "Unknown"
}

// ErrSourceRead is matched by errors caused by reading the source file.
var ErrSourceRead = errors.New("reading source file failed")

// Error is the failure of resolving a single file.
type Error struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(source string, err error) *Error {
	kind := ErrorUnknown
	switch {
	case errors.Is(err, ErrSourceRead):
		kind = ErrorSourceRead
	case errors.Is(err, digest.ErrUnsupportedAlgorithm), errors.Is(err, digest.ErrUnsupportedEncoding):
		kind = ErrorUnsupportedAlgorithm
	case errors.Is(err, ErrOutsideVolume):
		kind = ErrorOutsideVolume
	case errors.Is(err, ErrEmptyKey):
		kind = ErrorEmptyKey
	}
	return &Error{Source: source, Kind: kind, Err: err}
}
