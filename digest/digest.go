// Package digest computes truncated, encoded content hashes used by the
// `[hash]` and `[contenthash]` placeholders.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/sha3"
)

// DefaultAlgorithm is used when no algorithm is requested.
const DefaultAlgorithm = "md5"

// DefaultEncoding is used when no encoding is requested.
const DefaultEncoding = "hex"

// ErrUnsupportedAlgorithm is matched by every *UnsupportedAlgorithmError.
var ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")

// ErrUnsupportedEncoding is matched by every *UnsupportedEncodingError.
var ErrUnsupportedEncoding = errors.New("unsupported digest encoding")

// UnsupportedAlgorithmError reports a digest algorithm that is not registered.
type UnsupportedAlgorithmError struct {
	Name string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported digest algorithm %q", e.Name)
}

func (e *UnsupportedAlgorithmError) Is(target error) bool {
	return target == ErrUnsupportedAlgorithm
}

// UnsupportedEncodingError reports a digest encoding that is not known.
type UnsupportedEncodingError struct {
	Name string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported digest encoding %q", e.Name)
}

func (e *UnsupportedEncodingError) Is(target error) bool {
	return target == ErrUnsupportedEncoding
}

var (
	algorithmsMu sync.RWMutex
	algorithms   = map[string]func() hash.Hash{
		"md4":        md4.New,
		"md5":        md5.New,
		"sha1":       sha1.New,
		"sha224":     sha256.New224,
		"sha256":     sha256.New,
		"sha384":     sha512.New384,
		"sha512":     sha512.New,
		"sha512-224": sha512.New512_224,
		"sha512-256": sha512.New512_256,
		"sha3-224":   sha3.New224,
		"sha3-256":   sha3.New256,
		"sha3-384":   sha3.New384,
		"sha3-512":   sha3.New512,
		"blake2b-256": func() hash.Hash {
			h, _ := blake2b.New256(nil)
			return h
		},
		"blake2b-512": func() hash.Hash {
			h, _ := blake2b.New512(nil)
			return h
		},
		"blake2s-256": func() hash.Hash {
			h, _ := blake2s.New256(nil)
			return h
		},
		"blake3": func() hash.Hash { return blake3.New() },
	}
)

// Register makes an additional algorithm available under name.
// Registering an existing name replaces it.
func Register(name string, fn func() hash.Hash) {
	algorithmsMu.Lock()
	defer algorithmsMu.Unlock()
	algorithms[strings.ToLower(name)] = fn
}

// Supported reports whether name refers to a registered algorithm.
func Supported(name string) bool {
	_, ok := lookup(name)
	return ok
}

// Algorithms returns the sorted names of all registered algorithms.
func Algorithms() []string {
	algorithmsMu.RLock()
	defer algorithmsMu.RUnlock()
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (func() hash.Hash, bool) {
	algorithmsMu.RLock()
	defer algorithmsMu.RUnlock()
	fn, ok := algorithms[strings.ToLower(name)]
	return fn, ok
}

// Compute hashes buf with algorithm, encodes the digest with encoding and
// truncates the result to length characters. Empty algorithm and encoding
// select the defaults, a non-positive length keeps the full digest.
func Compute(buf []byte, algorithm, encoding string, length int) (string, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	if encoding == "" {
		encoding = DefaultEncoding
	}

	newHash, ok := lookup(algorithm)
	if !ok {
		return "", &UnsupportedAlgorithmError{Name: algorithm}
	}
	h := newHash()
	h.Write(buf)
	sum := h.Sum(nil)

	var encoded string
	switch enc := strings.ToLower(encoding); enc {
	case "hex":
		encoded = hex.EncodeToString(sum)
	default:
		table, ok := baseEncodeTables[enc]
		if !ok {
			return "", &UnsupportedEncodingError{Name: encoding}
		}
		encoded = encodeToBase(sum, table)
	}

	if length > 0 && length < len(encoded) {
		encoded = encoded[:length]
	}
	return encoded, nil
}

// IsEncoding reports whether name is a known digest encoding.
func IsEncoding(name string) bool {
	name = strings.ToLower(name)
	if name == "hex" {
		return true
	}
	_, ok := baseEncodeTables[name]
	return ok
}
