package digest

import (
	"math/big"
)

// Alphabets for the base-N digest encodings. None of them contains a path
// separator, so encoded digests are always valid file names.
var baseEncodeTables = map[string]string{
	"base26": "abcdefghijklmnopqrstuvwxyz",
	"base32": "123456789abcdefghjkmnpqrstuvwxyz", // no 0lio
	"base36": "0123456789abcdefghijklmnopqrstuvwxyz",
	"base49": "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ", // no lIO
	"base52": "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"base58": "123456789abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ", // no 0lIO
	"base62": "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"base64": "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_",
}

// encodeToBase writes buf, read as a little-endian unsigned integer, in the
// positional system given by table. A zero value encodes to "".
func encodeToBase(buf []byte, table string) string {
	reversed := make([]byte, len(buf))
	for i, b := range buf {
		reversed[len(buf)-1-i] = b
	}
	value := new(big.Int).SetBytes(reversed)

	base := big.NewInt(int64(len(table)))
	mod := new(big.Int)
	out := []byte{}
	for value.Sign() > 0 {
		value.DivMod(value, base, mod)
		out = append(out, table[mod.Int64()])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
