package dest

import (
	"strconv"
	"strings"

	"github.com/daedaleanai/assetcp/digest"
)

// Placeholder names.
const (
	TokenPath        = "path"
	TokenName        = "name"
	TokenExt         = "ext"
	TokenIndex       = "index"
	TokenHash        = "hash"
	TokenContentHash = "contenthash"
)

// Token is a parsed `[name:modifier:...]` placeholder. Algorithm, Encoding
// and Length are only set for hash tokens; empty values and a zero Length
// select the defaults.
type Token struct {
	Name      string
	Algorithm string
	Encoding  string
	Length    int
}

// IsHash reports whether the token is replaced by a content digest.
func (t Token) IsHash() bool {
	return t.Name == TokenHash || t.Name == TokenContentHash
}

// Modifier positions, in the order they must appear.
const (
	modAlgorithm = iota
	modEncoding
	modLength
	modEnd
)

func isHashName(s string) bool {
	return s == TokenHash || s == TokenContentHash
}

func isSimpleName(s string) bool {
	switch s {
	case TokenPath, TokenName, TokenExt, TokenIndex:
		return true
	}
	return false
}

// parseToken parses the text between the brackets of a placeholder. It
// reports false for anything that is not a well-formed placeholder, in which
// case the bracket text is copied through unchanged.
//
// Accepted forms:
//
//	[name] [ext] [path] [index]
//	[contenthash] [contenthash:<algorithm>:<encoding>:<length>]
//	[<algorithm>:contenthash:<encoding>:<length>]
//
// where each modifier is optional and an empty segment keeps the default.
func parseToken(body string) (Token, bool) {
	segments := strings.Split(body, ":")
	name := segments[0]
	modifiers := segments[1:]

	var token Token
	position := modAlgorithm
	switch {
	case isSimpleName(name):
		if len(modifiers) > 0 {
			return Token{}, false
		}
		return Token{Name: name}, true
	case isHashName(name):
		token.Name = name
	case name != "" && !isDigits(name) && !digest.IsEncoding(name) &&
		len(modifiers) > 0 && isHashName(modifiers[0]):
		token.Name = modifiers[0]
		token.Algorithm = name
		modifiers = modifiers[1:]
		position = modEncoding
	default:
		return Token{}, false
	}

	if len(modifiers) > modEnd-position {
		return Token{}, false
	}

	for _, modifier := range modifiers {
		if modifier == "" {
			position++
			continue
		}

		kind := modAlgorithm
		if isDigits(modifier) {
			kind = modLength
		} else if digest.IsEncoding(modifier) {
			kind = modEncoding
		}
		if kind < position {
			return Token{}, false
		}

		switch kind {
		case modAlgorithm:
			token.Algorithm = modifier
		case modEncoding:
			token.Encoding = modifier
		case modLength:
			length, err := strconv.Atoi(modifier)
			if err != nil {
				return Token{}, false
			}
			token.Length = length
		}
		position = kind + 1
	}
	return token, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
