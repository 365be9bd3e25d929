package dest

import (
	"path"
	"strconv"
	"strings"

	"github.com/daedaleanai/assetcp/digest"
)

type segment struct {
	literal string
	token   *Token
}

// Template is a destination string split into literal text and placeholders.
type Template struct {
	source   string
	segments []segment
}

// ParseTemplate scans s left to right. Well-formed placeholders become
// tokens, everything else (including unknown or malformed placeholders and
// unbalanced brackets) stays literal.
func ParseTemplate(s string) Template {
	tmpl := Template{source: s}
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			tmpl.segments = append(tmpl.segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}

	rest := s
	for {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			literal.WriteString(rest)
			break
		}
		literal.WriteString(rest[:open])
		rest = rest[open:]

		closing := strings.IndexByte(rest[1:], ']')
		nested := strings.IndexByte(rest[1:], '[')
		if closing < 0 {
			literal.WriteString(rest)
			break
		}
		if nested >= 0 && nested < closing {
			// The bracket opened here is never closed before the next one opens.
			literal.WriteString(rest[:nested+1])
			rest = rest[nested+1:]
			continue
		}

		body := rest[1 : closing+1]
		if token, ok := parseToken(body); ok {
			flush()
			tmpl.segments = append(tmpl.segments, segment{token: &token})
		} else {
			literal.WriteString(rest[:closing+2])
		}
		rest = rest[closing+2:]
	}
	flush()
	return tmpl
}

// String returns the unexpanded template.
func (t Template) String() string {
	return t.source
}

// Tokens returns the placeholders of the template in order.
func (t Template) Tokens() []Token {
	tokens := []Token{}
	for _, seg := range t.segments {
		if seg.token != nil {
			tokens = append(tokens, *seg.token)
		}
	}
	return tokens
}

// HasTokens reports whether at least one placeholder will be substituted.
func (t Template) HasTokens() bool {
	return len(t.Tokens()) > 0
}

// HasToken reports whether the template contains a placeholder called name.
func (t Template) HasToken(name string) bool {
	for _, token := range t.Tokens() {
		if token.Name == name {
			return true
		}
	}
	return false
}

// NeedsContent reports whether expanding the template requires the file content.
func (t Template) NeedsContent() bool {
	for _, seg := range t.segments {
		if seg.token != nil && seg.token.IsHash() {
			return true
		}
	}
	return false
}

// Expand substitutes every placeholder for file. content is only used by
// hash placeholders, defaultAlgorithm applies to hash placeholders that do
// not name one.
func (t Template) Expand(file MatchedFile, content []byte, defaultAlgorithm string) (string, error) {
	rel := strings.TrimPrefix(path.Clean("/"+file.RelativePath), "/")
	dir, base := path.Split(rel)
	name, ext, hasExt := splitExt(base)

	out := []byte{}
	for i, seg := range t.segments {
		if seg.token == nil {
			out = append(out, seg.literal...)
			continue
		}

		switch seg.token.Name {
		case TokenPath:
			out = append(out, dir...)
		case TokenName:
			out = append(out, name...)
		case TokenExt:
			// Files without extension also lose the dot in front of `[ext]`.
			if !hasExt && i > 0 && t.segments[i-1].token == nil && strings.HasSuffix(t.segments[i-1].literal, ".") {
				out = out[:len(out)-1]
			}
			out = append(out, ext...)
		case TokenIndex:
			out = strconv.AppendInt(out, int64(file.Index), 10)
		case TokenHash, TokenContentHash:
			algorithm := seg.token.Algorithm
			if algorithm == "" {
				algorithm = defaultAlgorithm
			}
			sum, err := digest.Compute(content, algorithm, seg.token.Encoding, seg.token.Length)
			if err != nil {
				return "", err
			}
			out = append(out, sum...)
		}
	}
	return string(out), nil
}

// Interpolate parses and expands template for file with the default digest
// algorithm.
func Interpolate(template string, file MatchedFile, content []byte) (string, error) {
	return ParseTemplate(template).Expand(file, content, digest.DefaultAlgorithm)
}
