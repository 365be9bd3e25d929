// Package dest resolves the output key of a copied file from its
// destination specification.
package dest

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
)

// MatchedFile is a source file selected by a pattern.
type MatchedFile struct {
	// AbsolutePath is the location of the file on disk.
	AbsolutePath string
	// RelativePath is the forward-slash path of the file relative to ContextBase.
	RelativePath string
	// ContextBase is the directory RelativePath is relative to.
	ContextBase string
	// Index is the position of the file in its batch, used by `[index]`.
	Index int
}

// ToType is the kind of a destination specification.
type ToType uint

const (
	// ToTypeAuto lets Classify decide.
	ToTypeAuto ToType = iota
	ToTypeEmpty
	ToTypeFile
	ToTypeDir
	ToTypeTemplate
)

func (t ToType) String() string {
	switch t {
	case ToTypeAuto:
		return "auto"
	case ToTypeEmpty:
		return "empty"
	case ToTypeFile:
		return "file"
	case ToTypeDir:
		return "dir"
	case ToTypeTemplate:
		return "template"
	}
	return fmt.Sprintf("ToType(%d)", uint(t))
}

// ParseToType parses the `toType` option of a pattern.
func ParseToType(s string) (ToType, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ToTypeAuto, nil
	case "file":
		return ToTypeFile, nil
	case "dir", "directory":
		return ToTypeDir, nil
	case "template":
		return ToTypeTemplate, nil
	}
	return ToTypeAuto, fmt.Errorf("invalid toType %q, expected one of file, dir or template", s)
}

var placeholderRegexp = regexp.MustCompile(`\[[\w:-]+\]`)

// Classify decides what a destination specification denotes without
// touching the filesystem.
func Classify(to string) ToType {
	if to == "" {
		return ToTypeEmpty
	}
	if placeholderRegexp.MatchString(to) {
		return ToTypeTemplate
	}
	if hasTrailingSeparator(to) {
		return ToTypeDir
	}
	base := path.Base(toSlash(to))
	if base == "." || base == ".." {
		return ToTypeDir
	}
	if _, _, hasExt := splitExt(base); hasExt {
		return ToTypeFile
	}
	return ToTypeDir
}

func hasTrailingSeparator(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(os.PathSeparator))
}

func trimTrailingSeparators(p string) string {
	for len(p) > 1 && hasTrailingSeparator(p) {
		p = p[:len(p)-1]
	}
	return p
}

// toSlash replaces the host separator with '/'. Backslashes are only
// separators where the host says so.
func toSlash(p string) string {
	if os.PathSeparator == '/' {
		return p
	}
	return strings.ReplaceAll(p, string(os.PathSeparator), "/")
}

// splitExt splits a base name into name and extension. A leading dot does
// not start an extension, so ".dottedfile" has none while "file." has an
// empty one.
func splitExt(base string) (name, ext string, hasExt bool) {
	idx := strings.LastIndex(base, ".")
	if idx <= 0 {
		return base, "", false
	}
	return base[:idx], base[idx+1:], true
}
