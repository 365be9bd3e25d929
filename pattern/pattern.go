// Package pattern turns copy patterns into the list of files they select.
package pattern

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/pkg/errors"

	"github.com/daedaleanai/assetcp/dest"
	"github.com/daedaleanai/assetcp/log"
	"github.com/daedaleanai/assetcp/util"
)

// ErrNoMatch is returned when a pattern selects no file.
var ErrNoMatch = errors.New("pattern does not match any file")

// Pattern selects files with From and copies them to To.
type Pattern struct {
	// From is a file, a directory or a glob, relative to Context.
	From string `yaml:"from" hcl:"from"`
	// To is the destination specification, empty keeps the relative location.
	To string `yaml:"to" hcl:"to,optional"`
	// Context is the directory From is relative to, defaults to the working directory.
	Context string `yaml:"context" hcl:"context,optional"`
	// ToType forces the interpretation of To: file, dir or template.
	ToType string `yaml:"toType" hcl:"to_type,optional"`
	// Ignore lists gitignore-style patterns matched against the relative path.
	Ignore []string `yaml:"ignore" hcl:"ignore,optional"`
	// Force overwrites assets that another pattern already emitted under the same key.
	Force bool `yaml:"force" hcl:"force,optional"`
	// NoErrorOnMissing turns an empty match into a warning.
	NoErrorOnMissing bool `yaml:"noErrorOnMissing" hcl:"no_error_on_missing,optional"`
}

// Destination returns the destination specification of the pattern.
func (p Pattern) Destination() (dest.Destination, error) {
	toType, err := dest.ParseToType(p.ToType)
	if err != nil {
		return dest.Destination{}, err
	}
	return dest.Destination{To: p.To, Type: toType}, nil
}

func (p Pattern) String() string {
	if p.To == "" {
		return p.From
	}
	return p.From + " -> " + p.To
}

// Enumerate lists the regular files selected by p, ordered by relative path.
// Relative contexts are anchored at workingDir.
func Enumerate(ctx context.Context, p Pattern, workingDir string) ([]dest.MatchedFile, error) {
	if p.From == "" {
		return nil, errors.New("pattern has an empty `from`")
	}

	contextDir := workingDir
	if p.Context != "" {
		var err error
		if contextDir, err = util.AbsPath(workingDir, p.Context); err != nil {
			return nil, err
		}
	}

	absFrom, err := util.AbsPath(contextDir, p.From)
	if err != nil {
		return nil, err
	}

	var files []dest.MatchedFile
	stat, err := os.Stat(absFrom)
	switch {
	case err == nil && !stat.IsDir():
		log.Debug("Pattern `%s` is a file.\n", p.From)
		files = []dest.MatchedFile{{
			AbsolutePath: absFrom,
			RelativePath: filepath.Base(absFrom),
			ContextBase:  filepath.Dir(absFrom),
		}}
	case err == nil:
		log.Debug("Pattern `%s` is a directory.\n", p.From)
		files, err = walk(ctx, absFrom)
	default:
		log.Debug("Pattern `%s` is a glob.\n", p.From)
		files, err = glob(ctx, contextDir, absFrom)
	}
	if err != nil {
		return nil, err
	}

	files = ignore(files, p.Ignore)
	if len(files) == 0 {
		if p.NoErrorOnMissing {
			log.Warning("Pattern `%s` does not match any file.\n", p.From)
			return files, nil
		}
		return nil, errors.Wrapf(ErrNoMatch, "%s", absFrom)
	}
	return util.SliceOrderedBy(files, func(f *dest.MatchedFile) string { return f.RelativePath }), nil
}

func walk(ctx context.Context, root string) ([]dest.MatchedFile, error) {
	files := []dest.MatchedFile{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, dest.MatchedFile{
			AbsolutePath: p,
			RelativePath: filepath.ToSlash(rel),
			ContextBase:  root,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}
	return files, nil
}

func glob(ctx context.Context, contextDir, pattern string) ([]dest.MatchedFile, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid glob %s", pattern)
	}

	files := []dest.MatchedFile{}
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stat, err := os.Stat(match)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", match)
		}
		if !stat.Mode().IsRegular() {
			continue
		}
		rel, err := filepath.Rel(contextDir, match)
		if err != nil {
			return nil, err
		}
		files = append(files, dest.MatchedFile{
			AbsolutePath: match,
			RelativePath: filepath.ToSlash(rel),
			ContextBase:  contextDir,
		})
	}
	return files, nil
}

func ignore(files []dest.MatchedFile, patterns []string) []dest.MatchedFile {
	if len(patterns) == 0 {
		return files
	}
	ps := util.MappedSlice(patterns, func(p string) gitignore.Pattern {
		return gitignore.ParsePattern(p, nil)
	})
	matcher := gitignore.NewMatcher(ps)
	return util.FilteredSlice(files, func(f dest.MatchedFile) bool {
		ignored := matcher.Match(strings.Split(f.RelativePath, "/"), false)
		if ignored {
			log.Debug("Ignoring `%s`.\n", f.RelativePath)
		}
		return !ignored
	})
}
