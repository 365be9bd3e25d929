package dest

import (
	"context"
	"fmt"
	"path"

	"github.com/daedaleanai/assetcp/digest"
)

// ReadFunc reads the content of the file at the given absolute path.
type ReadFunc func(ctx context.Context, path string) ([]byte, error)

// Destination is the `to` part of a pattern.
type Destination struct {
	To string
	// Type forces the interpretation of To. ToTypeAuto classifies it.
	Type ToType
}

// Resolver computes output keys. The zero value is not usable: OutputRoot
// must be set, and Read is required as soon as a template hashes content.
// A Resolver is safe for concurrent use.
type Resolver struct {
	OutputRoot   string
	WorkingDir   string
	Read         ReadFunc
	HashFunction string
}

// Resolve returns the output key of file for the destination to.
func (r Resolver) Resolve(ctx context.Context, file MatchedFile, to Destination) (string, error) {
	key, _, err := r.ResolveContent(ctx, file, to)
	return key, err
}

// ResolveContent is Resolve that also returns the file content when it had
// to be read for hashing, nil otherwise. Failures are *Error values.
func (r Resolver) ResolveContent(ctx context.Context, file MatchedFile, to Destination) (string, []byte, error) {
	kind := to.Type
	if kind == ToTypeAuto {
		kind = Classify(to.To)
	}

	var candidate string
	var content []byte
	switch kind {
	case ToTypeEmpty:
		candidate = file.RelativePath
	case ToTypeFile:
		candidate = to.To
	case ToTypeDir:
		candidate = joinDir(to.To, file.RelativePath)
	case ToTypeTemplate:
		tmpl := ParseTemplate(to.To)
		if tmpl.NeedsContent() {
			var err error
			content, err = r.read(ctx, file.AbsolutePath)
			if err != nil {
				return "", nil, newError(file.AbsolutePath, err)
			}
		}

		hashFunction := r.HashFunction
		if hashFunction == "" {
			hashFunction = digest.DefaultAlgorithm
		}
		expanded, err := tmpl.Expand(file, content, hashFunction)
		if err != nil {
			return "", nil, newError(file.AbsolutePath, err)
		}
		candidate = expanded
		if hasTrailingSeparator(to.To) {
			// `[path]` already placed the directories of the file.
			rel := file.RelativePath
			if tmpl.HasToken(TokenPath) {
				rel = path.Base(rel)
			}
			candidate = joinDir(expanded, rel)
		}
	default:
		return "", nil, newError(file.AbsolutePath, fmt.Errorf("unknown destination type %s", kind))
	}

	key, err := Normalize(candidate, r.OutputRoot, r.WorkingDir)
	if err != nil {
		return "", nil, newError(file.AbsolutePath, err)
	}
	return key, content, nil
}

func (r Resolver) read(ctx context.Context, p string) ([]byte, error) {
	if r.Read == nil {
		return nil, fmt.Errorf("%w: no reader configured", ErrSourceRead)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	data, err := r.Read(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	return data, nil
}

func joinDir(dir, rel string) string {
	return path.Join(toSlash(trimTrailingSeparators(dir)), rel)
}
