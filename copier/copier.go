// Package copier resolves and emits the files selected by a set of patterns.
package copier

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/daedaleanai/assetcp/dest"
	"github.com/daedaleanai/assetcp/log"
	"github.com/daedaleanai/assetcp/pattern"
	"github.com/daedaleanai/assetcp/util"
)

// FailureKind classifies a failed file or pattern.
type FailureKind uint

const (
	FailureResolve FailureKind = iota
	FailureEnumerate
	FailureConflict
	FailureEmit
)

func (k FailureKind) String() string {
	switch k {
	case FailureResolve:
		return "resolve"
	case FailureEnumerate:
		return "enumerate"
	case FailureConflict:
		return "conflict"
	case FailureEmit:
		return "emit"
	}
	return fmt.Sprintf("FailureKind(%d)", uint(k))
}

// Failure describes why a source could not be copied.
type Failure struct {
	Source string
	Kind   FailureKind
	Err    error
}

// Reason returns the most specific name of the failure, e.g.
// "UnsupportedAlgorithm" for resolve failures.
func (f Failure) Reason() string {
	var resolveErr *dest.Error
	if f.Kind == FailureResolve && errors.As(f.Err, &resolveErr) {
		return resolveErr.Kind.String()
	}
	return f.Kind.String()
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s (%s): %v", f.Source, f.Reason(), f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Asset is a resolved output file.
type Asset struct {
	Key     string
	Source  string
	Pattern pattern.Pattern
	content []byte
}

func (a Asset) String() string {
	return a.Source
}

// Result is the outcome of a batch.
type Result struct {
	Assets   util.OrderedMap[string, Asset]
	Failures []Failure
}

// Reader reads the content of a source file.
type Reader interface {
	Read(ctx context.Context, p string) ([]byte, error)
}

// Writer stores an asset under its key relative to the output root.
type Writer interface {
	Write(ctx context.Context, outputRoot, key string, data []byte) error
}

// Options configure a Copier.
type Options struct {
	OutputRoot   string
	WorkingDir   string
	HashFunction string
	// Concurrency bounds the number of files processed at once, NumCPU if not positive.
	Concurrency int
	// FailFast aborts the batch on the first failure.
	FailFast bool
}

// Copier copies the files of a batch of patterns.
type Copier struct {
	options  Options
	reader   Reader
	writer   Writer
	resolver dest.Resolver
}

// New creates a copier reading with reader and emitting with writer.
func New(options Options, reader Reader, writer Writer) *Copier {
	if options.Concurrency <= 0 {
		options.Concurrency = runtime.NumCPU()
	}
	return &Copier{
		options: options,
		reader:  reader,
		writer:  writer,
		resolver: dest.Resolver{
			OutputRoot:   options.OutputRoot,
			WorkingDir:   options.WorkingDir,
			Read:         reader.Read,
			HashFunction: options.HashFunction,
		},
	}
}

type job struct {
	file    dest.MatchedFile
	pattern pattern.Pattern
	to      dest.Destination
	key     string
	content []byte
	err     error
}

// Resolve enumerates and resolves all patterns without writing anything.
// Per-file failures are collected in the result. The returned error is only
// set when the batch was aborted, by FailFast or by ctx.
func (c *Copier) Resolve(ctx context.Context, patterns []pattern.Pattern) (*Result, error) {
	result := &Result{Assets: util.NewOrderedMap[string, Asset]()}

	jobs := []*job{}
	for _, p := range patterns {
		to, err := p.Destination()
		if err == nil {
			var files []dest.MatchedFile
			files, err = pattern.Enumerate(ctx, p, c.options.WorkingDir)
			for _, file := range files {
				// Single-threaded pass, so `[index]` is stable across runs.
				file.Index = len(jobs)
				jobs = append(jobs, &job{file: file, pattern: p, to: to})
			}
		}
		if err != nil {
			failure := Failure{Source: p.From, Kind: FailureEnumerate, Err: err}
			if err := c.fail(result, failure); err != nil {
				return result, err
			}
		}
	}
	log.Debug("Resolving %d files.\n", len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.options.Concurrency)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			j.key, j.content, j.err = c.resolver.ResolveContent(gctx, j.file, j.to)
			if j.err != nil && c.options.FailFast {
				return j.err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, j := range jobs {
			if j.err != nil {
				result.Failures = append(result.Failures, Failure{Source: j.file.AbsolutePath, Kind: FailureResolve, Err: j.err})
			}
		}
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	for _, j := range jobs {
		if j.err != nil {
			if err := c.fail(result, Failure{Source: j.file.AbsolutePath, Kind: FailureResolve, Err: j.err}); err != nil {
				return result, err
			}
			continue
		}
		if err := c.register(result, j); err != nil {
			return result, err
		}
	}
	return result, nil
}

// register adds the asset of j, detecting key collisions. Collisions with
// the same source are harmless, other ones are failures unless the pattern
// of j forces an overwrite.
func (c *Copier) register(result *Result, j *job) error {
	asset := Asset{Key: j.key, Source: j.file.AbsolutePath, Pattern: j.pattern, content: j.content}
	log.Debug("%s -> %s\n", asset.Source, asset.Key)

	err := result.Assets.TryInsert(asset.Key, asset)
	if err == nil {
		return nil
	}
	existing, _ := result.Assets.Lookup(asset.Key)
	switch {
	case existing.Source == asset.Source:
		return nil
	case j.pattern.Force:
		log.Debug("Overwriting `%s` from %s with %s.\n", asset.Key, existing.Source, asset.Source)
		result.Assets.Replace(asset.Key, asset)
		return nil
	}
	return c.fail(result, Failure{
		Source: asset.Source,
		Kind:   FailureConflict,
		Err:    errors.Wrapf(err, "asset `%s` is already emitted from %s", asset.Key, existing.Source),
	})
}

func (c *Copier) fail(result *Result, failure Failure) error {
	result.Failures = append(result.Failures, failure)
	if c.options.FailFast {
		return failure
	}
	return nil
}

// Emit writes every asset of result, reading sources that were not read
// during resolution.
func (c *Copier) Emit(ctx context.Context, result *Result) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.options.Concurrency)
	for _, asset := range result.Assets.Values() {
		asset := asset
		g.Go(func() error {
			err := c.emit(gctx, asset)
			if err == nil {
				return nil
			}
			failure := Failure{Source: asset.Source, Kind: FailureEmit, Err: err}
			mu.Lock()
			defer mu.Unlock()
			return c.fail(result, failure)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (c *Copier) emit(ctx context.Context, asset Asset) error {
	content := asset.content
	if content == nil {
		var err error
		if content, err = c.reader.Read(ctx, asset.Source); err != nil {
			return err
		}
	}
	return c.writer.Write(ctx, c.options.OutputRoot, asset.Key, content)
}

// Run resolves and emits all patterns.
func (c *Copier) Run(ctx context.Context, patterns []pattern.Pattern) (*Result, error) {
	result, err := c.Resolve(ctx, patterns)
	if err != nil {
		return result, err
	}
	return result, c.Emit(ctx, result)
}
