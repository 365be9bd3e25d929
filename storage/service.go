// Package storage reads copy sources and writes emitted assets.
package storage

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/option"

	"github.com/daedaleanai/assetcp/util"
)

// Service reads and writes files through an afs.Service. Paths are local
// absolute paths; baseURL (empty for the local filesystem, e.g.
// "mem://localhost" in tests) is prepended to every one of them.
type Service struct {
	fs      afs.Service
	baseURL string
}

// New creates a storage service on the local filesystem.
func New() *Service {
	return &Service{fs: afs.New()}
}

// NewWithURL creates a storage service rooted at baseURL.
func NewWithURL(fs afs.Service, baseURL string) *Service {
	return &Service{fs: fs, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// URL returns the location of the local path p.
func (s *Service) URL(p string) string {
	if s.baseURL == "" {
		return p
	}
	return s.baseURL + path.Clean("/"+filepath.ToSlash(p))
}

// Read returns the content of the file at p.
func (s *Service) Read(ctx context.Context, p string) ([]byte, error) {
	URL := s.URL(p)
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", URL)
	}
	return data, nil
}

// Write stores data under key relative to outputRoot. Keys starting with
// "../" are written outside of outputRoot. Missing directories are created
// with util.DirMode, files with util.FileMode.
func (s *Service) Write(ctx context.Context, outputRoot, key string, data []byte) error {
	target := Target(outputRoot, key)
	if err := s.ensureDir(ctx, filepath.Dir(target)); err != nil {
		return err
	}
	URL := s.URL(target)
	if err := s.fs.Upload(ctx, URL, util.FileMode, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to write %v", URL)
	}
	return nil
}

func (s *Service) ensureDir(ctx context.Context, dir string) error {
	URL := s.URL(dir)
	ok, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return errors.Wrapf(err, "failed to check %v", URL)
	}
	if ok {
		return nil
	}
	if err := s.fs.Create(ctx, URL, os.ModeDir|util.DirMode, true); err != nil {
		return errors.Wrapf(err, "failed to create %v", URL)
	}
	return nil
}

// Exists checks whether the asset key relative to outputRoot is present.
func (s *Service) Exists(ctx context.Context, outputRoot, key string) (bool, error) {
	URL := s.URL(Target(outputRoot, key))
	ok, err := s.fs.Exists(ctx, URL, option.NewObjectKind(true))
	if err != nil {
		return false, errors.Wrapf(err, "failed to check %v", URL)
	}
	return ok, nil
}

// Target is the local path of key inside outputRoot.
func Target(outputRoot, key string) string {
	return filepath.Join(outputRoot, filepath.FromSlash(key))
}
