package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/daedaleanai/assetcp/util"
)

func TestService_WriteRead(t *testing.T) {
	var useCases = []struct {
		description string
		outputRoot  string
		key         string
		expectURL   string
	}{
		{
			description: "inside the output root",
			outputRoot:  "/storage/case001/build",
			key:         "newdirectory/file.txt",
			expectURL:   "mem://localhost/storage/case001/build/newdirectory/file.txt",
		},
		{
			description: "outside the output root",
			outputRoot:  "/storage/case002/build",
			key:         "../tempdir/file.txt",
			expectURL:   "mem://localhost/storage/case002/tempdir/file.txt",
		},
	}

	ctx := context.Background()
	fs := afs.New()
	srv := NewWithURL(fs, "mem://localhost/")
	for _, useCase := range useCases {
		target := Target(filepath.FromSlash(useCase.outputRoot), useCase.key)
		assert.Equal(t, useCase.expectURL, srv.URL(target), useCase.description)

		exists, err := srv.Exists(ctx, useCase.outputRoot, useCase.key)
		require.NoError(t, err, useCase.description)
		assert.False(t, exists, useCase.description)

		err = srv.Write(ctx, useCase.outputRoot, useCase.key, []byte(useCase.description))
		require.NoError(t, err, useCase.description)

		exists, err = srv.Exists(ctx, useCase.outputRoot, useCase.key)
		require.NoError(t, err, useCase.description)
		assert.True(t, exists, useCase.description)

		data, err := fs.DownloadWithURL(ctx, useCase.expectURL)
		require.NoError(t, err, useCase.description)
		assert.Equal(t, useCase.description, string(data), useCase.description)

		data, err = srv.Read(ctx, target)
		require.NoError(t, err, useCase.description)
		assert.Equal(t, useCase.description, string(data), useCase.description)
	}
}

func TestService_Local(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	srv := New()

	err := srv.Write(ctx, filepath.Join(root, "build"), "nested/deep/file.txt", []byte("content"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "build", "nested", "deep", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	for _, dir := range []string{filepath.Join(root, "build"), filepath.Join(root, "build", "nested", "deep")} {
		require.True(t, util.DirExists(dir), dir)
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.Zero(t, info.Mode().Perm()&^util.DirMode, dir)
	}
	info, err := os.Stat(filepath.Join(root, "build", "nested", "deep", "file.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&^util.FileMode)

	err = srv.Write(ctx, filepath.Join(root, "build"), "nested/other.txt", []byte("other"))
	require.NoError(t, err)
	assert.True(t, util.FileExists(filepath.Join(root, "build", "nested", "other.txt")))

	data, err = srv.Read(ctx, filepath.Join(root, "build", "nested", "deep", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	_, err = srv.Read(ctx, filepath.Join(root, "missing.txt"))
	assert.Error(t, err)
}
