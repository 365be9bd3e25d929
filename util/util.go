package util

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// FileMode is the default FileMode used when creating files.
const FileMode = 0664

// DirMode is the default FileMode used when creating directories.
const DirMode = 0775

// FileExists checks whether some file exists.
func FileExists(file string) bool {
	stat, err := os.Stat(file)
	return err == nil && !stat.IsDir()
}

// DirExists checks whether some directory exists.
func DirExists(dir string) bool {
	stat, err := os.Stat(dir)
	return err == nil && stat.IsDir()
}

// GetWorkingDir returns the current working directory.
func GetWorkingDir() (string, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "could not determine the working directory")
	}
	return workingDir, nil
}

// AbsPath expands a leading `~` and anchors relative paths at base.
func AbsPath(base, p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", errors.Wrapf(err, "could not expand %q", p)
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Join(base, expanded), nil
}

// ReadYaml reads a YAML file and unmarshals it into out.
func ReadYaml(filePath string, out interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", filePath)
	}
	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return errors.Wrapf(err, "failed to parse %s", filePath)
	}
	return nil
}
