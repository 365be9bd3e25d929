package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/daedaleanai/assetcp/log"
	"github.com/daedaleanai/assetcp/pattern"
	"github.com/daedaleanai/assetcp/util"
)

// PatternFileVersion is the newest pattern file version this tool understands.
const PatternFileVersion uint = 1

// DefaultPatternFile is read when no pattern file is given.
const DefaultPatternFile = "assetcp.yaml"

// PatternFile is a list of copy patterns together with the output root and
// the directory relative patterns are anchored at.
type PatternFile struct {
	Version  uint              `yaml:"version" hcl:"version,optional"`
	Output   string            `yaml:"output" hcl:"output,optional"`
	Context  string            `yaml:"context" hcl:"context,optional"`
	Patterns []pattern.Pattern `yaml:"patterns" hcl:"pattern,block"`
}

type patternFileVersion struct {
	Version uint
}

// ReadPatternFile reads a YAML or, for `.hcl` files, an HCL pattern file.
// Relative `output` and `context` are anchored at the directory of the file.
func ReadPatternFile(filePath string) (PatternFile, error) {
	var patternFile PatternFile
	var err error
	if strings.EqualFold(filepath.Ext(filePath), ".hcl") {
		err = readHCL(filePath, &patternFile)
	} else {
		err = readYAML(filePath, &patternFile)
	}
	if err != nil {
		return PatternFile{}, err
	}

	if patternFile.Version == 0 {
		patternFile.Version = PatternFileVersion
	}
	if patternFile.Version > PatternFileVersion {
		return PatternFile{}, errors.Errorf("pattern file %s has version %d that requires a newer version of assetcp", filePath, patternFile.Version)
	}

	baseDir := filepath.Dir(filePath)
	if patternFile.Context, err = util.AbsPath(baseDir, patternFile.Context); err != nil {
		return PatternFile{}, err
	}
	if patternFile.Output != "" {
		if patternFile.Output, err = util.AbsPath(baseDir, patternFile.Output); err != nil {
			return PatternFile{}, err
		}
	}
	log.Debug("Read %d patterns from `%s`.\n", len(patternFile.Patterns), filePath)
	return patternFile, nil
}

func readYAML(filePath string, patternFile *PatternFile) error {
	// The version is checked first, newer files may carry unknown fields.
	data, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", filePath)
	}
	var version patternFileVersion
	if err := yaml.Unmarshal(data, &version); err != nil {
		return errors.Wrapf(err, "failed to parse %s", filePath)
	}
	if version.Version > PatternFileVersion {
		return errors.Errorf("pattern file %s has version %d that requires a newer version of assetcp", filePath, version.Version)
	}
	return util.ReadYaml(filePath, patternFile)
}

func readHCL(filePath string, patternFile *PatternFile) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return errors.Wrapf(diags, "failed to parse %s", filePath)
	}
	if diags := gohcl.DecodeBody(hclFile.Body, nil, patternFile); diags.HasErrors() {
		return errors.Wrapf(diags, "failed to decode %s", filePath)
	}
	return nil
}
