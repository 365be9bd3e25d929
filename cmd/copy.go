package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/daedaleanai/assetcp/config"
	"github.com/daedaleanai/assetcp/copier"
	"github.com/daedaleanai/assetcp/log"
	"github.com/daedaleanai/assetcp/pattern"
	"github.com/daedaleanai/assetcp/storage"
	"github.com/daedaleanai/assetcp/util"
)

type mode uint

const (
	modeCopy mode = iota
	modeResolve
)

var copyCmd = &cobra.Command{
	Use:   "copy [from[=to] ...] [-f pattern file]",
	Short: "Copies files into the output directory",
	Long: `Copies the files selected by the patterns into the output directory.
Patterns are read from the pattern file and from the arguments, where
"from=to" copies from to the destination to and a plain "from" keeps the
relative location of the files.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCopy(cmd.OutOrStdout(), args, modeCopy)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [from[=to] ...] [-f pattern file]",
	Short: "Prints the output keys without copying",
	Long:  `Resolves the patterns like copy does and prints every source with its output key.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCopy(cmd.OutOrStdout(), args, modeResolve)
	},
}

type copyFlags struct {
	patternFile  string
	outputDir    string
	contextDir   string
	hashFunction string
	numThreads   int
	failFast     bool
	force        bool
}

var flags copyFlags

func init() {
	for _, cmd := range []*cobra.Command{copyCmd, resolveCmd} {
		rootCmd.AddCommand(cmd)
		cmd.Flags().StringVarP(&flags.patternFile, "file", "f", "", fmt.Sprintf("Read patterns from this file (defaults to %s if present)", config.DefaultPatternFile))
		cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Output directory")
		cmd.Flags().StringVarP(&flags.contextDir, "context", "C", "", "Directory relative patterns are anchored at")
		cmd.Flags().StringVar(&flags.hashFunction, "hash-function", "", "Digest algorithm of hash placeholders without one")
		cmd.Flags().IntVarP(&flags.numThreads, "threads", "j", 0, "Process N files in parallel. Defaults to the configured concurrency.")
		cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "Stop at the first failure")
		cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite assets emitted by an earlier pattern")
	}
}

// parseArgs turns "from=to" and "from" arguments into patterns.
func parseArgs(args []string) []pattern.Pattern {
	patterns := []pattern.Pattern{}
	for _, arg := range args {
		if strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			patterns = append(patterns, pattern.Pattern{From: parts[0], To: parts[1]})
		} else {
			patterns = append(patterns, pattern.Pattern{From: arg})
		}
	}
	return patterns
}

type batch struct {
	options  copier.Options
	patterns []pattern.Pattern
}

// newBatch merges the configuration, the pattern file and the command line.
// The command line takes precedence over the pattern file, which takes
// precedence over the configuration.
func newBatch(cfg config.Config, flags copyFlags, args []string) (batch, error) {
	workingDir, err := util.GetWorkingDir()
	if err != nil {
		return batch{}, err
	}

	b := batch{
		options: copier.Options{
			OutputRoot:   cfg.OutputDir,
			WorkingDir:   workingDir,
			HashFunction: cfg.HashFunction,
			Concurrency:  cfg.Concurrency,
			FailFast:     cfg.FailFast || flags.failFast,
		},
	}

	patternFilePath := flags.patternFile
	if patternFilePath == "" && len(args) == 0 && util.FileExists(config.DefaultPatternFile) {
		patternFilePath = config.DefaultPatternFile
	}
	if patternFilePath != "" {
		patternFile, err := config.ReadPatternFile(patternFilePath)
		if err != nil {
			return batch{}, err
		}
		b.patterns = patternFile.Patterns
		b.options.WorkingDir = patternFile.Context
		if patternFile.Output != "" {
			b.options.OutputRoot = patternFile.Output
		}
	}
	b.patterns = append(b.patterns, parseArgs(args)...)

	if flags.contextDir != "" {
		if b.options.WorkingDir, err = util.AbsPath(workingDir, flags.contextDir); err != nil {
			return batch{}, err
		}
	}
	if !util.DirExists(b.options.WorkingDir) {
		return batch{}, fmt.Errorf("context directory %s does not exist", b.options.WorkingDir)
	}
	if flags.outputDir != "" {
		b.options.OutputRoot = flags.outputDir
	}
	if b.options.OutputRoot, err = util.AbsPath(workingDir, b.options.OutputRoot); err != nil {
		return batch{}, err
	}
	if flags.hashFunction != "" {
		b.options.HashFunction = flags.hashFunction
	}
	if flags.numThreads > 0 {
		b.options.Concurrency = flags.numThreads
	}
	if flags.force {
		for idx := range b.patterns {
			b.patterns[idx].Force = true
		}
	}
	return b, nil
}

func runCopy(out io.Writer, args []string, mode mode) {
	b, err := newBatch(config.GetConfig(), flags, args)
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	if len(b.patterns) == 0 {
		log.Fatal("No patterns given.\n")
	}
	log.Debug("Output directory: %s.\n", b.options.OutputRoot)
	log.Debug("Context directory: %s.\n", b.options.WorkingDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := storage.New()
	c := copier.New(b.options, srv, srv)
	result, err := c.Resolve(ctx, b.patterns)

	if err == nil && mode == modeResolve {
		for _, asset := range result.Assets.Entries() {
			fmt.Fprintf(out, "%s -> %s\n", asset.Value.Source, asset.Key)
		}
	}

	if err == nil && mode == modeCopy {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Writer = os.Stderr
		s.Suffix = fmt.Sprintf(" Copying %d files to %s", result.Assets.Len(), b.options.OutputRoot)
		if !log.Verbose {
			s.Start()
		}
		err = c.Emit(ctx, result)
		s.Stop()
	}

	for _, failure := range result.Failures {
		log.Error("%s.\n", failure)
	}
	if err != nil && len(result.Failures) == 0 {
		log.Error("%s.\n", err)
	}
	if log.ErrorOccured() {
		log.Fatal("%d of the selected files could not be copied.\n", len(result.Failures))
	}

	if mode == modeCopy {
		log.Success("Copied %d files to %s.\n", result.Assets.Len(), b.options.OutputRoot)
	}
}
