package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daedaleanai/assetcp/log"
)

var rootCmd = &cobra.Command{
	Use:   "assetcp",
	Short: "Copies files into a build output tree",
	Long: `assetcp copies files selected by patterns into a build output tree.
Destinations can be files, directories or templates with placeholders such as
[name], [ext], [path] and [contenthash], which are resolved to output keys
relative to the output directory.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
