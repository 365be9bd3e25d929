package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daedaleanai/assetcp/config"
)

const assetcpVersion = "v0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Args:  cobra.NoArgs,
	Short: "Prints the version of this tool",
	Long:  `Prints the version of this tool and the newest pattern file version it reads.`,
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "assetcp %s (pattern file version %d)\n", assetcpVersion, config.PatternFileVersion)
}
