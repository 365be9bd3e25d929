package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var completionShells = map[string]func(cmd *cobra.Command, w io.Writer) error{
	"bash": func(cmd *cobra.Command, w io.Writer) error { return cmd.GenBashCompletion(w) },
	"zsh":  func(cmd *cobra.Command, w io.Writer) error { return cmd.GenZshCompletion(w) },
	"fish": func(cmd *cobra.Command, w io.Writer) error { return cmd.GenFishCompletion(w, true) },
	"powershell": func(cmd *cobra.Command, w io.Writer) error {
		return cmd.GenPowerShellCompletion(w)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `Prints the shell completion script of assetcp.

Bash:
  $ source <(assetcp completion bash)

Zsh:
  $ assetcp completion zsh > "${fpath[1]}/_assetcp"

fish:
  $ assetcp completion fish | source

PowerShell:
  PS> assetcp completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	RunE:                  runCompletion,
	Hidden:                true,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	gen, ok := completionShells[args[0]]
	if !ok {
		return fmt.Errorf("unsupported shell %s", args[0])
	}
	return gen(cmd.Root(), cmd.OutOrStdout())
}
