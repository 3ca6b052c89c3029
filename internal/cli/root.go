package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitFindings     = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
	ExitInputError   = 5
)

var rootCmd = &cobra.Command{
	Use:   "checkgate",
	Short: "Gate CI builds on untracked scan findings",
	Long: `checkgate reads a Checkov JSON report and compares every failed check with
the tickets already on the security board.

On protected branches novel findings are filed as a tracking ticket and a
linked work ticket. On any other branch they are printed and the build fails.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runReconcile,
}

// Run executes the root command and returns an exit code.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print checkgate version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "checkgate version %s\n", version)
	},
}

func init() {
	addReconcileFlags(rootCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
