package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"
	// GitCommit is set during build
	GitCommit = "none"
	// BuildDate is set during build
	BuildDate = "unknown"
)

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apply-patch [flags] [patch-file|-]",
		Short: "Apply a multi-file patch to the working tree",
		Long: `apply-patch applies a patch in the "*** Begin Patch" / "*** End Patch"
format to files under the working directory. The patch is read from the
given file, or from stdin when the file is omitted or "-".

Nothing is written unless the whole patch parses and every hunk finds its
context.

Examples:
  apply-patch change.patch
  cat change.patch | apply-patch --dry-run
  apply-patch --cwd ./repo --confirm change.patch`,
		Args:              cobra.MaximumNArgs(1),
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.teardown() },
		RunE:              a.runApply,
	}

	rootCmd.PersistentFlags().String("cwd", "", "Directory patch paths are resolved against (default: current directory)")
	rootCmd.PersistentFlags().Int("max-fuzz", 0, "Reject patches whose fuzz exceeds this value (0 disables the limit)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to a file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log to stderr")
	rootCmd.PersistentFlags().String("log-file", "", "Path to the log file (default: ~/.cache/apply-patch-go/logs/apply-patch-<timestamp>.log)")

	rootCmd.Flags().Bool("dry-run", false, "Show what the patch would change without writing anything")
	rootCmd.Flags().Bool("confirm", false, "Ask for approval before applying")

	rootCmd.AddCommand(checkCmd(a))
	rootCmd.AddCommand(filesCmd(a))
	rootCmd.AddCommand(completionCmd())

	return rootCmd
}

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [patch-file|-]",
		Short: "Parse a patch against the working tree without applying it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runCheck,
	}
}

func filesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files [patch-file|-]",
		Short: "List the files a patch reads, deletes and creates",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runFiles,
	}
}

// completionCmd creates the completion command for shell completion scripts
func completionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for apply-patch.
To load completions:

Bash:
  $ source <(apply-patch completion bash)

Zsh:
  $ source <(apply-patch completion zsh)

Fish:
  $ apply-patch completion fish | source
`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish"},
		// The root pre-run loads config and opens logs, neither needed here
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			default:
				return cmd.Root().GenFishCompletion(out, true)
			}
		},
	}

	return cmd
}

// main is the entry point of the application
func main() {
	a := newApp(afero.NewOsFs(), os.Stdin, os.Stdout, os.Stderr)

	if err := newRootCmd(a).Execute(); err != nil {
		a.logger.Log("command failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.teardown()
		os.Exit(1)
	}
}

// createLatestLogSymlink attempts to create or update the latest.log symlink.
func createLatestLogSymlink(a *app, logPath string) {
	if runtime.GOOS == "windows" {
		// Symlinks are tricky on Windows, skip for now.
		return
	}
	logDir := filepath.Dir(logPath)
	linkPath := filepath.Join(logDir, "latest.log")

	_ = os.Remove(linkPath)

	if err := os.Symlink(filepath.Base(logPath), linkPath); err != nil {
		a.logger.Log("Warning: Failed to create/update latest.log symlink: %v", err)
	}
}
