package cmd

import (
	"fmt"
	"io"

	"github.com/ayden94/caro-kann-docs/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionOutput string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for carodocs: version, git commit, build
time, Go version and target platform.

Examples:
  carodocs version              # Show version details
  carodocs version --short      # Show the version only
  carodocs version --output json`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	addOutputFlag(versionCmd, &versionOutput)
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.Get()

	return writeOutput(cmd.OutOrStdout(), versionOutput, info, func(w io.Writer) error {
		if versionShort {
			_, err := fmt.Fprintln(w, info.Short())
			return err
		}

		buildType := "development"
		if info.IsRelease() {
			buildType = "release"
		}
		_, err := fmt.Fprintf(w, "carodocs\n%s\nBuild type: %s\n", info, buildType)
		return err
	})
}
