package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mongomentor %s (built %s, %s %s/%s)\n",
				Version, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
