package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for enumdir.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enumdir",
		Short: "Discover hidden files and directories on web servers",
		Long: `enumdir discovers hidden content on a web server.

It generates candidate paths, either by enumerating every short name over
[a-zA-Z0-9] or from a dictionary, probes them concurrently and writes every
response that is not a 404 to a result file as "<code> <url>".

Runs are kept in a local history database so earlier results can be listed
with "enumdir history".`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "enumdir:", err)
		os.Exit(1)
	}
}
