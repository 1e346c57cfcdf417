// Package commands implements the CLI commands for the dfctl client.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/dfcache/internal/cliutil"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dfctl",
	Short: "dfctl - client for the bounded-memory file cache server",
	Long: `dfctl is the command-line client for a dfserver cache. It speaks the
same length-framed TCP protocol as the client library, pooling connections
through one dial per invocation.

Use "dfctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cliutil.Flags.Addr, "addr", "127.0.0.1:6380", "cache server address")
	rootCmd.PersistentFlags().IntVar(&cliutil.Flags.MaxConnections, "max-connections", 4, "max pooled connections")
	rootCmd.PersistentFlags().IntVar(&cliutil.Flags.MaxRetries, "max-retries", 3, "max dial retries")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(unloadCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(loadDirCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(scanCmd)
}
