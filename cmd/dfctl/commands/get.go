package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dfcache/internal/cliutil"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Fetch a key's value and print it to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	fc, closeClient, err := cliutil.NewFileClient()
	if err != nil {
		return err
	}
	defer closeClient()

	data, err := fc.Get(parseKeyPath(args[0]))
	if err != nil {
		return fmt.Errorf("get %s: %w", args[0], err)
	}

	_, err = os.Stdout.Write(data)
	return err
}
