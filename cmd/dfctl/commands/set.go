package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dfcache/internal/cliutil"
)

var setFromFile string

var setCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Write a key's value from a file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE:  runSet,
}

func init() {
	setCmd.Flags().StringVar(&setFromFile, "file", "", "read the value from this file instead of stdin")
}

func runSet(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if setFromFile != "" {
		data, err = os.ReadFile(setFromFile)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read value: %w", err)
	}

	fc, closeClient, err := cliutil.NewFileClient()
	if err != nil {
		return err
	}
	defer closeClient()

	if err := fc.Set(parseKeyPath(args[0]), data); err != nil {
		return fmt.Errorf("set %s: %w", args[0], err)
	}

	fmt.Printf("wrote %d bytes to %s\n", len(data), args[0])
	return nil
}
