package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dfcache/internal/cliutil"
)

var loadCmd = &cobra.Command{
	Use:   "load <key>",
	Short: "Admit a key into memory and print its length",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	fc, closeClient, err := cliutil.NewFileClient()
	if err != nil {
		return err
	}
	defer closeClient()

	body, err := fc.Load(parseKeyPath(args[0]))
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	var info struct {
		Length int `json:"length"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("decode load response: %w", err)
	}

	fmt.Printf("%s: %d bytes\n", args[0], info.Length)
	return nil
}

var unloadCmd = &cobra.Command{
	Use:   "unload <key>",
	Short: "Drop a key's in-memory entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnload,
}

func runUnload(cmd *cobra.Command, args []string) error {
	fc, closeClient, err := cliutil.NewFileClient()
	if err != nil {
		return err
	}
	defer closeClient()

	if err := fc.Unload(parseKeyPath(args[0])); err != nil {
		return fmt.Errorf("unload %s: %w", args[0], err)
	}

	fmt.Printf("unloaded %s\n", args[0])
	return nil
}
