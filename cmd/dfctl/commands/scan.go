package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dfcache/internal/cliutil"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List every key persisted under the server's root_path",
	Long:  `scan is a thin wrapper over "stats --level 2" that prints one key per line.`,
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	fc, closeClient, err := cliutil.NewFileClient()
	if err != nil {
		return err
	}
	defer closeClient()

	body, err := fc.Stats(2)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode stats response: %w", err)
	}

	for _, key := range resp.AllKeys {
		fmt.Println(key)
	}
	fmt.Printf("%d key(s)\n", len(resp.AllKeys))
	return nil
}
