package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dfcache/internal/cliutil"
)

var statsLevel int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache memory accounting",
	Long: `Show cache memory accounting.

Level 0 (default) shows memory and configuration only.
Level 1 adds one row per resident in-memory key.
Level 2 additionally walks root_path and lists every persisted key.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsLevel, "level", 0, "detail level (0, 1, or 2)")
}

type statsResponse struct {
	Memory struct {
		Used string `json:"used"`
		Free string `json:"free"`
		Max  string `json:"max"`
	} `json:"memory"`
	Config struct {
		RootPath  string `json:"root_path"`
		MaxMemory string `json:"max_memory"`
	} `json:"config"`
	LoadedKeys [][]string `json:"loaded_keys,omitempty"`
	AllKeys    []string   `json:"all_keys,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	fc, closeClient, err := cliutil.NewFileClient()
	if err != nil {
		return err
	}
	defer closeClient()

	body, err := fc.Stats(statsLevel)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode stats response: %w", err)
	}

	cliutil.SimpleTable(os.Stdout, [][2]string{
		{"used", resp.Memory.Used},
		{"free", resp.Memory.Free},
		{"max", resp.Memory.Max},
		{"root_path", resp.Config.RootPath},
		{"max_memory", resp.Config.MaxMemory},
	})

	if len(resp.LoadedKeys) > 0 {
		fmt.Println()
		cliutil.PrintTable(os.Stdout, loadedKeysTable(resp.LoadedKeys))
	}

	if len(resp.AllKeys) > 0 {
		fmt.Println()
		fmt.Println("all keys:")
		for _, k := range resp.AllKeys {
			fmt.Println("  " + k)
		}
	}

	return nil
}

type loadedKeysTable [][]string

func (t loadedKeysTable) Headers() []string { return []string{"KEY", "SIZE_BYTES"} }
func (t loadedKeysTable) Rows() [][]string  { return t }
