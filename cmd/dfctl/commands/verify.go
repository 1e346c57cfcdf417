package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dfcache/internal/cliutil"
	"github.com/marmos91/dfcache/pkg/cache"
)

var verifyRoot string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Re-read every persisted key and confirm get matches the on-disk bytes",
	Long: `verify walks every key known to the server (via "stats" level 2), loads
and fetches each one through the cache, and compares the returned bytes
against a direct read of the same path under --root (which must be the
same directory the server's cache.root_path points at).`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyRoot, "root", "", "the server's cache root_path, for direct on-disk comparison (required)")
	_ = verifyCmd.MarkFlagRequired("root")
}

func runVerify(cmd *cobra.Command, args []string) error {
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

	var failures int
	for _, keyStr := range resp.AllKeys {
		key := cache.Key(strings.Split(keyStr, "/"))

		if _, err := fc.Load(key); err != nil {
			fmt.Printf("FAIL %s: load: %v\n", keyStr, err)
			failures++
			continue
		}

		got, err := fc.Get(key)
		if err != nil {
			fmt.Printf("FAIL %s: get: %v\n", keyStr, err)
			failures++
			continue
		}

		want, err := os.ReadFile(key.Path(verifyRoot, ""))
		if err != nil {
			fmt.Printf("FAIL %s: read on-disk file: %v\n", keyStr, err)
			failures++
			continue
		}

		if !bytes.Equal(got, want) {
			fmt.Printf("FAIL %s: cache and disk bytes differ (%d vs %d bytes)\n", keyStr, len(got), len(want))
			failures++
		} else {
			fmt.Printf("OK   %s (%d bytes)\n", keyStr, len(got))
		}

		_ = fc.Unload(key)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d key(s) failed verification", failures, len(resp.AllKeys))
	}

	fmt.Printf("all %d key(s) verified\n", len(resp.AllKeys))
	return nil
}
