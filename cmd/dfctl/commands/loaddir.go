package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dfcache/internal/cliutil"
)

var loadDirCmd = &cobra.Command{
	Use:   "load-dir <directory>",
	Short: "Recursively set every file under a directory into the cache",
	Long: `load-dir walks directory and issues one "set" per regular file found,
using the file's path relative to directory (with "/" separators) as its
cache key.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoadDir,
}

func runLoadDir(cmd *cobra.Command, args []string) error {
	root := args[0]

	fc, closeClient, err := cliutil.NewFileClient()
	if err != nil {
		return err
	}
	defer closeClient()

	var count int
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := strings.Split(filepath.ToSlash(rel), "/")

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := fc.Set(key, data); err != nil {
			return fmt.Errorf("set %s: %w", rel, err)
		}

		count++
		fmt.Printf("loaded %s (%d bytes)\n", rel, len(data))
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("loaded %d file(s) from %s\n", count, root)
	return nil
}
