package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the titles database",
	Long:  "Delete the SQLite titles database together with its WAL files. Stored histories, players and evaluations are lost; 'loltitles import' or 'loltitles watch' rebuilds them from the client.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if !dropForce {
		fmt.Fprintf(cmd.ErrOrStderr(), "This will delete %s and its -wal/-shm files.\nRe-run with --force to confirm.\n", dbPath)
		return nil
	}
	removed, err := removeDatabase(dbPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(removed) == 0 {
		fmt.Fprintln(out, "Database does not exist, nothing to drop.")
		return nil
	}
	for _, p := range removed {
		fmt.Fprintf(out, "Deleted: %s\n", p)
	}
	return nil
}

// removeDatabase deletes the database at path and the sidecar files SQLite
// keeps next to it in WAL mode. It returns the files it actually removed.
func removeDatabase(path string) ([]string, error) {
	var removed []string
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed = append(removed, p)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return removed, nil
}
