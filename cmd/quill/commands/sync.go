package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/store"
)

func init() {
	syncCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "report format: text, json")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Validate entries and write the data store",
	Long: `Validate every entry like 'quill check' and, when all entries pass, write
them to the data store at .quill/data-store.json in the project root.

The data store is left untouched when validation fails.`,
	Example: `  # Refresh the data store
  quill sync

  See Also: quill check, quill show`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
	p, err := newProject(cmd)
	if err != nil {
		return err
	}

	cfg, results, err := checkProject(cmd, p)
	if err != nil {
		return err
	}

	doc := store.NewDocument(cfg.Path, results, time.Now())
	s := p.store()
	if err := s.Write(doc); err != nil {
		return errors.NewSystemError(err, "check that the project root is writable")
	}

	if !quiet {
		entries := 0
		for _, c := range doc.Collections {
			entries += len(c.Entries)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d entries to %s\n", entries, s.Path())
	}
	return nil
}
