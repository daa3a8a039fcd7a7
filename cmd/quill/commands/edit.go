package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/quill/internal/editor"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/store"
)

// openEditor opens a file in the user's editor. Tests override it.
var openEditor = editor.Open

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit [collection] [id-or-slug]",
	Short: "Open a synced entry in your editor",
	Long: `Open the source file of an entry in $QUILL_EDITOR, $EDITOR or $VISUAL.

Entries are looked up in the data store by ID or slug, like 'quill show'.
Without arguments on an interactive terminal, a fuzzy finder lets you pick
one.`,
	Example: `  quill edit blog first-post
  EDITOR="code --wait" quill edit

  See Also: quill show, quill sync`,
	Args: cobra.MaximumNArgs(2),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	p, err := newProject(cmd)
	if err != nil {
		return err
	}

	doc, err := p.store().Read()
	if err != nil {
		if errors.Is(err, store.ErrNoStore) {
			return errors.NewUserError(err, "run 'quill sync' first")
		}
		return errors.NewSystemError(err, "run 'quill sync' to regenerate the data store")
	}

	entry, err := selectEntry(doc, args)
	if err != nil || entry == nil {
		return err
	}

	p.logger.Debug("opening entry", "collection", entry.Collection, "id", entry.ID, "path", entry.FilePath)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	streams := editor.StdStreams()
	streams.Out = cmd.OutOrStdout()
	streams.Err = cmd.ErrOrStderr()
	if err := openEditor(ctx, entry.FilePath, streams); err != nil {
		return errors.NewExitError(err, errors.ExitUser)
	}
	return nil
}
