package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/quill/internal/collection"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/logging"
	"github.com/thoreinstein/quill/internal/store"
)

// showQuery holds the value of the --query flag.
var showQuery string

// interactive reports whether a picker can be shown. Tests override it.
var interactive = func() bool {
	return logging.IsInteractive(os.Stdin, os.Stdout)
}

// pickEntry lets the user choose an entry. Tests override it.
var pickEntry = fuzzyPick

func init() {
	showCmd.Flags().StringVar(&showQuery, "query", "", "print only the value at this gjson path (e.g. data.title)")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [collection] [id-or-slug]",
	Short: "Print a synced entry as JSON",
	Long: `Print one entry from the data store as JSON.

Entries are looked up by ID or slug. When the entry is not given and the
terminal is interactive, a fuzzy finder lets you pick one. Run 'quill sync'
first to generate the data store.`,
	Example: `  # Print an entry
  quill show blog first-post

  # Print one field
  quill show blog first-post --query data.title

  # Pick interactively
  quill show

  See Also: quill sync`,
	Args: cobra.MaximumNArgs(2),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
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
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding entry")
	}

	return printEntry(cmd.OutOrStdout(), data, showQuery)
}

func selectEntry(doc *store.Document, args []string) (*collection.ProcessedEntry, error) {
	if len(args) == 2 {
		entry, ok := doc.Entry(args[0], args[1])
		if !ok {
			return nil, errors.NewUserError(
				errors.Newf("entry %q not found in collection %q", args[1], args[0]),
				"run 'quill sync' if the entry was added recently")
		}
		return entry, nil
	}

	var candidates []collection.ProcessedEntry
	if len(args) == 1 {
		c, ok := doc.Collections[args[0]]
		if !ok {
			return nil, errors.NewUserError(
				errors.Newf("collection %q not found", args[0]),
				"known collections are listed in the content config")
		}
		candidates = c.Entries
	} else {
		for _, name := range doc.Names() {
			candidates = append(candidates, doc.Collections[name].Entries...)
		}
	}

	if !interactive() {
		return nil, errors.NewUserError(
			errors.New("no entry given"),
			"pass a collection and an entry ID or slug")
	}
	if len(candidates) == 0 {
		return nil, errors.NewUserError(errors.New("no entries to show"), "run 'quill sync' first")
	}
	return pickEntry(candidates)
}

func fuzzyPick(entries []collection.ProcessedEntry) (*collection.ProcessedEntry, error) {
	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			return entries[i].Collection + "/" + entries[i].Slug
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			e := entries[i]
			data, _ := json.MarshalIndent(e.Data, "", "  ")
			return fmt.Sprintf("ID: %s\nFile: %s\n\n%s", e.ID, e.FilePath, data)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}
	return &entries[idx], nil
}

func printEntry(w io.Writer, data []byte, query string) error {
	if query == "" {
		_, err := fmt.Fprintln(w, string(data))
		return err
	}

	res := gjson.GetBytes(data, query)
	if !res.Exists() {
		return errors.NewUserError(errors.Newf("no value at %q", query), "paths use gjson syntax, e.g. data.tags.0")
	}
	if res.IsObject() || res.IsArray() {
		_, err := fmt.Fprintln(w, res.Raw)
		return err
	}
	_, err := fmt.Fprintln(w, res.String())
	return err
}
