package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/pkg/frontmatter"
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate Markdown documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outputDir, _ := cmd.Flags().GetString("dir")
		if outputDir == "" {
			return errors.NewUserError(errors.New("output directory is required"), "pass --dir")
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}

		// The pages carry frontmatter so they can live in a docs collection.
		var prependErr error
		prepender := func(filename string) string {
			out, err := docFrontmatter(filename)
			if err != nil && prependErr == nil {
				prependErr = err
			}
			return out
		}

		if err := doc.GenMarkdownTreeCustom(rootCmd, outputDir, prepender, linkHandler); err != nil {
			return errors.Wrap(err, "generating markdown")
		}
		if prependErr != nil {
			return prependErr
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", outputDir)
		return nil
	},
}

func init() {
	genDocCmd.Flags().StringP("dir", "d", "", "Output directory for documentation")
	rootCmd.AddCommand(genDocCmd)
}

func docFrontmatter(filename string) (string, error) {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// quill_show.md -> quill show
	title := strings.ReplaceAll(base, "_", " ")

	out, err := frontmatter.Format(frontmatter.KindYAML, map[string]any{
		"title":       title,
		"description": "Reference for " + title + " command",
		"draft":       false,
	}, "")
	if err != nil {
		return "", errors.Wrapf(err, "formatting frontmatter for %s", name)
	}
	return string(out), nil
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
