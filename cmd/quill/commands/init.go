package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/quill/internal/config"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/scaffold"
)

var (
	initFormat     string
	initCollection string
	initForce      bool
	initSettings   bool
)

func init() {
	initCmd.Flags().StringVar(&initFormat, "format", scaffold.FormatTS, "config format: ts, lua, yaml, toml, json")
	initCmd.Flags().StringVar(&initCollection, "collection", "blog", "name of the sample collection")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing content config")
	initCmd.Flags().BoolVar(&initSettings, "settings", false, "also write quill.yaml with the default settings")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter content config",
	Long: `Create content.config.ts (or .lua, .yaml, .toml, .json) in the project root with one
collection, plus a sample entry that passes its schema.

The config is rendered from a template in the generated input directory
(see 'quill paths'). The built-in template is copied there on first use so
it can be customized.`,
	Example: `  # TypeScript config with a "blog" collection
  quill init

  # Lua config instead
  quill init --format lua

  # YAML config with a "docs" collection
  quill init --format yaml --collection docs

  # Replace an existing config
  quill init --force

  See Also: quill check, quill paths`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	s := config.Default()
	if settings != nil {
		s = *settings
	}

	opts := scaffold.Options{
		FS:         hostFS,
		RootDir:    s.RootDir,
		SrcDir:     s.SrcDir,
		Format:     initFormat,
		Collection: initCollection,
		Force:      initForce,
	}
	if initSettings {
		opts.Settings = s
	}

	written, err := scaffold.Init(opts)
	if err != nil {
		return errors.NewExitError(err, errors.ExitUser)
	}

	if !quiet {
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		}
	}
	return nil
}
