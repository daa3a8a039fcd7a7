package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/quill/internal/paths"
)

// pathsJSON holds the value of the --json flag.
var pathsJSON bool

func init() {
	pathsCmd.Flags().BoolVar(&pathsJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(pathsCmd)
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the resolved content paths",
	Long: `Print where quill looks for content and writes generated files.

The config line is empty when the project has no content config.`,
	Example: `  quill paths
  quill paths --root ./site --json`,
	Args: cobra.NoArgs,
	RunE: runPaths,
}

func runPaths(cmd *cobra.Command, _ []string) error {
	p, err := newProject(cmd)
	if err != nil {
		return err
	}

	out := struct {
		Content   string `json:"content_dir"`
		Cache     string `json:"cache_dir"`
		Generated string `json:"generated_input_dir"`
		Config    string `json:"config"`
		Store     string `json:"data_store"`
	}{
		Content:   paths.URLPath(p.paths.ContentDir),
		Cache:     paths.URLPath(p.paths.CacheDir),
		Generated: paths.URLPath(p.paths.GeneratedInputDir),
		Config:    p.paths.ConfigFile(),
		Store:     p.store().Path(),
	}

	w := cmd.OutOrStdout()
	if pathsJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "content:    %s\n", out.Content)
	fmt.Fprintf(w, "cache:      %s\n", out.Cache)
	fmt.Fprintf(w, "generated:  %s\n", out.Generated)
	fmt.Fprintf(w, "config:     %s\n", out.Config)
	fmt.Fprintf(w, "data store: %s\n", out.Store)
	return nil
}
