package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/quill/internal/content"
	"github.com/thoreinstein/quill/internal/paths"
	"github.com/thoreinstein/quill/internal/validator"
	"github.com/thoreinstein/quill/internal/watch"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Revalidate entries whenever the content config changes",
	Long: `Load the content config and keep reloading it as content.config.* files in
the project root change. After every successful load all entries are
validated and a report is printed.

Changes are debounced by watch.debounce (default 200ms). Stop with Ctrl-C.`,
	Example: `  quill watch
  QUILL_WATCH_DEBOUNCE=1s quill watch -v`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	p, err := newProject(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := watch.New(watch.Options{
		Dir:      paths.URLPath(p.paths.CacheDir),
		Debounce: p.settings.Watch.Debounce,
		Load:     p.loadConfig,
		Logger:   p.logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reporter := validator.NewReporter(out, validator.FormatText)

	session.Observable().Subscribe(content.Listen(func(c content.Ctx) {
		switch c.Status {
		case content.StatusError:
			res := &validator.Result{}
			res.Add(validator.FromLoadError(c.Err))
			_ = reporter.Report(res)
		case content.StatusLoaded:
			results, err := p.build(ctx, c.Config)
			if err != nil {
				p.logger.Error("scanning content failed", "error", err)
				return
			}
			res := validator.FromResults(results)
			if !quiet || res.HasErrors() {
				_ = reporter.Report(res)
			}
		}
	}))

	if !quiet {
		fmt.Fprintf(out, "Watching %s for content config changes\n", paths.URLPath(p.paths.CacheDir))
	}
	return session.Run(ctx)
}
