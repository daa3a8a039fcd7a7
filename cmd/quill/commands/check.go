package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/quill/internal/collection"
	"github.com/thoreinstein/quill/internal/content"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/validator"
)

// reportFormat holds the value of the --format flag of check and sync.
var reportFormat string

func init() {
	checkCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "report format: text, json")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every content entry",
	Long: `Load the content config and validate every entry of every collection
against its schema.

Exits with status 1 when the config cannot be loaded or any entry fails.`,
	Example: `  # Validate the project in the current directory
  quill check

  # Machine-readable report
  quill check --format json

  See Also: quill sync, quill watch`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	p, err := newProject(cmd)
	if err != nil {
		return err
	}
	_, _, err = checkProject(cmd, p)
	return err
}

// checkProject loads, builds and reports. The returned error is non-nil
// when anything failed; the report has already been written by then.
func checkProject(cmd *cobra.Command, p *project) (*content.ContentConfig, []*collection.Result, error) {
	format, err := validator.ParseFormat(reportFormat)
	if err != nil {
		return nil, nil, errors.NewUserError(err, "use --format text or --format json")
	}
	reporter := validator.NewReporter(cmd.OutOrStdout(), format)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := p.loadConfig(ctx)
	if err != nil {
		res := &validator.Result{}
		res.Add(validator.FromLoadError(err))
		if repErr := reporter.Report(res); repErr != nil {
			return nil, nil, repErr
		}
		return nil, nil, errors.NewExitError(errors.Wrap(errReported, "loading content config"), errors.ExitUser)
	}

	results, err := p.build(ctx, cfg)
	if err != nil {
		return nil, nil, errors.NewSystemError(err, "check that the content directory is readable")
	}

	res := validator.FromResults(results)
	if !quiet || res.HasErrors() {
		if err := reporter.Report(res); err != nil {
			return nil, nil, err
		}
	}
	if res.HasErrors() {
		return cfg, results, errors.NewExitError(errors.Wrap(errReported, "validation failed"), errors.ExitUser)
	}
	return cfg, results, nil
}
