package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/quill/internal/doctor"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/paths"
)

var (
	doctorJSON bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"sync the data store when it is missing or outdated")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose project issues",
	Long: `Run diagnostic checks on the project: whether the content config loads,
whether collection directories match the declared collections, whether every
entry is valid, and whether the data store is current.

Output modes:
  (default)   Show errors and warnings
  -v          Show all checks including passed ones
  -q          No output, exit code only
  --json      Machine-readable JSON output

Exits with status 1 when any check reports an error.`,
	Example: `  quill doctor
  quill doctor --fix
  quill doctor --json

  See Also: quill check, quill sync`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	p, err := newProject(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runner := doctor.NewRunner()
	for _, check := range doctor.DefaultChecks(&doctor.Project{
		FS:         p.fs,
		RootDir:    filepath.Clean(paths.URLPath(p.paths.CacheDir)),
		ConfigPath: p.paths.ConfigFile(),
		ContentDir: p.contentDir(),
		Store:      p.store(),
		Load:       p.loadConfig,
		Logger:     p.logger,
	}) {
		runner.AddCheck(check)
	}

	report := runner.Run(ctx)

	var fixes []doctor.FixResult
	if doctorFix {
		fixes = runner.FixAll(ctx)
	}

	w := cmd.OutOrStdout()
	if err := outputDoctorReport(w, report, fixes); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(errors.Wrap(errReported, "doctor found errors"), errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport, fixes []doctor.FixResult) error {
	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		out := struct {
			*doctor.DoctorReport
			Fixes []doctor.FixResult `json:"fixes,omitempty"`
		}{report, fixes}
		if err := enc.Encode(out); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		return nil
	}

	if quiet {
		return nil
	}
	outputDoctorText(w, report, fixes)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport, fixes []doctor.FixResult) {
	// Without -v, show only errors and warnings
	showAll := verbosity > 0

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	for _, fix := range fixes {
		hasOutput = true
		if fix.Fixed {
			fmt.Fprintf(w, "✓ fixed %s: %s\n", fix.Path, fix.Description)
			continue
		}
		fmt.Fprintf(w, "✗ could not fix %s: %s\n", fix.Path, fix.Description)
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
