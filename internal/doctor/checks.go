package doctor

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/util"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/paths"
	"github.com/thoreinstein/quill/internal/store"
)

// ConfigCheck verifies that the project has a content config that loads.
type ConfigCheck struct {
	project *Project
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a new content config check.
func NewConfigCheck(p *Project) *ConfigCheck {
	return &ConfigCheck{project: p}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "content-config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run executes the content config check.
func (c *ConfigCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.project.ConfigPath == "" {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("no %s file in %s", paths.ConfigBasename, c.project.RootDir)
		result.FixHint = "run 'quill init' to create one"
		return result
	}

	cfg, err := c.project.config(ctx)
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		result.Details = map[string]any{"path": c.project.ConfigPath}
		if hint := errors.FlattenHints(err); hint != "" {
			result.FixHint = hint
		} else {
			result.FixHint = "run 'quill check' for details"
		}
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("loaded %s (%d collection%s)", c.project.ConfigPath, len(cfg.Collections), plural(len(cfg.Collections)))
	result.Details = map[string]any{
		"path":        c.project.ConfigPath,
		"collections": len(cfg.Collections),
	}
	return result
}

// CollectionDirsCheck compares declared collections with the directories
// under the content directory.
type CollectionDirsCheck struct {
	project *Project
}

var _ Check = (*CollectionDirsCheck)(nil)

// NewCollectionDirsCheck creates a new collection directory check.
func NewCollectionDirsCheck(p *Project) *CollectionDirsCheck {
	return &CollectionDirsCheck{project: p}
}

// Name returns the unique identifier for this check.
func (c *CollectionDirsCheck) Name() string {
	return "collection-dirs"
}

// Category returns the grouping for this check.
func (c *CollectionDirsCheck) Category() string {
	return "content"
}

// Run executes the collection directory check.
func (c *CollectionDirsCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	cfg, err := c.project.config(ctx)
	if err != nil {
		result.Status = SeverityInfo
		result.Message = "skipped: content config did not load"
		return result
	}

	if _, err := c.project.FS.Stat(c.project.ContentDir); err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("content directory %s does not exist", c.project.ContentDir)
		result.FixHint = "create it or pass --src"
		return result
	}

	dirs, err := c.project.scanner().Collections(c.project.ContentDir)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("reading content directory: %v", err)
		return result
	}

	var undeclared, empty []string
	for _, d := range dirs {
		if _, ok := cfg.Collections[d]; !ok {
			undeclared = append(undeclared, d)
		}
	}
	for name := range cfg.Collections {
		if !slices.Contains(dirs, name) {
			empty = append(empty, name)
		}
	}
	slices.Sort(empty)

	result.Details = map[string]any{"directories": dirs}
	switch {
	case len(undeclared) > 0:
		result.Status = SeverityWarning
		result.Message = "directories without a collection definition: " + strings.Join(undeclared, ", ")
		result.FixHint = "declare them in the content config or prefix their names with _"
		result.Details["undeclared"] = undeclared
	case len(empty) > 0:
		result.Status = SeverityInfo
		result.Message = "collections without a directory: " + strings.Join(empty, ", ")
		result.Details["empty"] = empty
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("every collection directory is declared (%d)", len(dirs))
	}
	return result
}

// EntriesCheck validates every entry.
type EntriesCheck struct {
	project *Project
}

var _ Check = (*EntriesCheck)(nil)

// NewEntriesCheck creates a new entry validation check.
func NewEntriesCheck(p *Project) *EntriesCheck {
	return &EntriesCheck{project: p}
}

// Name returns the unique identifier for this check.
func (c *EntriesCheck) Name() string {
	return "entries"
}

// Category returns the grouping for this check.
func (c *EntriesCheck) Category() string {
	return "content"
}

// Run executes the entry validation check.
func (c *EntriesCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if _, err := c.project.config(ctx); err != nil {
		result.Status = SeverityInfo
		result.Message = "skipped: content config did not load"
		return result
	}

	results, err := c.project.build(ctx)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("scanning content: %v", err)
		return result
	}

	var valid, failed int
	for _, r := range results {
		valid += len(r.Entries)
		failed += len(r.Failures)
	}
	result.Details = map[string]any{"valid": valid, "failed": failed}

	if failed > 0 {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d of %d entries failed validation", failed, valid+failed)
		result.FixHint = "run 'quill check' for details"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d entr%s valid", valid, pluralY(valid))
	return result
}

// StoreCheck reports a missing or outdated data store. It can fix both by
// syncing when every entry is valid.
type StoreCheck struct {
	project *Project
	now     func() time.Time
	stale   bool
}

var (
	_ Check = (*StoreCheck)(nil)
	_ Fixer = (*StoreCheck)(nil)
)

// NewStoreCheck creates a new data store check.
func NewStoreCheck(p *Project) *StoreCheck {
	return &StoreCheck{project: p, now: time.Now}
}

// Name returns the unique identifier for this check.
func (c *StoreCheck) Name() string {
	return "data-store"
}

// Category returns the grouping for this check.
func (c *StoreCheck) Category() string {
	return "store"
}

// Run executes the data store check.
func (c *StoreCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}
	c.stale = false

	if _, err := c.project.config(ctx); err != nil {
		result.Status = SeverityInfo
		result.Message = "skipped: content config did not load"
		return result
	}

	path := c.project.Store.Path()
	result.Details = map[string]any{"path": path}

	doc, err := c.project.Store.Read()
	switch {
	case errors.Is(err, store.ErrNoStore):
		c.stale = true
		result.Status = SeverityInfo
		result.Message = "no data store yet"
		result.Fixable = true
		result.FixHint = "run 'quill sync'"
		return result
	case err != nil:
		c.stale = true
		result.Status = SeverityWarning
		result.Message = err.Error()
		result.Fixable = true
		result.FixHint = "run 'quill sync' to regenerate it"
		return result
	}

	newest, newestAt, err := c.newestSource()
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("checking source files: %v", err)
		return result
	}
	result.Details["generated_at"] = doc.GeneratedAt

	if newestAt.After(doc.GeneratedAt) {
		c.stale = true
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("data store is older than %s", newest)
		result.Fixable = true
		result.FixHint = "run 'quill sync'"
		return result
	}

	result.Status = SeverityPass
	result.Message = "data store is up to date"
	return result
}

// newestSource returns the most recently modified of the config file and
// the files under the content directory.
func (c *StoreCheck) newestSource() (string, time.Time, error) {
	var newest string
	var newestAt time.Time

	if c.project.ConfigPath != "" {
		fi, err := c.project.FS.Stat(c.project.ConfigPath)
		if err != nil {
			return "", time.Time{}, errors.Wrapf(err, "stat %s", c.project.ConfigPath)
		}
		newest, newestAt = c.project.ConfigPath, fi.ModTime()
	}

	err := util.Walk(c.project.FS, c.project.ContentDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().After(newestAt) {
			newest, newestAt = path, info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", time.Time{}, errors.Wrapf(err, "walking %s", c.project.ContentDir)
	}
	return newest, newestAt, nil
}

// CanFix reports whether the last Run found a missing or outdated store.
func (c *StoreCheck) CanFix() bool {
	return c.stale
}

// Fix rebuilds the data store. Nothing is written when an entry fails.
func (c *StoreCheck) Fix(ctx context.Context) []FixResult {
	path := c.project.Store.Path()
	result := FixResult{Path: path}

	cfg, err := c.project.config(ctx)
	if err != nil {
		result.Description = "content config did not load"
		result.Error = err
		return []FixResult{result}
	}

	results, err := c.project.build(ctx)
	if err != nil {
		result.Description = "scanning content failed"
		result.Error = err
		return []FixResult{result}
	}
	for _, r := range results {
		if !r.OK() {
			result.Description = "entries failed validation; run 'quill check'"
			result.Error = errors.Newf("collection %q has invalid entries", r.Collection)
			return []FixResult{result}
		}
	}

	if err := c.project.Store.Write(store.NewDocument(cfg.Path, results, c.now())); err != nil {
		result.Description = "writing data store failed"
		result.Error = err
		return []FixResult{result}
	}

	c.stale = false
	result.Fixed = true
	result.Description = "synced data store"
	return []FixResult{result}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
