package content

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/thoreinstein/quill/internal/config"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/logging"
	"github.com/thoreinstein/quill/internal/paths"
	"github.com/thoreinstein/quill/internal/runtime"
	"github.com/thoreinstein/quill/internal/runtime/declarative"
	"github.com/thoreinstein/quill/internal/runtime/js"
	"github.com/thoreinstein/quill/internal/runtime/lua"
	"github.com/thoreinstein/quill/internal/schema"
)

// LoadOptions configures LoadConfig.
type LoadOptions struct {
	// FS is used to find and read the config. Defaults to the host
	// filesystem.
	FS billy.Filesystem
	// Settings supplies the root and source directories.
	Settings config.Config
	// Runtimes executes the config file. Defaults to DefaultRuntimes(FS).
	Runtimes *runtime.Registry
	Logger   *slog.Logger
}

// DefaultRuntimes returns the registry for every supported config
// extension, reading files from fs.
func DefaultRuntimes(fs billy.Filesystem) *runtime.Registry {
	reg := runtime.NewRegistry()

	script := js.New(fs, js.WithModules(js.Content()))
	for _, ext := range []string{".ts", ".js", ".mjs"} {
		reg.Register(ext, script)
	}

	reg.Register(".lua", lua.New(fs, lua.WithPlugins(lua.ContentPlugin())))

	data := declarative.New(fs)
	for _, ext := range []string{".yaml", ".yml", ".toml", ".json"} {
		reg.Register(ext, data)
	}
	return reg
}

// configShape is the exported shape every content config must have.
var configShape = schema.Object(map[string]schema.Validator{
	"collections": schema.Record(schema.Object(map[string]schema.Validator{
		"schema": schema.Optional(schema.Any()),
		"slug":   schema.Optional(schema.Func()),
	})),
})

// LoadConfig finds, executes and validates the project's content config.
//
// It returns exactly one of a config, a *NotFoundError or a
// *SchemaParseError. The runtime environment is closed before returning on
// every path.
func LoadConfig(ctx context.Context, opts LoadOptions) (*ContentConfig, error) {
	logger := logging.OrDiscard(opts.Logger)

	fs := opts.FS
	if fs == nil {
		fs = osfs.New("/")
	}

	p, err := paths.ContentPaths(paths.Options{
		RootDir: opts.Settings.RootDir,
		SrcDir:  opts.Settings.SrcDir,
		FS:      fs,
	})
	if err != nil {
		logger.Debug("resolving content paths failed", "root", opts.Settings.RootDir, "error", err)
		return nil, &NotFoundError{Path: opts.Settings.RootDir, Cause: err}
	}

	file := p.ConfigFile()
	if file == "" {
		logger.Debug("no content config found", "root", paths.URLPath(p.CacheDir))
		return nil, &NotFoundError{Path: paths.URLPath(p.CacheDir)}
	}

	runtimes := opts.Runtimes
	if runtimes == nil {
		runtimes = DefaultRuntimes(fs)
	}

	exports, err := execute(ctx, runtimes, file, logger)
	if err != nil {
		logger.Debug("content config failed to execute", "path", file, "error", err)
		return nil, &NotFoundError{Path: file, Cause: err}
	}

	return parseConfig(ctx, file, exports)
}

// execute imports file in a fresh environment and always closes it.
func execute(ctx context.Context, runtimes *runtime.Registry, file string, logger *slog.Logger) (map[string]any, error) {
	env, err := runtimes.Open(ctx, file)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			logger.Debug("closing config runtime", "path", file, "error", cerr)
		}
	}()

	logger.Debug("executing content config", "path", file)
	return env.Import(ctx, file)
}

func parseConfig(ctx context.Context, file string, exports map[string]any) (*ContentConfig, error) {
	res := schema.SafeParse(ctx, configShape, exports, schema.WithErrorMap(ErrorMap))
	if !res.OK() {
		return nil, &SchemaParseError{
			Path:    file,
			Message: issueMessages(res.Issues),
			Issues:  res.Issues,
		}
	}

	shaped := res.Value.(map[string]any)
	collections, _ := shaped["collections"].(map[string]any)

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	cfg := &ContentConfig{
		Collections: make(map[string]CollectionConfig, len(collections)),
		Path:        file,
	}
	for _, name := range names {
		raw, _ := collections[name].(map[string]any)

		var coll CollectionConfig
		v, err := compileSchema(raw["schema"])
		if err != nil {
			return nil, &SchemaParseError{
				Path:    file,
				Message: "collections." + name + ".schema: " + err.Error(),
			}
		}
		coll.Schema = v
		if fn, ok := raw["slug"].(schema.Function); ok {
			coll.Slug = slugFromFunction(fn)
		}
		cfg.Collections[name] = coll
	}
	return cfg, nil
}

// compileSchema turns a collection's schema value into a validator.
// Validators from script configs pass through; descriptors from data
// configs are compiled.
func compileSchema(raw any) (schema.Validator, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case schema.Validator:
		return v, nil
	case string:
		return schema.FromDescriptor(v)
	case map[string]any:
		if t, _ := v["type"].(string); t == "object" && v["fields"] != nil {
			return schema.FromDescriptor(v)
		}
		return schema.ObjectFromDescriptor(v)
	}
	return nil, errors.Newf("schema must be a validator or a descriptor, not %s", schema.TypeOf(raw))
}

func issueMessages(issues []schema.Issue) string {
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = issue.Message
	}
	return strings.Join(msgs, "\n")
}
