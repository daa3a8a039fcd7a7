package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "quill"

// Defaults applied by Init.
const (
	DefaultRootDir  = "."
	DefaultSrcDir   = "src"
	DefaultDebounce = 200 * time.Millisecond
)

// Config represents the top-level configuration structure.
type Config struct {
	RootDir string      `mapstructure:"root_dir" yaml:"root_dir"`
	SrcDir  string      `mapstructure:"src_dir" yaml:"src_dir"`
	Watch   WatchConfig `mapstructure:"watch" yaml:"watch"`
}

// WatchConfig controls the config watcher.
type WatchConfig struct {
	// Debounce is how long the watcher waits for changes to settle.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		RootDir: DefaultRootDir,
		SrcDir:  DefaultSrcDir,
		Watch:   WatchConfig{Debounce: DefaultDebounce},
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName(AppName)
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.UserConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("QUILL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("root_dir", DefaultRootDir)
	viper.SetDefault("src_dir", DefaultSrcDir)
	viper.SetDefault("watch.debounce", DefaultDebounce)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return &cfg, nil
}
