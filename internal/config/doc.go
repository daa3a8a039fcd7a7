// Package config provides configuration management for the quill CLI.
//
// This package handles quill's own settings: where the project root and
// source directory are, and how the watcher behaves. It is distinct from a
// project's content config (content.config.ts and friends), which is
// loaded by the content package.
//
// # Configuration File
//
// Settings are read from quill.yaml in the current directory or in
// ~/.config/quill/:
//
//	root_dir: .
//	src_dir: src
//	watch:
//	  debounce: 200ms
//
// Every key can be overridden with a QUILL_ environment variable, with dots
// replaced by underscores (QUILL_SRC_DIR, QUILL_WATCH_DEBOUNCE).
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//
// A missing file is not an error when no explicit path is given; defaults
// are used instead.
//
// # Validation
//
// Load validates the result. [Validate] can also be called directly:
//
//	if errs := config.Validate(cfg); len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
package config
