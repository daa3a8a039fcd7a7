// Package runtime defines how content config files are executed.
//
// A [Runtime] opens a disposable [Environment] that imports one config file
// and returns its exported values. The environment must be closed after the
// import, successful or not; nothing it created may be used to run code
// after Close except values it handed out explicitly as callables.
//
// A [Registry] picks the runtime for a file by extension:
//
//	reg := runtime.NewRegistry()
//	reg.Register(".ts", js.New(fs))
//	reg.Register(".lua", lua.New(fs))
//	reg.Register(".yaml", declarative.New(fs))
//
//	rt, ok := reg.Lookup("/site/content.config.ts")
package runtime
