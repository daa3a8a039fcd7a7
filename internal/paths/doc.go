// Package paths resolves the directories and files a content project uses.
//
// [ContentPaths] looks in the project root for a config file named
// content.config with one of the supported extensions and returns file://
// URLs for the content, cache and generated-input directories:
//
//	p, err := paths.ContentPaths(paths.Options{RootDir: ".", SrcDir: "src"})
//	if err != nil {
//		return err
//	}
//	if p.Config == nil {
//		// no content.config in the project root
//	}
//
// Directory URLs always end in a slash.
//
// # Config Extension Priority
//
// When more than one config file exists, the first extension in
// [ConfigExtensions] wins:
//
//	.ts  .js  .mjs  .lua  .yaml  .yml  .toml  .json
//
// # XDG Base Directory Compliance
//
// Per-user locations come from github.com/adrg/xdg. Starter templates are
// materialized under [DataHome]/quill/templates/, which is fixed and not
// affected by project settings.
package paths
