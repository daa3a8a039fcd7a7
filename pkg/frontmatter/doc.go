// Package frontmatter splits content files into a structured frontmatter
// block and a body, and decodes the block into a map.
//
// Two delimiter styles are recognized at the very start of a file:
//
//	---            +++
//	title: Hello   title = "Hello"
//	---            +++
//
// A "---" block is decoded as YAML, a "+++" block as TOML. Files without an
// opening delimiter have no frontmatter; their whole text is the body.
//
// # Errors
//
// A malformed block produces a [*SyntaxError] whose location points into the
// original file, not into the block:
//
//	res, err := frontmatter.Parse(src, "src/content/blog/post.md")
//	var synErr *frontmatter.SyntaxError
//	if errors.As(err, &synErr) {
//		fmt.Printf("%s:%d:%d %s\n", synErr.Loc.File, synErr.Loc.Line, synErr.Loc.Column, synErr.Message)
//	}
//
// Lines are 1-based file lines. Columns are 1-based when the decoder reports
// one and 0 otherwise; the YAML decoder only reports lines.
//
// Parse keeps no state between calls, so every call decodes its input fresh.
package frontmatter
