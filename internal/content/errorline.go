package content

import "strings"

// FrontmatterErrorLine returns the 1-based line of key in raw frontmatter,
// or 0 when key never starts a line after the first. The match is textual:
// nested keys and keys that prefix longer keys are not distinguished.
func FrontmatterErrorLine(raw, key string) int {
	if raw == "" || key == "" {
		return 0
	}
	idx := strings.Index(raw, "\n"+key)
	if idx < 0 {
		return 0
	}
	return strings.Count(raw[:idx+1], "\n") + 1
}
