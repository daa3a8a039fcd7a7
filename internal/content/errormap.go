package content

import (
	"fmt"

	"github.com/thoreinstein/quill/internal/schema"
)

// ErrorMap phrases type issues in terms of the field path. Other issues
// keep the default message.
func ErrorMap(issue schema.Issue, def string) string {
	if issue.Code != schema.CodeInvalidType {
		return def
	}
	field := issue.Path.String()
	if issue.Received == schema.TypeUndefined {
		return fmt.Sprintf("%q is required.", field)
	}
	return fmt.Sprintf("%q should be %s, not %s.", field, issue.Expected, issue.Received)
}
