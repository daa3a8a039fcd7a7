package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/quill/internal/errors"
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("reported")

// HandleError prints err to w and returns the process exit code.
func HandleError(w io.Writer, err error) int {
	code := errors.ExitUser

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Err != nil && errors.Is(exitErr.Err, errReported) {
			return code
		}
	}

	fmt.Fprintln(w, color.RedString("Error:"), err.Error())

	var hints []string
	if exitErr != nil && exitErr.Suggestion != "" {
		hints = append(hints, exitErr.Suggestion)
	}
	if h := errors.FlattenHints(err); h != "" {
		hints = append(hints, strings.Split(h, "\n--\n")...)
	}
	for _, h := range hints {
		fmt.Fprintln(w, color.HiBlackString("Hint:"), h)
	}

	return code
}
