package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// NoColorEnv disables colored output for quill alone, in addition to the
// NO_COLOR convention (https://no-color.org).
const NoColorEnv = "QUILL_NO_COLOR"

// IsTTY reports whether w is a terminal. Writers that are not backed by a
// file descriptor are never terminals.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsInteractive reports whether both in and out are terminals, so a prompt
// such as the entry picker can be shown.
func IsInteractive(in io.Reader, out io.Writer) bool {
	r, ok := in.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(r.Fd())) && IsTTY(out)
}

// SupportsColor reports whether diagnostics written to w may use ANSI
// colors: w is a terminal, TERM is not "dumb" and neither NO_COLOR nor
// QUILL_NO_COLOR is set.
func SupportsColor(w io.Writer) bool {
	return colorAllowed() && IsTTY(w)
}

func colorAllowed() bool {
	for _, key := range []string{"NO_COLOR", NoColorEnv} {
		if _, set := os.LookupEnv(key); set {
			return false
		}
	}
	return os.Getenv("TERM") != "dumb"
}
