package config

import (
	"fmt"
	"io"
	"os"
)

// osExit is replaced in tests.
var osExit = os.Exit

// Exitf prints a fatal CLI message to stderr and exits with status 1.
func Exitf(format string, args ...any) {
	exitf(os.Stderr, osExit, format, args...)
}

func exitf(w io.Writer, exit func(int), format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
	exit(1)
}
