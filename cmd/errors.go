package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/viper"
)

// HandleFatalError handles unrecoverable errors that should terminate the application.
func HandleFatalError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	os.Exit(1)
}

// PrintError prints an error message without exiting, allowing for recovery.
// In verbose mode the full technical error is printed instead.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
		return
	}
	if ui.IsInteractive() {
		userMsg = ui.Icon("✗", ui.StyleError) + " " + userMsg
	}
	fmt.Fprintln(os.Stderr, userMsg)
}

// LogError logs an error without printing to stderr if verbose mode is off.
func LogError(msg string, err error) {
	if viper.GetBool("verbose") {
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
		}
	}
}

// userMessage turns a run error into the one-line message shown without --verbose.
func userMessage(err error) string {
	var srcErr *types.SourceError
	switch {
	case errors.Is(err, types.ErrNoIdentity):
		return "No account identity given; nothing was converted."
	case errors.Is(err, types.ErrUnknownEncoding):
		return "Unknown text encoding. Use a label such as utf-8, windows-1251 or koi8-r."
	case errors.Is(err, types.ErrUnknownFormat):
		return "Unknown format: " + err.Error()
	case errors.As(err, &srcErr):
		return fmt.Sprintf("Could not read %s: %v", srcErr.Path, errors.Unwrap(srcErr))
	default:
		return err.Error()
	}
}
