package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/pterm/pterm"
)

// setupStdoutCapture routes pterm output into a buffer for assertions.
func setupStdoutCapture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	pterm.SetDefaultOutput(&buf)
	// The prefix printers copy the default writer at package init, so they
	// must be redirected individually.
	pterm.Info.Writer = &buf
	pterm.Warning.Writer = &buf
	pterm.Success.Writer = &buf
	pterm.Error.Writer = &buf
	pterm.DisableColor()
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		pterm.Info.Writer = os.Stdout
		pterm.Warning.Writer = os.Stdout
		pterm.Success.Writer = os.Stdout
		pterm.Error.Writer = os.Stdout
		pterm.EnableColor()
	})
	return &buf
}
