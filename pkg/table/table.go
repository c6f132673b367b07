// Package table renders pterm tables with the CLI's house style.
package table

import "github.com/pterm/pterm"

// PrintTableNoPad renders rows without column padding beyond a double
// space, which keeps wide URL columns from blowing out the terminal.
func PrintTableNoPad(data pterm.TableData, hasHeader bool) {
	t := pterm.DefaultTable.WithData(data).WithSeparator("  ")
	if hasHeader {
		t = t.WithHasHeader()
	}
	_ = t.Render()
}
