// Package cmd implements the fuze CLI: mirroring native browser bookmarks
// to a Fuze deployment, bulk imports with live progress, and session
// management against the service's auth endpoints.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is stamped by the release build; "dev" otherwise.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fuze",
	Short: "Mirror and import your browser bookmarks to Fuze",
	Long: `fuze keeps your browser bookmarks and your Fuze account in step.

Log in once, then add and remove bookmarks from the command line, bulk
import your existing browser bookmarks with live progress, or run the sync
daemon to mirror native bookmark changes as they happen.`,
	SilenceUsage: true,
}

// Root exposes the command tree to main.
func Root() *cobra.Command {
	return rootCmd
}
