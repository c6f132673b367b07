package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fuze/cli/internal/bookmarks"
	"github.com/fuze/cli/internal/importer"
	"github.com/fuze/cli/internal/relay"
	"github.com/fuze/cli/pkg/api"
)

// clientService adapts *api.Client to the orchestrator's Service interface;
// only the stream method needs a wrapper to return the interface type.
type clientService struct {
	*api.Client
}

func (c clientService) FollowImportProgress(ctx context.Context) (importer.ProgressStream, error) {
	stream, err := c.Client.FollowImportProgress(ctx)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// formatFlag constrains --format to the supported source formats.
type formatFlag string

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(*f) }

func (f *formatFlag) Set(v string) error {
	switch v {
	case "chrome", "html":
		*f = formatFlag(v)
		return nil
	}
	return fmt.Errorf("unsupported format %q: use 'chrome' or 'html'", v)
}

func (f *formatFlag) Type() string { return "format" }

var importFormat formatFlag

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk import your browser bookmarks into Fuze",
	Long: `Bulk import your browser bookmarks into Fuze.

Reads the Chrome Bookmarks file (or a Netscape HTML export from any
browser), submits everything in one job, and follows the server's progress
live. Browser-internal URLs are skipped; the enclosing folder becomes each
bookmark's category.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringP("file", "f", "", "Bookmarks file (defaults to Chrome's)")
	importCmd.Flags().Var(&importFormat, "format", "Source format: chrome or html (detected from the file name when omitted)")
	importCmd.Flags().Bool("first", false, fmt.Sprintf("With more than %d bookmarks, import only the first %d", importer.MaxItems, importer.MaxItems))
	importCmd.Flags().Bool("all", false, fmt.Sprintf("With more than %d bookmarks, import all of them", importer.MaxItems))
	importCmd.MarkFlagsMutuallyExclusive("first", "all")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	items, err := readImportItems(cmd)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		pterm.Info.Println("Nothing to import")
		return nil
	}

	items, err = applyImportCeiling(cmd, items)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Importing %d bookmarks...", len(items))
	return followImport(cmd.Context(), clientService{client}, items)
}

// readImportItems loads and flattens the configured bookmarks source.
func readImportItems(cmd *cobra.Command) ([]api.ImportItem, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		_, cfg, err := loadSession()
		if err != nil {
			return nil, err
		}
		path = cfg.BookmarksPath
	}
	if path == "" {
		var err error
		path, err = bookmarks.DefaultChromePath()
		if err != nil {
			return nil, fmt.Errorf("locate bookmarks file: %w", err)
		}
	}

	format := string(importFormat)
	if format == "" {
		if strings.HasSuffix(strings.ToLower(path), ".html") || strings.HasSuffix(strings.ToLower(path), ".htm") {
			format = "html"
		} else {
			format = "chrome"
		}
	}

	var entries []bookmarks.Entry
	var err error
	if format == "html" {
		entries, err = bookmarks.ParseNetscapeFile(path)
	} else {
		entries, err = bookmarks.ParseChromeFile(path)
	}
	if err != nil {
		return nil, err
	}
	return bookmarks.Importable(entries), nil
}

// applyImportCeiling resolves the over-ceiling choice: flags first, then an
// interactive prompt.
func applyImportCeiling(cmd *cobra.Command, items []api.ImportItem) ([]api.ImportItem, error) {
	if len(items) <= importer.MaxItems {
		return items, nil
	}

	first, _ := cmd.Flags().GetBool("first")
	all, _ := cmd.Flags().GetBool("all")
	if !first && !all {
		firstOption := fmt.Sprintf("Import the first %d", importer.MaxItems)
		allOption := fmt.Sprintf("Import all %d", len(items))
		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions([]string{firstOption, allOption}).
			Show(fmt.Sprintf("You have %d bookmarks, more than the recommended %d per import", len(items), importer.MaxItems))
		if err != nil {
			return nil, err
		}
		first = choice == firstOption
	}

	if first {
		return importer.ApplyCeiling(items, importer.LimitFirstN), nil
	}
	return importer.ApplyCeiling(items, importer.LimitAll), nil
}

// followImport runs the orchestrator in the background and renders its
// relay feed in the foreground.
func followImport(ctx context.Context, svc importer.Service, items []api.ImportItem) error {
	r := relay.New()
	defer r.Close()
	sub := r.Subscribe()
	defer r.Unsubscribe(sub.ID)

	orch := importer.New(svc, r)

	type result struct {
		snap api.Snapshot
		err  error
	}
	resc := make(chan result, 1)
	go func() {
		snap, err := orch.Run(ctx, items)
		resc <- result{snap: snap, err: err}
	}()

	bar, _ := pterm.DefaultProgressbar.
		WithTotal(len(items)).
		WithTitle("Importing").
		Start()
	shown := 0

feed:
	for ev := range sub.C {
		switch ev.Kind {
		case relay.EventProgress:
			if ev.Snapshot.Total > 0 && ev.Snapshot.Total != bar.Total {
				bar = bar.WithTotal(ev.Snapshot.Total)
			}
			if ev.Snapshot.Processed > shown {
				bar.Add(ev.Snapshot.Processed - shown)
				shown = ev.Snapshot.Processed
			}
		case relay.EventClosed:
			break feed
		}
	}
	bar.Stop()

	res := <-resc
	if res.err != nil {
		var already *importer.AlreadyRunningError
		switch {
		case errors.As(res.err, &already):
			pterm.Warning.Println(already.Error())
			return nil
		case errors.Is(res.err, importer.ErrMonitoringTimedOut):
			return fmt.Errorf("the import is taking too long to report progress; check again later with 'fuze list'")
		case errors.Is(res.err, importer.ErrImportFailed):
			pterm.Error.Printfln("Import finished with errors: %d added, %d skipped, %d failed",
				res.snap.Added, res.snap.Skipped, res.snap.Errors)
			return res.err
		}
		return res.err
	}

	pterm.Success.Printfln("Import complete: %d added, %d skipped, %d errors",
		res.snap.Added, res.snap.Skipped, res.snap.Errors)
	return nil
}
