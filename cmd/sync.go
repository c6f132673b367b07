package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fuze/cli/internal/bookmarks"
	"github.com/fuze/cli/internal/config"
	"github.com/fuze/cli/internal/relay"
	"github.com/fuze/cli/internal/session"
	"github.com/fuze/cli/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the bookmark mirror daemon",
	Long: `Run the bookmark mirror daemon.

Watches the browser's bookmarks file and mirrors every addition and removal
to Fuze as it happens. The daemon also watches the stored session, so
logging in or out from another terminal takes effect without a restart.

Enable it permanently with 'fuze config set auto-sync on', or pass --force
for a one-off run regardless of that setting.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Bool("force", false, "Run even when auto-sync is off")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	sess, cfg, err := loadSession()
	if err != nil {
		return err
	}
	if force, _ := cmd.Flags().GetBool("force"); !cfg.AutoSync && !force {
		pterm.Warning.Println("Auto-sync is off; enable it with 'fuze config set auto-sync on' or pass --force")
		return nil
	}

	bookmarksPath := cfg.BookmarksPath
	if bookmarksPath == "" {
		bookmarksPath, err = bookmarks.DefaultChromePath()
		if err != nil {
			return err
		}
	}
	slot, err := config.TokenFilePath()
	if err != nil {
		return err
	}

	store := session.NewStore()
	store.Set(sess)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Session watcher: logins and logouts land in the store as they happen.
	watcher := &session.Watcher{Store: store, TokenPath: slot, BaseURL: cfg.APIURL}
	go func() { _ = watcher.Run(ctx) }()

	r := relay.New()
	defer r.Close()
	sub := r.Subscribe()
	defer r.Unsubscribe(sub.ID)

	mirror := &syncer.Syncer{
		Client: func() syncer.Client {
			cur := store.Current()
			if !cur.Valid() {
				return nil
			}
			return newClient(cur)
		},
		Path:  bookmarksPath,
		Relay: r,
	}
	go func() { _ = mirror.Run(ctx) }()

	pterm.Info.Printfln("Mirroring %s", bookmarksPath)
	if !sess.Valid() {
		pterm.Warning.Println("Not logged in - changes will mirror once you log in")
	}

	id, sessionEvents := store.Subscribe()
	defer store.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-sessionEvents:
			switch ev.Kind {
			case session.SessionEstablished:
				pterm.Info.Println("Session established - mirroring resumed")
			case session.SessionCleared:
				pterm.Warning.Println("Session cleared - mirroring paused until login")
			}
		case ev := <-sub.C:
			switch ev.Kind {
			case relay.EventSaved:
				if ev.Duplicate {
					pterm.Success.Printfln("Updated %s", ev.URL)
				} else {
					pterm.Success.Printfln("Saved %s", ev.URL)
				}
			case relay.EventRemoved:
				pterm.Success.Printfln("Removed %s", ev.URL)
			case relay.EventError:
				pterm.Warning.Printfln("Could not mirror %s: %v", ev.URL, ev.Err)
			}
		}
	}
}
