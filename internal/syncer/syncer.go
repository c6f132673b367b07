// Package syncer mirrors native bookmark changes to the Fuze service. It
// watches the browser's bookmarks file, diffs each revision against the
// previous one, and forwards additions and removals as they happen.
package syncer

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
	"github.com/samber/lo"

	"github.com/fuze/cli/internal/bookmarks"
	"github.com/fuze/cli/internal/relay"
	"github.com/fuze/cli/pkg/api"
	"github.com/fuze/cli/pkg/urlnorm"
)

// Client is the subset of the API client the syncer uses.
type Client interface {
	Create(ctx context.Context, b api.Bookmark) (*api.Bookmark, bool, error)
	DeleteByURL(ctx context.Context, rawURL string) error
}

// Diff splits cur against prev keyed on the normalized URL. Entries whose
// URL only changed in case or trailing slash are neither added nor removed.
func Diff(prev, cur []bookmarks.Entry) (added, removed []bookmarks.Entry) {
	key := func(e bookmarks.Entry) string { return urlnorm.Normalize(e.URL) }
	prevSet := lo.KeyBy(prev, key)
	curSet := lo.KeyBy(cur, key)

	added = lo.Filter(cur, func(e bookmarks.Entry, _ int) bool {
		_, found := prevSet[key(e)]
		return !found
	})
	removed = lo.Filter(prev, func(e bookmarks.Entry, _ int) bool {
		_, found := curSet[key(e)]
		return !found
	})
	return added, removed
}

// Syncer tails one bookmarks file. Construct by filling the fields, then
// call Run.
type Syncer struct {
	// Client supplies the API client per mirror pass, so a re-login mid-run
	// picks up the fresh token. Returning nil skips the pass.
	Client func() Client

	// Path is the browser's bookmarks file.
	Path string

	// Relay receives a saved/removed/error event per mirrored change. May
	// be nil.
	Relay *relay.Relay

	// Paused reports whether mirroring must hold off, used to keep bulk
	// imports sole owner of import state. Changes accumulate and flow on
	// the next pass. May be nil.
	Paused func() bool

	// Rescan paces the fallback full re-read for writes the file watch
	// misses. Zero means 30s.
	Rescan time.Duration

	prev   []bookmarks.Entry
	primed bool
}

// Run blocks until ctx is done. The first pass only primes the baseline;
// bookmarks that existed before the daemon started are not re-mirrored.
func (s *Syncer) Run(ctx context.Context) error {
	if s.Rescan == 0 {
		s.Rescan = 30 * time.Second
	}

	fw, err := fsnotify.NewWatcher()
	if err == nil {
		defer fw.Close()
		if addErr := fw.Add(s.Path); addErr != nil {
			pterm.Debug.Printfln("bookmarks watch unavailable, rescanning on a timer: %v", addErr)
		}
	} else {
		pterm.Debug.Printfln("filesystem watcher unavailable, rescanning on a timer: %v", err)
		fw = &fsnotify.Watcher{}
	}

	s.pass(ctx)

	ticker := time.NewTicker(s.Rescan)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, open := <-fw.Events:
			if !open {
				fw.Events = nil
				continue
			}
			s.pass(ctx)
			// Editors replace the file on save; re-arm the watch in case
			// the inode changed.
			_ = fw.Remove(s.Path)
			_ = fw.Add(s.Path)
		case watchErr, open := <-fw.Errors:
			if !open {
				fw.Errors = nil
				continue
			}
			pterm.Debug.Printfln("bookmarks watch error: %v", watchErr)
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

// pass reads the file, diffs against the last seen revision, and mirrors
// the delta.
func (s *Syncer) pass(ctx context.Context) {
	if s.Paused != nil && s.Paused() {
		return
	}

	cur, err := bookmarks.ParseChromeFile(s.Path)
	if err != nil {
		pterm.Debug.Printfln("read bookmarks file: %v", err)
		return
	}

	if !s.primed {
		s.prev = cur
		s.primed = true
		return
	}

	added, removed := Diff(s.prev, cur)
	if len(added) == 0 && len(removed) == 0 {
		s.prev = cur
		return
	}

	client := s.clientOrNil()
	if client == nil {
		// Logged out; hold the baseline so the delta mirrors after login.
		return
	}

	failed := false
	for _, e := range added {
		if bookmarks.Internal(e.URL) {
			continue
		}
		_, dup, err := client.Create(ctx, api.Bookmark{
			URL:      e.URL,
			Title:    e.Title,
			Category: e.Category(),
			Tags:     []string{},
		})
		if err != nil {
			failed = true
			s.publish(relay.Event{Kind: relay.EventError, URL: e.URL, Err: err})
			continue
		}
		s.publish(relay.Event{Kind: relay.EventSaved, URL: e.URL, Duplicate: dup})
	}
	for _, e := range removed {
		if bookmarks.Internal(e.URL) {
			continue
		}
		if err := client.DeleteByURL(ctx, e.URL); err != nil {
			failed = true
			s.publish(relay.Event{Kind: relay.EventError, URL: e.URL, Err: err})
			continue
		}
		s.publish(relay.Event{Kind: relay.EventRemoved, URL: e.URL})
	}

	// A failed pass keeps the old baseline, so the missed changes retry on
	// the next pass.
	if !failed {
		s.prev = cur
	}
}

func (s *Syncer) clientOrNil() Client {
	if s.Client == nil {
		return nil
	}
	return s.Client()
}

func (s *Syncer) publish(ev relay.Event) {
	if s.Relay != nil {
		s.Relay.Publish(ev)
	}
}
