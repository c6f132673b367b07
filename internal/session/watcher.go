package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
)

// Watcher keeps a Store in step with the trusted token slot on disk. It
// reacts to filesystem events on the token file and additionally re-reads it
// on a backed-off timer, because editors and atomic renames can slip past a
// directory watch. Losing the watch (directory removed, fd pressure) only
// degrades to the timer; it never stops the watcher.
type Watcher struct {
	Store     *Store
	TokenPath string
	BaseURL   string

	// Recheck paces the periodic fallback read. Zero value gets the
	// defaults below.
	Recheck Backoff
}

const (
	recheckInitial = 30 * time.Second
	recheckFactor  = 1.5
	recheckCap     = 300 * time.Second
)

// Run blocks until ctx is done, applying every observed token change to the
// store. The first read happens immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Recheck == (Backoff{}) {
		w.Recheck = Backoff{Initial: recheckInitial, Factor: recheckFactor, Cap: recheckCap}
	}

	fw, err := fsnotify.NewWatcher()
	if err == nil {
		defer fw.Close()
		if addErr := fw.Add(filepath.Dir(w.TokenPath)); addErr != nil {
			pterm.Debug.Printfln("token watch unavailable, using periodic re-check: %v", addErr)
		}
	} else {
		pterm.Debug.Printfln("filesystem watcher unavailable, using periodic re-check: %v", err)
		fw = &fsnotify.Watcher{}
	}

	w.sync()

	timer := time.NewTimer(w.Recheck.Next())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, open := <-fw.Events:
			if !open {
				fw.Events = nil
				continue
			}
			if ev.Name != w.TokenPath {
				continue
			}
			// A write is the login-success moment; check right away and
			// restart the slow-scan schedule.
			w.sync()
			w.Recheck.Reset()
			resetTimer(timer, w.Recheck.Next())

		case watchErr, open := <-fw.Errors:
			if !open {
				fw.Errors = nil
				continue
			}
			pterm.Debug.Printfln("token watch error: %v", watchErr)

		case <-timer.C:
			w.sync()
			timer.Reset(w.Recheck.Next())
		}
	}
}

// sync reads the token slot and applies the result to the store.
func (w *Watcher) sync() {
	raw, err := os.ReadFile(w.TokenPath)
	if err != nil {
		if !os.IsNotExist(err) {
			pterm.Debug.Printfln("read token slot: %v", err)
			return
		}
		w.Store.Clear()
		return
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		w.Store.Clear()
		return
	}
	w.Store.Set(Session{Token: token, APIBaseURL: w.BaseURL})
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
