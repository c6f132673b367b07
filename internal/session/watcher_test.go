package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, st *Store, tokenPath string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w := &Watcher{
		Store:     st,
		TokenPath: tokenPath,
		BaseURL:   "https://fuze.example",
		// Tight schedule so the fallback path also fires within the test.
		Recheck: Backoff{Initial: 20 * time.Millisecond, Factor: 1.5, Cap: 100 * time.Millisecond},
	}
	go func() { _ = w.Run(ctx) }()
}

func TestWatcherPicksUpTokenWrite(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token")
	st := NewStore()
	startWatcher(t, st, tokenPath)

	require.NoError(t, os.WriteFile(tokenPath, []byte("tok-1\n"), 0o600))

	assert.Eventually(t, func() bool {
		return st.Current() == Session{Token: "tok-1", APIBaseURL: "https://fuze.example"}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherClearsOnTokenRemoval(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenPath, []byte("tok-1"), 0o600))

	st := NewStore()
	startWatcher(t, st, tokenPath)

	assert.Eventually(t, func() bool {
		return st.Current().Valid()
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(tokenPath))
	assert.Eventually(t, func() bool {
		return !st.Current().Valid()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherSurvivesMissingDirectory(t *testing.T) {
	// The watch target never exists; only the periodic re-check runs, and
	// the watcher must keep going rather than fail.
	st := NewStore()
	startWatcher(t, st, filepath.Join(t.TempDir(), "nope", "token"))

	time.Sleep(100 * time.Millisecond)
	assert.False(t, st.Current().Valid())
}
