package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressStreamReadsFrames(t *testing.T) {
	body := strings.Join([]string{
		": ping",
		"",
		"data: {\"status\":\"processing\",\"processed\":3,\"total\":10}",
		"",
		"data: {}",
		"",
		"data: {\"status\":\"completed\",\"processed\":10,\"total\":10,\"added\":9,\"skipped\":1}",
		"",
	}, "\n")
	s := newProgressStream(io.NopCloser(strings.NewReader(body)))

	require.True(t, s.Next())
	assert.Equal(t, ImportStatusProcessing, s.Current().Status)
	assert.Equal(t, 3, s.Current().Processed)

	// The status-less frame is a keep-alive and must be skipped, so the next
	// snapshot is the terminal one.
	require.True(t, s.Next())
	assert.Equal(t, ImportStatusCompleted, s.Current().Status)
	assert.Equal(t, 9, s.Current().Added)

	assert.False(t, s.Next())
	assert.NoError(t, s.Err(), "a clean server close is not an error")
}

func TestProgressStreamMalformedEvent(t *testing.T) {
	s := newProgressStream(io.NopCloser(strings.NewReader("data: {not json\n\n")))
	assert.False(t, s.Next())
	assert.Error(t, s.Err())
}

func TestProgressStreamCloseUnblocksNext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		// Hold the connection open without sending events.
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	stream, err := c.FollowImportProgress(context.Background())
	require.NoError(t, err, "a 200 response is the stream-started signal")

	done := make(chan bool, 1)
	go func() {
		done <- stream.Next()
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, stream.Close())

	select {
	case got := <-done:
		assert.False(t, got)
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not unblock after Close")
	}
	assert.NoError(t, stream.Err(), "a caller-initiated close is not an error")
}

func TestFollowImportProgressRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.FollowImportProgress(context.Background())
	assert.True(t, IsRejected(err))
}

func TestFollowImportProgressRequiresSession(t *testing.T) {
	c := New("http://unused.invalid", "")
	_, err := c.FollowImportProgress(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
