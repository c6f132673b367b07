package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// ProgressStream is a Server-Sent-Events subscription to the import
// progress feed. Iterate scanner-style:
//
//	for stream.Next() {
//		snap := stream.Current()
//	}
//	if err := stream.Err(); err != nil { ... }
//
// Next returns false when the server closes the feed, when Close is called,
// or on a transport/decode error (reported by Err). Close may be called
// from another goroutine to unblock a pending Next.
type ProgressStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	closed  atomic.Bool
	cur     Snapshot
	err     error
}

func newProgressStream(body io.ReadCloser) *ProgressStream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &ProgressStream{body: body, scanner: sc}
}

// Next advances to the next snapshot.
func (s *ProgressStream) Next() bool {
	if s.err != nil || s.closed.Load() {
		return false
	}
	for s.scanner.Scan() {
		line := s.scanner.Text()
		// Events are framed as "data: <json>\n\n". Comment lines and
		// event/id fields are not part of the contract; skip them.
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal([]byte(payload), &snap); err != nil {
			s.err = fmt.Errorf("invalid progress event: %w", err)
			return false
		}
		// Frames without a status are keep-alives, not snapshots.
		if snap.Status == "" {
			continue
		}
		s.cur = snap
		return true
	}
	if err := s.scanner.Err(); err != nil && !s.closed.Load() {
		s.err = &NetworkError{Err: err}
	}
	return false
}

// Current returns the snapshot read by the last successful Next.
func (s *ProgressStream) Current() Snapshot { return s.cur }

// Err returns the error that ended iteration, if any. A clean server-side
// close yields nil.
func (s *ProgressStream) Err() error { return s.err }

// Close releases the underlying connection. Safe to call more than once and
// concurrently with Next.
func (s *ProgressStream) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.body.Close()
}
