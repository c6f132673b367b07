// Package importer drives a bulk bookmark import end to end: submit the
// job, then follow its progress over the push stream with a polling
// fallback, and report exactly one terminal outcome.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fuze/cli/internal/relay"
	"github.com/fuze/cli/pkg/api"
)

// ProgressStream is the read side of a push progress subscription.
// *api.ProgressStream satisfies it.
type ProgressStream interface {
	Next() bool
	Current() api.Snapshot
	Err() error
	Close() error
}

// Service defines the subset of the API client the orchestrator uses.
type Service interface {
	SessionReady() error
	Health(ctx context.Context) error
	StartImport(ctx context.Context, items []api.ImportItem) error
	ImportProgress(ctx context.Context) (api.Snapshot, error)
	FollowImportProgress(ctx context.Context) (ProgressStream, error)
}

// State is the orchestrator's lifecycle position.
type State string

const (
	StateIdle             State = "idle"
	StateSubmitting       State = "submitting"
	StateAwaitingProgress State = "awaiting_progress"
	StateStreaming        State = "streaming"
	StatePolling          State = "polling"
	StateCompleted        State = "completed"
	StateFailed           State = "failed"
)

const (
	// MaxItems is the submission ceiling. Larger sets need an explicit
	// choice from the user before submission.
	MaxItems = 1000

	defaultStreamGrace   = 3 * time.Second
	defaultPollInterval  = 5 * time.Second
	defaultSafetyTimeout = 600 * time.Second
)

// ErrMonitoringTimedOut means no terminal snapshot arrived within the
// safety timeout. The job may still finish server-side.
var ErrMonitoringTimedOut = errors.New("import monitoring timed out")

// ErrImportFailed means the server reported a terminal error status.
var ErrImportFailed = errors.New("import finished with errors")

// AlreadyRunningError rejects a second import while one is in flight,
// either in this process or server-side. Snapshot is the in-flight job's
// progress when known.
type AlreadyRunningError struct {
	Snapshot api.Snapshot
}

func (e *AlreadyRunningError) Error() string {
	if e.Snapshot.Total > 0 {
		return fmt.Sprintf("an import is already in progress (%d%% done)", e.Snapshot.Percent())
	}
	return "an import is already in progress"
}

// LimitChoice is the user's decision for sets above MaxItems.
type LimitChoice int

const (
	// LimitFirstN submits only the first MaxItems entries, original order.
	LimitFirstN LimitChoice = iota

	// LimitAll submits the whole set despite the ceiling.
	LimitAll
)

// ApplyCeiling resolves the ceiling policy. Sets at or under MaxItems pass
// through untouched.
func ApplyCeiling(items []api.ImportItem, choice LimitChoice) []api.ImportItem {
	if len(items) <= MaxItems || choice == LimitAll {
		return items
	}
	return items[:MaxItems]
}

// Orchestrator runs one import at a time. Zero timing fields get the
// package defaults; tests shrink them.
type Orchestrator struct {
	StreamGrace   time.Duration
	PollInterval  time.Duration
	SafetyTimeout time.Duration

	svc   Service
	relay *relay.Relay

	mu      sync.Mutex
	state   State
	last    api.Snapshot
	applied bool
}

// New builds an orchestrator. The relay may be nil; progress then only
// reaches the Run caller.
func New(svc Service, r *relay.Relay) *Orchestrator {
	return &Orchestrator{
		StreamGrace:   defaultStreamGrace,
		PollInterval:  defaultPollInterval,
		SafetyTimeout: defaultSafetyTimeout,
		svc:           svc,
		relay:         r,
		state:         StateIdle,
	}
}

// State returns the current lifecycle position.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Active reports whether an import is in flight. While active, the
// orchestrator owns import state; session-change handlers must leave it
// alone.
func (o *Orchestrator) Active() bool {
	switch o.State() {
	case StateIdle, StateCompleted, StateFailed:
		return false
	}
	return true
}

// Last returns the last applied snapshot.
func (o *Orchestrator) Last() api.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run submits the items and blocks until the job reaches a terminal state.
// It returns the final snapshot alongside any failure. A second Run while
// one is active fails with *AlreadyRunningError before any I/O.
func (o *Orchestrator) Run(ctx context.Context, items []api.ImportItem) (api.Snapshot, error) {
	o.mu.Lock()
	switch o.state {
	case StateIdle, StateCompleted, StateFailed:
		o.state = StateSubmitting
		o.last = api.Snapshot{}
		o.applied = false
	default:
		snap := o.last
		o.mu.Unlock()
		return snap, &AlreadyRunningError{Snapshot: snap}
	}
	o.mu.Unlock()

	snap, err := o.run(ctx, items)
	if err != nil {
		o.setState(StateFailed)
		o.publish(relay.Event{Kind: relay.EventError, Err: err})
	} else {
		o.setState(StateCompleted)
	}
	o.publish(relay.Event{Kind: relay.EventClosed, Snapshot: snap, Err: err})
	return snap, err
}

func (o *Orchestrator) run(ctx context.Context, items []api.ImportItem) (api.Snapshot, error) {
	// Preconditions first; no network traffic on a missing session.
	if err := o.svc.SessionReady(); err != nil {
		return api.Snapshot{}, err
	}
	if err := o.svc.Health(ctx); err != nil {
		return api.Snapshot{}, fmt.Errorf("service unavailable: %w", err)
	}

	// A job already running on the account wins over this one. The
	// pre-check itself is best-effort; an error here does not block
	// submission.
	if snap, err := o.svc.ImportProgress(ctx); err == nil && snap.Running() {
		return snap, &AlreadyRunningError{Snapshot: snap}
	}

	// Fire and forget: the job's outcome is observed through the progress
	// feed. Only a submission rejection feeds back, through its own
	// channel, so a dead submission does not wedge monitoring until the
	// safety timeout.
	submitFailed := make(chan error, 1)
	go func() {
		if err := o.svc.StartImport(ctx, items); err != nil {
			submitFailed <- err
		}
	}()

	o.setState(StateAwaitingProgress)
	return o.monitor(ctx, submitFailed)
}

// monitor follows the job over the push stream, falling back to polling
// when the stream will not open or stays silent past the grace period.
// Exactly one channel drives progress at a time: late stream events take
// over from polling, and a pre-first-event stream death hands over to
// polling.
func (o *Orchestrator) monitor(ctx context.Context, submitFailed <-chan error) (api.Snapshot, error) {
	// Monitor-scoped context so the stream reader goroutine cannot outlive
	// this call.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	safety := time.NewTimer(o.SafetyTimeout)
	defer safety.Stop()

	var (
		streamEvents    chan api.Snapshot
		streamDone      chan error
		stream          ProgressStream
		streamDelivered bool
		graceC          <-chan time.Time
		pollC           <-chan time.Time
		poller          *time.Ticker
	)
	defer func() {
		if stream != nil {
			stream.Close()
		}
		if poller != nil {
			poller.Stop()
		}
	}()

	startPolling := func() {
		if poller != nil {
			return
		}
		o.setState(StatePolling)
		poller = time.NewTicker(o.PollInterval)
		pollC = poller.C
	}
	stopPolling := func() {
		if poller == nil {
			return
		}
		poller.Stop()
		poller = nil
		pollC = nil
	}

	if s, err := o.svc.FollowImportProgress(ctx); err != nil {
		// No stream to be had; go straight to pulling.
		startPolling()
	} else {
		// The open stream is the stream-started signal. Events may still
		// be a while away, hence the grace clock.
		stream = s
		streamEvents = make(chan api.Snapshot)
		streamDone = make(chan error, 1)
		grace := time.NewTimer(o.StreamGrace)
		defer grace.Stop()
		graceC = grace.C

		go func() {
			for s.Next() {
				select {
				case streamEvents <- s.Current():
				case <-ctx.Done():
					return
				}
			}
			streamDone <- s.Err()
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return o.Last(), ctx.Err()

		case <-safety.C:
			return o.Last(), ErrMonitoringTimedOut

		case err := <-submitFailed:
			return o.Last(), fmt.Errorf("import submission failed: %w", err)

		case <-graceC:
			graceC = nil
			if !streamDelivered {
				startPolling()
			}

		case snap := <-streamEvents:
			streamDelivered = true
			graceC = nil
			// First-active-channel-wins: a live stream silences the poller
			// even if polling already started.
			stopPolling()
			o.setState(StateStreaming)
			if final, terminal, err := o.apply(snap); terminal {
				return final, err
			}

		case err := <-streamDone:
			streamDone = nil
			streamEvents = nil
			if err != nil {
				if streamDelivered {
					return o.Last(), fmt.Errorf("progress stream lost: %w", err)
				}
				// The stream died before proving itself; polling takes over.
				startPolling()
				continue
			}
			// Clean close without a terminal snapshot: reconcile by pulling.
			if final, terminal, pollErr := o.pollOnce(ctx); terminal {
				return final, pollErr
			}
			startPolling()

		case <-pollC:
			if final, terminal, err := o.pollOnce(ctx); terminal {
				return final, err
			}
		}
	}
}

// pollOnce fetches one snapshot. Transport errors are transient (the next
// tick retries); explicit rejections end monitoring.
func (o *Orchestrator) pollOnce(ctx context.Context) (api.Snapshot, bool, error) {
	snap, err := o.svc.ImportProgress(ctx)
	if err != nil {
		if api.IsUnreachable(err) {
			return o.Last(), false, nil
		}
		return o.Last(), true, err
	}
	return o.apply(snap)
}

// apply installs a snapshot, enforcing monotonic progress: a snapshot whose
// Processed is below the last applied one is jitter and is dropped, unless
// it carries a terminal status.
func (o *Orchestrator) apply(snap api.Snapshot) (api.Snapshot, bool, error) {
	o.mu.Lock()
	if o.applied && snap.Processed < o.last.Processed && !snap.Status.Terminal() {
		last := o.last
		o.mu.Unlock()
		return last, false, nil
	}
	o.last = snap
	o.applied = true
	o.mu.Unlock()

	o.publish(relay.Event{Kind: relay.EventProgress, Snapshot: snap})
	switch snap.Status {
	case api.ImportStatusCompleted:
		return snap, true, nil
	case api.ImportStatusError:
		return snap, true, ErrImportFailed
	}
	return snap, false, nil
}

func (o *Orchestrator) publish(ev relay.Event) {
	if o.relay != nil {
		o.relay.Publish(ev)
	}
}
