package sync

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/famlog/famlog/internal/auth"
	"github.com/famlog/famlog/internal/model"
)

// State is the orchestrator's externally visible phase.
type State string

const (
	StateIdle       State = "idle"
	StateDebouncing State = "debouncing"
	StateSyncing    State = "syncing"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Status is the value the UI polls to render sync feedback. Error and
// success states auto-clear back to idle after a short delay.
type Status struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// Orchestrator is the only entry point the rest of the application calls for
// synchronization. It debounces bursts of RequestSync calls into one run,
// guarantees at most one run executes at a time, and coalesces requests that
// arrive mid-run into exactly one follow-up run.
//
// There is no automatic retry or backoff: a failed run waits for the next
// externally-triggered RequestSync.
type Orchestrator struct {
	merger     *Merger
	authorizer auth.Authorizer
	log        zerolog.Logger

	debounce    time.Duration
	statusClear time.Duration

	mu      gosync.Mutex
	state   State
	message string
	pending bool
	timer   *time.Timer

	// runMu serializes actual sync execution.
	runMu gosync.Mutex
}

func NewOrchestrator(m *Merger, a auth.Authorizer, debounce, statusClear time.Duration, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		merger:      m,
		authorizer:  a,
		log:         log,
		debounce:    debounce,
		statusClear: statusClear,
		state:       StateIdle,
	}
}

// Status returns the current sync status.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{State: o.state, Message: o.message}
}

// RequestSync schedules a debounced sync run. Calls while a run is in flight
// set a pending flag: exactly one extra run executes afterwards, no matter
// how many requests arrived. Calls while debouncing restart the timer so a
// burst of rapid edits collapses into one run.
func (o *Orchestrator) RequestSync() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateSyncing {
		o.pending = true
		return
	}

	o.state = StateDebouncing
	o.message = ""
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, o.debounceFired)
}

func (o *Orchestrator) debounceFired() {
	err := o.PerformFullSync(context.Background())
	if err != nil && errors.Is(err, model.ErrNotAuthenticated) {
		// Background runs stay quiet without a session; the next
		// interactive sync surfaces it.
		o.log.Debug().Msg("sync skipped: no session")
	}
}

// PerformFullSync runs one complete sync pass and blocks until it finishes
// (including the single coalesced follow-up run, if edits arrived mid-run).
// It is the awaitable path for explicit "sync now" actions; the debounce
// timer funnels into it as well.
func (o *Orchestrator) PerformFullSync(ctx context.Context) error {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	for {
		o.setState(StateSyncing, "")
		err := o.syncOnce(ctx)

		if err != nil {
			if !errors.Is(err, model.ErrNotAuthenticated) {
				o.log.Error().Err(err).Msg("sync failed")
			}
			// There is no automatic retry: a request that arrived mid-run
			// is dropped with the failed run and waits for the next
			// external trigger.
			o.mu.Lock()
			o.pending = false
			if errors.Is(err, model.ErrNotAuthenticated) {
				o.state, o.message = StateIdle, ""
				o.mu.Unlock()
			} else {
				o.state, o.message = StateError, err.Error()
				o.mu.Unlock()
				o.clearAfter(StateError)
			}
			return err
		}

		// Consuming the pending flag and publishing the terminal state
		// happen under one lock: a request landing at any point during the
		// run is either consumed here (forcing the follow-up run) or
		// observes the published state and starts its own debounce.
		o.mu.Lock()
		if o.pending {
			o.pending = false
			o.mu.Unlock()
			// One coalesced follow-up run, without a further debounce.
			continue
		}
		o.state, o.message = StateSuccess, ""
		o.mu.Unlock()
		o.clearAfter(StateSuccess)
		return nil
	}
}

// syncOnce runs the entity kinds in dependency order: parents before
// children, so a child's parent-link write never references a remote parent
// that does not exist yet. The first failing step aborts the rest of the
// run; kinds merged before it keep their progress.
func (o *Orchestrator) syncOnce(ctx context.Context) error {
	if _, err := o.authorizer.Authorize(ctx); err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"profiles", o.merger.MergeProfiles},
		{"sections", o.merger.MergeSections},
		{"media entries", o.merger.MergeMediaEntries},
		{"schedule entries", o.merger.MergeScheduleEntries},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return err
		}
	}
	o.log.Info().Msg("full sync complete")
	return nil
}

func (o *Orchestrator) setState(s State, msg string) {
	o.mu.Lock()
	o.state = s
	o.message = msg
	o.mu.Unlock()
}

// clearAfter schedules the auto-clear of a terminal state back to idle so
// the UI never shows a stuck error badge.
func (o *Orchestrator) clearAfter(s State) {
	time.AfterFunc(o.statusClear, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.state == s {
			o.state = StateIdle
			o.message = ""
		}
	})
}
