package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlog/famlog/internal/auth"
	"github.com/famlog/famlog/internal/model"
)

func authorized() *auth.MockAuthorizer {
	return &auth.MockAuthorizer{Session: &auth.Session{AccountID: "acct", DeviceID: "dev"}}
}

func newTestOrchestrator(t *testing.T, transport *fakeTransport, a auth.Authorizer, debounce time.Duration) *Orchestrator {
	t.Helper()
	st := newTestStore(t)
	m := NewMerger(st, transport, newTestTracker(t, st), zerolog.Nop())
	return NewOrchestrator(m, a, debounce, 20*time.Millisecond, zerolog.Nop())
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestDebounceCoalescesBursts(t *testing.T) {
	transport := newFakeTransport()
	o := newTestOrchestrator(t, transport, authorized(), 20*time.Millisecond)

	for i := 0; i < 10; i++ {
		o.RequestSync()
		time.Sleep(time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return transport.queryCount("profiles") >= 1 })
	// Give a would-be second run time to fire.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, transport.queryCount("profiles"), "burst must collapse into one run")
}

func TestKindsSyncInDependencyOrder(t *testing.T) {
	transport := newFakeTransport()
	o := newTestOrchestrator(t, transport, authorized(), time.Millisecond)

	require.NoError(t, o.PerformFullSync(context.Background()))
	assert.Equal(t, []string{"profiles", "sections", "media-entries", "schedule-entries"}, transport.queries)
}

func TestRequestDuringSyncRunsExactlyOneMore(t *testing.T) {
	transport := newFakeTransport()

	entered := make(chan struct{})
	release := make(chan struct{})
	var once gosync.Once
	transport.onQuery = func(ns string) {
		if ns == "profiles" {
			once.Do(func() {
				close(entered)
				<-release
			})
		}
	}

	o := newTestOrchestrator(t, transport, authorized(), time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- o.PerformFullSync(context.Background()) }()

	<-entered
	// Three requests while syncing must coalesce into one follow-up run.
	o.RequestSync()
	o.RequestSync()
	o.RequestSync()
	close(release)

	require.NoError(t, <-done)
	assert.Equal(t, 2, transport.queryCount("profiles"))
}

// A request landing at the very tail of a run, while the last kind is still
// merging, must force the follow-up run rather than be dropped with the
// finished one.
func TestRequestAtTailOfRunIsNotLost(t *testing.T) {
	transport := newFakeTransport()
	o := newTestOrchestrator(t, transport, authorized(), time.Millisecond)

	var once gosync.Once
	transport.onQuery = func(ns string) {
		if ns == "schedule-entries" {
			once.Do(o.RequestSync)
		}
	}

	require.NoError(t, o.PerformFullSync(context.Background()))
	assert.Equal(t, 2, transport.queryCount("profiles"))
	assert.Equal(t, StateSuccess, o.Status().State)
}

func TestUnauthenticatedSyncIsSilentNoOp(t *testing.T) {
	transport := newFakeTransport()
	o := newTestOrchestrator(t, transport, &auth.MockAuthorizer{}, time.Millisecond)

	err := o.PerformFullSync(context.Background())
	require.ErrorIs(t, err, model.ErrNotAuthenticated)
	assert.Zero(t, transport.queryCount("profiles"))
	assert.Equal(t, StateIdle, o.Status().State)
}

func TestStatusLifecycle(t *testing.T) {
	transport := newFakeTransport()
	o := newTestOrchestrator(t, transport, authorized(), time.Millisecond)

	assert.Equal(t, StateIdle, o.Status().State)

	require.NoError(t, o.PerformFullSync(context.Background()))
	assert.Equal(t, StateSuccess, o.Status().State)

	// Success auto-clears back to idle.
	waitFor(t, time.Second, func() bool { return o.Status().State == StateIdle })
}

func TestSyncFailureSetsErrorStatus(t *testing.T) {
	transport := newFakeTransport()
	transport.queryErr = errors.New("store unreachable")
	o := newTestOrchestrator(t, transport, authorized(), time.Millisecond)

	err := o.PerformFullSync(context.Background())
	require.Error(t, err)

	status := o.Status()
	assert.Equal(t, StateError, status.State)
	assert.Contains(t, status.Message, "store unreachable")

	// Errors auto-clear too; the next RequestSync is the retry mechanism.
	waitFor(t, time.Second, func() bool { return o.Status().State == StateIdle })
}

func TestFailureAbortsRemainingKinds(t *testing.T) {
	transport := newFakeTransport()
	transport.queryErr = errors.New("boom")
	o := newTestOrchestrator(t, transport, authorized(), time.Millisecond)

	_ = o.PerformFullSync(context.Background())
	// Only the first kind was attempted.
	assert.Equal(t, []string{"profiles"}, transport.queries)
}
