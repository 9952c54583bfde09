package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmmarket/console/internal/jobs"
	"farmmarket/console/internal/models"
)

type fakeBackend struct {
	mu       sync.Mutex
	calls    int
	lists    [][]models.Delivery
	errs     []error
	observed []State
	ctrl     *Controller
	gate     chan struct{}
}

// fetch returns the next scripted response and records the controller state
// seen while the call is in flight.
func (f *fakeBackend) fetch(ctx context.Context) ([]models.Delivery, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	gate := f.gate
	f.mu.Unlock()

	if f.ctrl != nil {
		snap := f.ctrl.Snapshot()
		f.mu.Lock()
		f.observed = append(f.observed, snap)
		f.mu.Unlock()
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.lists) {
		return f.lists[i], nil
	}
	return f.lists[len(f.lists)-1], nil
}

func (f *fakeBackend) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func deliveries(ids ...int64) []models.Delivery {
	out := make([]models.Delivery, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Delivery{ID: id, OrderID: id * 10, DeliveryStatus: models.DeliveryInTransit})
	}
	return out
}

func setup(t *testing.T, backend *fakeBackend, opts ...Option) (*Controller, *jobs.Manual) {
	t.Helper()
	sched := jobs.NewManual()
	ctrl := New(backend.fetch, sched, opts...)
	backend.ctrl = ctrl
	return ctrl, sched
}

func TestMountFetchesOnceAndSelectsFirst(t *testing.T) {
	backend := &fakeBackend{lists: [][]models.Delivery{deliveries(1, 2)}}
	ctrl, sched := setup(t, backend)

	require.NoError(t, ctrl.Mount(context.Background()))

	assert.Equal(t, 1, backend.count())
	require.Len(t, backend.observed, 1)
	assert.True(t, backend.observed[0].Loading)

	snap := ctrl.Snapshot()
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.Selected)
	assert.Equal(t, int64(1), snap.Selected.ID)
	assert.Len(t, snap.Deliveries, 2)
	assert.False(t, snap.LastUpdated.IsZero())
	assert.Equal(t, []time.Duration{DefaultInterval}, sched.Intervals())
}

func TestBackgroundTickFetchesOnceWithoutLoading(t *testing.T) {
	backend := &fakeBackend{lists: [][]models.Delivery{deliveries(1), deliveries(1, 2), deliveries(1, 2, 3)}}
	ctrl, sched := setup(t, backend)
	require.NoError(t, ctrl.Mount(context.Background()))

	sched.Tick()
	assert.Equal(t, 2, backend.count())
	sched.Tick()
	assert.Equal(t, 3, backend.count())

	for _, seen := range backend.observed[1:] {
		assert.False(t, seen.Loading)
	}
	assert.Len(t, ctrl.Snapshot().Deliveries, 3)
}

func TestBackgroundErrorsAreNotSurfaced(t *testing.T) {
	backend := &fakeBackend{
		lists: [][]models.Delivery{deliveries(1, 2)},
		errs:  []error{nil, errors.New("connection reset")},
	}
	ctrl, sched := setup(t, backend)
	require.NoError(t, ctrl.Mount(context.Background()))

	sched.Tick()

	snap := ctrl.Snapshot()
	assert.NoError(t, snap.Err)
	assert.Len(t, snap.Deliveries, 2)
}

func TestForegroundErrorsAreSurfaced(t *testing.T) {
	boom := errors.New("Failed to load deliveries")
	backend := &fakeBackend{
		lists: [][]models.Delivery{deliveries(1)},
		errs:  []error{boom, nil},
	}
	ctrl, _ := setup(t, backend)

	require.ErrorIs(t, ctrl.Mount(context.Background()), boom)
	assert.ErrorIs(t, ctrl.Snapshot().Err, boom)
	assert.True(t, ctrl.Snapshot().AutoRefresh)

	require.NoError(t, ctrl.Refresh(context.Background()))
	assert.NoError(t, ctrl.Snapshot().Err)
}

func TestManualRefreshWithAutoRefreshOff(t *testing.T) {
	backend := &fakeBackend{lists: [][]models.Delivery{deliveries(1)}}
	ctrl, sched := setup(t, backend, WithAutoRefresh(false))

	require.NoError(t, ctrl.Mount(context.Background()))
	assert.Equal(t, 0, sched.Active())

	require.NoError(t, ctrl.Refresh(context.Background()))
	assert.Equal(t, 2, backend.count())
	assert.True(t, backend.observed[1].Loading)

	sched.Tick()
	assert.Equal(t, 2, backend.count())
}

func TestDisablingAutoRefreshKeepsInFlightFetch(t *testing.T) {
	backend := &fakeBackend{lists: [][]models.Delivery{deliveries(1), deliveries(1, 2)}}
	ctrl, sched := setup(t, backend)
	require.NoError(t, ctrl.Mount(context.Background()))

	gate := make(chan struct{})
	backend.mu.Lock()
	backend.gate = gate
	backend.mu.Unlock()

	done := make(chan struct{})
	go func() {
		sched.Tick()
		close(done)
	}()
	require.Eventually(t, func() bool { return backend.count() == 2 }, time.Second, 5*time.Millisecond)

	ctrl.SetAutoRefresh(false)
	assert.Equal(t, 0, sched.Active())
	close(gate)
	<-done

	snap := ctrl.Snapshot()
	assert.Len(t, snap.Deliveries, 2)
	assert.False(t, snap.AutoRefresh)

	sched.Tick()
	assert.Equal(t, 2, backend.count())

	ctrl.SetAutoRefresh(true)
	assert.Equal(t, 1, sched.Active())
}

func TestStaleSelectionIsRetained(t *testing.T) {
	backend := &fakeBackend{lists: [][]models.Delivery{deliveries(1, 2), deliveries(1)}}
	ctrl, sched := setup(t, backend)
	require.NoError(t, ctrl.Mount(context.Background()))
	require.NoError(t, ctrl.Select(2))

	sched.Tick()

	snap := ctrl.Snapshot()
	require.NotNil(t, snap.Selected)
	assert.Equal(t, int64(2), snap.Selected.ID)
	assert.True(t, snap.SelectionStale)
	assert.Len(t, snap.Deliveries, 1)

	require.NoError(t, ctrl.Select(1))
	assert.False(t, ctrl.Snapshot().SelectionStale)
	assert.ErrorIs(t, ctrl.Select(2), ErrUnknownDelivery)
}

func TestSelectionFollowsRefreshedRecord(t *testing.T) {
	updated := deliveries(1, 2)
	updated[1].DeliveryStatus = models.DeliveryDelivered
	backend := &fakeBackend{lists: [][]models.Delivery{deliveries(1, 2), updated}}
	ctrl, sched := setup(t, backend)
	require.NoError(t, ctrl.Mount(context.Background()))
	require.NoError(t, ctrl.Select(2))

	sched.Tick()

	assert.Equal(t, models.DeliveryDelivered, ctrl.Snapshot().Selected.DeliveryStatus)
}

func TestOlderResponseIsDiscarded(t *testing.T) {
	slow := make(chan struct{})
	var mu sync.Mutex
	call := 0
	fetch := func(ctx context.Context) ([]models.Delivery, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			<-slow
			return deliveries(1), nil
		}
		return deliveries(1, 2, 3), nil
	}
	sched := jobs.NewManual()
	ctrl := New(fetch, sched)

	done := make(chan error)
	go func() { done <- ctrl.Refresh(context.Background()) }()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return call == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, ctrl.Refresh(context.Background()))
	close(slow)
	require.NoError(t, <-done)

	assert.Len(t, ctrl.Snapshot().Deliveries, 3)
}

func TestUnmountStopsPolling(t *testing.T) {
	backend := &fakeBackend{lists: [][]models.Delivery{deliveries(1)}}
	ctrl, sched := setup(t, backend, WithInterval(30*time.Second))
	require.NoError(t, ctrl.Mount(context.Background()))
	assert.Equal(t, []time.Duration{30 * time.Second}, sched.Intervals())

	ctrl.Unmount()
	assert.Equal(t, 0, sched.Active())

	ctrl.SetAutoRefresh(true)
	assert.Equal(t, 0, sched.Active())
}

func TestReplaceUpdatesListAndSelection(t *testing.T) {
	backend := &fakeBackend{lists: [][]models.Delivery{deliveries(1, 2)}}
	ctrl, _ := setup(t, backend)
	require.NoError(t, ctrl.Mount(context.Background()))

	d := deliveries(1)[0]
	d.DeliveryStatus = models.DeliveryFailed
	ctrl.Replace(d)

	snap := ctrl.Snapshot()
	assert.Equal(t, models.DeliveryFailed, snap.Deliveries[0].DeliveryStatus)
	assert.Equal(t, models.DeliveryFailed, snap.Selected.DeliveryStatus)
}

type lister struct{ buyer int64 }

func (l *lister) TrackBuyerDeliveries(_ context.Context, buyerID int64) ([]models.Delivery, error) {
	l.buyer = buyerID
	return deliveries(4), nil
}

func TestForBuyer(t *testing.T) {
	_, err := ForBuyer(&lister{}, 0)
	assert.ErrorIs(t, err, ErrNoBuyer)

	l := &lister{}
	fetch, err := ForBuyer(l, 12)
	require.NoError(t, err)
	list, err := fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(12), l.buyer)
}
