package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/VladPetriv/flastel/pkg/errs"
	"github.com/VladPetriv/flastel/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchResult struct {
	updates []RawUpdate
	err     error
}

// fakeFetcher returns prepared results and cancels the polling once they are over.
type fakeFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	offsets []int
	cancel  context.CancelFunc
}

func (f *fakeFetcher) FetchUpdates(_ context.Context, offset int) ([]RawUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.offsets = append(f.offsets, offset)

	if len(f.results) == 0 {
		f.cancel()
		return nil, nil
	}

	result := f.results[0]
	f.results = f.results[1:]

	return result.updates, result.err
}

type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []int
	failures   map[int]error
	panics     map[int]bool
}

func (d *fakeDispatcher) Dispatch(_ context.Context, update *models.Update) error {
	d.mu.Lock()
	d.dispatched = append(d.dispatched, update.ID)
	d.mu.Unlock()

	if d.panics[update.ID] {
		panic(fmt.Sprintf("handler bug on update %d", update.ID))
	}

	return d.failures[update.ID]
}

type memoryOffsetStore struct {
	mu     sync.Mutex
	offset int
	saved  []int
	getErr error
}

func (m *memoryOffsetStore) GetOffset(_ context.Context) (int, error) {
	return m.offset, m.getErr
}

func (m *memoryOffsetStore) SaveOffset(_ context.Context, offset int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.offset = offset
	m.saved = append(m.saved, offset)

	return nil
}

func rawMessage(id int, text string) RawUpdate {
	return RawUpdate{
		ID:      id,
		Payload: []byte(fmt.Sprintf(`{"update_id":%d,"message":{"chat":{"id":1},"from":{"id":2},"text":%q}}`, id, text)),
	}
}

func TestPoller_Run(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		desc               string
		results            []fetchResult
		failures           map[int]error
		panics             map[int]bool
		expectedDispatched []int
		expectedOffsets    []int
		expectedOffset     int
	}{
		{
			desc: "updates from several batches are dispatched in order",
			results: []fetchResult{
				{updates: []RawUpdate{rawMessage(10, "/start"), rawMessage(11, "hi")}},
				{updates: []RawUpdate{rawMessage(12, "/help")}},
			},
			expectedDispatched: []int{10, 11, 12},
			expectedOffsets:    []int{0, 12, 13},
			expectedOffset:     13,
		},
		{
			desc: "handler error doesn't stop the batch",
			results: []fetchResult{
				{updates: []RawUpdate{rawMessage(1, "/a"), rawMessage(2, "/b"), rawMessage(3, "/c")}},
			},
			failures: map[int]error{
				1: errors.New("send message: timeout"),
				2: errs.New("not allowed"),
			},
			expectedDispatched: []int{1, 2, 3},
			expectedOffsets:    []int{0, 4},
			expectedOffset:     4,
		},
		{
			desc: "handler panic doesn't stop the batch",
			results: []fetchResult{
				{updates: []RawUpdate{rawMessage(5, "/a"), rawMessage(6, "/b")}},
			},
			panics:             map[int]bool{5: true},
			expectedDispatched: []int{5, 6},
			expectedOffsets:    []int{0, 7},
			expectedOffset:     7,
		},
		{
			desc: "malformed update is skipped",
			results: []fetchResult{
				{updates: []RawUpdate{
					{ID: 20, Payload: []byte(`{"update_id":20,"message":{"text":"no chat"}}`)},
					rawMessage(21, "hi"),
				}},
			},
			expectedDispatched: []int{21},
			expectedOffsets:    []int{0, 22},
			expectedOffset:     22,
		},
		{
			desc: "transport error is retried with the same offset",
			results: []fetchResult{
				{err: errors.New("connection refused")},
				{err: errors.New("bad gateway")},
				{updates: []RawUpdate{rawMessage(30, "hi")}},
			},
			expectedDispatched: []int{30},
			expectedOffsets:    []int{0, 0, 0, 31},
			expectedOffset:     31,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			fetcher := &fakeFetcher{results: tc.results, cancel: cancel}
			dispatcher := &fakeDispatcher{failures: tc.failures, panics: tc.panics}

			poller := NewPoller(PollerOptions{
				Fetcher:                fetcher,
				Dispatcher:             dispatcher,
				BackoffInitialInterval: time.Millisecond,
				BackoffMaxInterval:     5 * time.Millisecond,
			})

			err := poller.Run(ctx)
			require.NoError(t, err)

			assert.Equal(t, tc.expectedDispatched, dispatcher.dispatched)
			assert.Equal(t, tc.expectedOffsets, fetcher.offsets)
			assert.Equal(t, tc.expectedOffset, poller.Offset())
		})
	}
}

func TestPoller_OffsetStore(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := &memoryOffsetStore{offset: 100}
	fetcher := &fakeFetcher{
		results: []fetchResult{
			{updates: []RawUpdate{rawMessage(100, "a"), rawMessage(101, "b")}},
		},
		cancel: cancel,
	}

	poller := NewPoller(PollerOptions{
		Fetcher:     fetcher,
		Dispatcher:  &fakeDispatcher{},
		OffsetStore: store,
	})

	err := poller.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 102}, fetcher.offsets)
	assert.Equal(t, []int{101, 102}, store.saved)
	assert.Equal(t, 102, store.offset)
}

func TestPoller_OffsetStoreError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poller := NewPoller(PollerOptions{
		Fetcher:     &fakeFetcher{cancel: cancel},
		Dispatcher:  &fakeDispatcher{},
		OffsetStore: &memoryOffsetStore{getErr: errors.New("database is down")},
	})

	err := poller.Run(ctx)
	assert.ErrorContains(t, err, "database is down")
}

func TestPoller_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{cancel: cancel}
	poller := NewPoller(PollerOptions{
		Fetcher:    fetcher,
		Dispatcher: &fakeDispatcher{},
	})

	err := poller.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, fetcher.offsets)
}

func TestSleep(t *testing.T) {
	t.Parallel()

	assert.True(t, sleep(context.Background(), 0))
	assert.True(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
	assert.False(t, sleep(ctx, 0))
}
