package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrdering(t *testing.T) {
	q := New(Config{QueueSize: 16})
	defer q.Stop()

	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 10; i++ {
		v := i
		require.NoError(t, q.Submit(context.Background(), JobFunc(func(context.Context) error {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			return nil
		})))
	}
	require.NoError(t, q.Barrier(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestQueue_SubmitAfterStop(t *testing.T) {
	q := New(Config{})
	q.Stop()
	q.Stop()

	err := q.Submit(context.Background(), JobFunc(func(context.Context) error { return nil }))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueue_Full(t *testing.T) {
	q := New(Config{QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond})
	defer q.Stop()

	release := make(chan struct{})
	var started int32
	require.NoError(t, q.Submit(context.Background(), JobFunc(func(context.Context) error {
		atomic.StoreInt32(&started, 1)
		<-release
		return nil
	})))
	for atomic.LoadInt32(&started) == 0 {
		time.Sleep(time.Millisecond)
	}

	noop := JobFunc(func(context.Context) error { return nil })
	require.NoError(t, q.Submit(context.Background(), noop))

	fullBefore := testutil.ToFloat64(queueFullTotal)
	err := q.Submit(context.Background(), noop)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFull))

	var full *FullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, 1, full.Capacity)
	assert.Equal(t, fullBefore+1, testutil.ToFloat64(queueFullTotal))
	close(release)
}

func TestQueue_AcceptedJobIgnoresCallerCancel(t *testing.T) {
	q := New(Config{})
	defer q.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan error, 1)
	require.NoError(t, q.Submit(ctx, JobFunc(func(jobCtx context.Context) error {
		ran <- jobCtx.Err()
		return nil
	})))
	cancel()

	select {
	case err := <-ran:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}

func TestQueue_CancelledContextWithRoomIsAccepted(t *testing.T) {
	q := New(Config{QueueSize: 128})
	defer q.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	for i := 0; i < 100; i++ {
		require.NoError(t, q.Submit(ctx, JobFunc(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})))
	}
	require.NoError(t, q.Barrier(context.Background()))
	assert.Equal(t, int32(100), atomic.LoadInt32(&ran))
}

func TestQueue_CancelledContextWhileFull(t *testing.T) {
	q := New(Config{QueueSize: 1, EnqueueTimeout: time.Minute})
	defer q.Stop()

	release := make(chan struct{})
	defer close(release)
	var started int32
	block := JobFunc(func(context.Context) error {
		atomic.StoreInt32(&started, 1)
		<-release
		return nil
	})
	require.NoError(t, q.Submit(context.Background(), block))
	for atomic.LoadInt32(&started) == 0 {
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, q.Submit(context.Background(), JobFunc(func(context.Context) error { return nil })))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.Submit(ctx, JobFunc(func(context.Context) error { return nil }))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_ErrorHandlerAndPanic(t *testing.T) {
	var (
		mu   sync.Mutex
		errs []error
	)
	q := New(Config{ErrorHandler: func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}})

	failuresBefore := testutil.ToFloat64(jobFailuresTotal)
	boom := errors.New("boom")
	require.NoError(t, q.Submit(context.Background(), JobFunc(func(context.Context) error { return boom })))
	require.NoError(t, q.Submit(context.Background(), JobFunc(func(context.Context) error { panic("bad") })))
	require.NoError(t, q.Submit(context.Background(), JobFunc(func(context.Context) error { return nil })))
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], boom)
	assert.Contains(t, errs[1].Error(), "panic")
	assert.Equal(t, failuresBefore+2, testutil.ToFloat64(jobFailuresTotal))
}

func TestQueue_StopDrainsPending(t *testing.T) {
	q := New(Config{QueueSize: 8})

	var count int32
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Submit(context.Background(), JobFunc(func(context.Context) error {
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&count, 1)
			return nil
		})))
	}
	q.Stop()
	assert.Equal(t, int32(5), atomic.LoadInt32(&count))
}
