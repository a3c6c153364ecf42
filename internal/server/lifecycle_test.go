package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type blockingService struct {
	started atomic.Bool
	stopped atomic.Bool
	order   *stopOrder
	name    string
}

type stopOrder struct {
	mu    sync.Mutex
	names []string
}

func (s *blockingService) Start(ctx context.Context) error {
	s.started.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) Stop(context.Context) {
	s.stopped.Store(true)
	if s.order != nil {
		s.order.mu.Lock()
		s.order.names = append(s.order.names, s.name)
		s.order.mu.Unlock()
	}
}

func waitStarted(t *testing.T, svcs ...*blockingService) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, s := range svcs {
			if !s.started.Load() {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)
}

func TestLifecycle_StopsInReverseOrderOnCancel(t *testing.T) {
	order := &stopOrder{}
	first := &blockingService{name: "first", order: order}
	second := &blockingService{name: "second", order: order}

	lc := NewLifecycle(zaptest.NewLogger(t), time.Second)
	lc.Add("first", first)
	lc.Add("second", second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	waitStarted(t, first, second)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}
	assert.True(t, first.stopped.Load())
	assert.True(t, second.stopped.Load())
	assert.Equal(t, []string{"second", "first"}, order.names)
}

func TestLifecycle_ServiceErrorStopsOthers(t *testing.T) {
	other := &blockingService{name: "other"}
	boom := errors.New("boom")

	lc := NewLifecycle(zaptest.NewLogger(t), time.Second)
	lc.Add("other", other)
	lc.Add("failing", &FuncService{StartFn: func(context.Context) error { return boom }})

	err := lc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "service failing")
	assert.True(t, other.stopped.Load())
}

func TestLifecycle_FinishedServiceEndsRun(t *testing.T) {
	other := &blockingService{name: "other"}

	lc := NewLifecycle(zaptest.NewLogger(t), 0)
	lc.Add("other", other)
	lc.Add("console", &FuncService{StartFn: func(context.Context) error { return nil }})

	require.NoError(t, lc.Run(context.Background()))
	assert.True(t, other.stopped.Load())
}

func TestFuncService_NilStop(t *testing.T) {
	started := false
	svc := &FuncService{StartFn: func(context.Context) error {
		started = true
		return nil
	}}

	require.NoError(t, svc.Start(context.Background()))
	assert.True(t, started)
	assert.NotPanics(t, func() { svc.Stop(context.Background()) })
}
