package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/karloscodes/cartridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberdock/internal/sales"
	"cyberdock/internal/store"
	"cyberdock/internal/testsupport"
)

type fakeSource struct {
	loads atomic.Int32
	err   error
}

func (f *fakeSource) ListSales(context.Context, string) ([]sales.Sale, error) {
	f.loads.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []sales.Sale{testsupport.NewSale("A1", time.Now(), 10)}, nil
}

func (f *fakeSource) ListAccounts(context.Context) ([]sales.Account, error) {
	return nil, nil
}

type jobFunc func(ctx context.Context) error

func (f jobFunc) Run(ctx context.Context) error { return f(ctx) }

func TestCacheWarmJobRefreshesSnapshot(t *testing.T) {
	src := &fakeSource{}
	cache := store.NewCachedSource(src, time.Hour, testsupport.GetLogger())
	job := NewCacheWarmJob(cache, testsupport.GetLogger(), time.Second)

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, int32(2), src.loads.Load(), "warming always bypasses the cache")

	_, err := cache.ListSales(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.loads.Load(), "requests hit the warmed snapshot")
}

func TestCacheWarmJobError(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	job := NewCacheWarmJob(store.NewCachedSource(src, time.Hour, testsupport.GetLogger()), testsupport.GetLogger(), time.Second)
	assert.Error(t, job.Run(context.Background()))
}

func TestCachePurgeJob(t *testing.T) {
	src := &fakeSource{}
	cache := store.NewCachedSource(src, time.Hour, testsupport.GetLogger())
	ctx := context.Background()
	_, _ = cache.ListSales(ctx, "")
	_, _ = cache.ListSales(ctx, "1001")
	_, _ = cache.ListSales(ctx, "2002")
	require.Equal(t, 3, cache.Len())

	require.NoError(t, NewCachePurgeJob(cache, testsupport.GetLogger()).Run(ctx))
	assert.Equal(t, 1, cache.Len(), "the all-accounts snapshot survives")

	_, _ = cache.ListSales(ctx, "")
	assert.Equal(t, int32(3), src.loads.Load())
}

func TestSchedulerRunsJobsAndStops(t *testing.T) {
	s := NewScheduler(testsupport.GetLogger())
	var runs atomic.Int32
	s.Register("count", 10*time.Millisecond, jobFunc(func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestSchedulerSkipsOverlappingRuns(t *testing.T) {
	s := NewScheduler(testsupport.GetLogger())
	release := make(chan struct{})
	var runs atomic.Int32
	s.Register("slow", time.Hour, jobFunc(func(context.Context) error {
		runs.Add(1)
		<-release
		return nil
	}))

	go s.RunNow("slow")
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	assert.True(t, s.RunNow("slow"), "skipped, but the job exists")
	assert.Equal(t, int32(1), runs.Load())
	close(release)

	assert.False(t, s.RunNow("missing"))
}

func TestSchedulerRecoversPanics(t *testing.T) {
	s := NewScheduler(testsupport.GetLogger())
	s.Register("panics", time.Hour, jobFunc(func(context.Context) error { panic("boom") }))
	assert.NotPanics(t, func() { s.RunNow("panics") })
}

func TestSchedulerAsBackgroundWorker(t *testing.T) {
	s := NewScheduler(testsupport.GetLogger())
	ran := make(chan struct{}, 1)
	s.Register("once", time.Hour, jobFunc(func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))

	var worker cartridge.BackgroundWorker = s
	require.NoError(t, worker.Start())
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	worker.Stop()
	assert.False(t, s.IsRunning())
}
