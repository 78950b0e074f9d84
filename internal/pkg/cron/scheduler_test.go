package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunOnceRunsEveryJob(t *testing.T) {
	s := NewScheduler()
	var a, b int32
	s.AddJob("a", time.Hour, func(ctx context.Context) error { atomic.AddInt32(&a, 1); return nil })
	s.AddJob("b", time.Hour, func(ctx context.Context) error { atomic.AddInt32(&b, 1); return errors.New("failed") })

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), atomic.LoadInt32(&a))
	assert.Equal(t, int32(1), atomic.LoadInt32(&b))
	assert.Equal(t, []string{"a", "b"}, s.Jobs())
}

func TestScheduler_SurvivesPanickingJob(t *testing.T) {
	s := NewScheduler()
	var ran int32
	s.AddJob("panics", time.Hour, func(ctx context.Context) error { panic("boom") })
	s.AddJob("after", time.Hour, func(ctx context.Context) error { atomic.AddInt32(&ran, 1); return nil })

	assert.NotPanics(t, func() { s.RunOnce(context.Background()) })
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestScheduler_StartRunsImmediatelyAndStopWaits(t *testing.T) {
	s := NewScheduler()
	started := make(chan struct{}, 1)
	var stoppedCleanly int32
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	})
	s.AddJob("blocking", time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		atomic.StoreInt32(&stoppedCleanly, 1)
		return ctx.Err()
	})

	s.Start()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&stoppedCleanly))
}
