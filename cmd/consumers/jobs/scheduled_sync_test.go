package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"liberia/internal/models"

	"github.com/stretchr/testify/assert"
)

type blockingSyncer struct {
	calls   int32
	release chan struct{}
	err     error
}

func (s *blockingSyncer) PullSync(context.Context) (*models.SyncResult, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return &models.SyncResult{State: models.SyncAborted}, s.err
	}
	return &models.SyncResult{State: models.SyncDone}, nil
}

func TestRunOnceSkipsOverlappingRuns(t *testing.T) {
	s := &blockingSyncer{release: make(chan struct{})}
	job := NewScheduledSyncJob(s, time.Hour)

	started := make(chan bool)
	go func() { started <- job.runOnce(context.Background()) }()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&s.calls) == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, job.runOnce(context.Background()))

	close(s.release)
	assert.True(t, <-started)
	assert.True(t, job.runOnce(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&s.calls))
}

func TestRunOnceSurvivesAbortedSync(t *testing.T) {
	s := &blockingSyncer{err: errors.New("upstream down")}
	job := NewScheduledSyncJob(s, time.Hour)

	assert.True(t, job.runOnce(context.Background()))
	assert.True(t, job.runOnce(context.Background()))
}
