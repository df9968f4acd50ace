package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	n atomic.Int32
}

func (r *countingRefresher) Refresh(context.Context) { r.n.Add(1) }

func TestSchedulerRefreshesPeriodically(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, time.Second)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, int32(0), r.n.Load(), "first run waits one interval")
	assert.Eventually(t, func() bool { return r.n.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestNewDefaultsInterval(t *testing.T) {
	s := New(&countingRefresher{}, 0)
	assert.Equal(t, 15*time.Minute, s.interval)
}
