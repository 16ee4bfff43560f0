package worker

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/amityadav/stratreport/internal/quota"
	"github.com/amityadav/stratreport/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	idle  atomic.Int64
}

func (s *countingSweeper) Sweep(idle time.Duration) int {
	s.calls.Add(1)
	s.idle.Store(int64(idle))
	return 0
}

func TestSweepOnceEndsIdleSessions(t *testing.T) {
	m := session.NewManager()
	m.Start()

	j := NewSessionJanitor(m, time.Nanosecond, "@every 5m")
	time.Sleep(time.Millisecond)
	j.SweepOnce()

	assert.Equal(t, 0, m.Len())
}

func TestSweepOnceEndsSessionsAndPrunesQuota(t *testing.T) {
	m := session.NewManager()
	l := quota.NewLimiter(5, 5)
	m.OnEnd(l.Forget)

	s := m.Start()
	require.True(t, l.Allow(s.ID, "10.0.0.1", quota.ResourceReport))
	require.Equal(t, 2, l.Len())

	j := NewSessionJanitor(m, time.Nanosecond, "@every 5m")
	j.AddPruner(l)
	time.Sleep(time.Millisecond)
	j.SweepOnce()

	assert.Equal(t, 0, m.Len())
	// The session bucket goes with the session; the client bucket is still draining.
	assert.Equal(t, 1, l.Len())
}

func TestStartRunsScheduledSweep(t *testing.T) {
	s := &countingSweeper{}
	j := NewJanitor(s, 2*time.Hour, "@every 1s")
	require.NoError(t, j.Start())
	defer j.Stop()

	require.Eventually(t, func() bool { return s.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, int64(2*time.Hour), s.idle.Load())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	j := NewJanitor(&countingSweeper{}, time.Hour, "every now and then")
	require.Error(t, j.Start())
}
