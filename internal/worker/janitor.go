package worker

import (
	"fmt"
	"time"

	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/session"
	"github.com/robfig/cron/v3"
)

// SessionSweeper ends idle sessions. *session.Manager implements it.
type SessionSweeper interface {
	Sweep(idle time.Duration) int
}

// BucketPruner drops refilled rate-limit buckets. *quota.Limiter implements it.
type BucketPruner interface {
	Prune() int
}

// Janitor periodically discards idle sessions and their history logs.
type Janitor struct {
	sessions SessionSweeper
	pruners  []BucketPruner
	idle     time.Duration
	schedule string
	cron     *cron.Cron
}

// NewJanitor creates a janitor running on schedule (cron spec or "@every 5m").
func NewJanitor(sessions SessionSweeper, idle time.Duration, schedule string) *Janitor {
	return &Janitor{
		sessions: sessions,
		idle:     idle,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// NewSessionJanitor is NewJanitor for the session manager.
func NewSessionJanitor(sessions *session.Manager, idle time.Duration, schedule string) *Janitor {
	return NewJanitor(sessions, idle, schedule)
}

// AddPruner registers p to run after each sweep.
func (j *Janitor) AddPruner(p BucketPruner) {
	j.pruners = append(j.pruners, p)
}

// Start schedules the sweep job and starts the scheduler.
func (j *Janitor) Start() error {
	logger.Log.Infof("[Janitor] Starting session sweeper (%s, idle timeout %s)", j.schedule, j.idle)

	if _, err := j.cron.AddFunc(j.schedule, j.SweepOnce); err != nil {
		return fmt.Errorf("failed to schedule session sweep %q: %w", j.schedule, err)
	}

	j.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	logger.Log.Info("[Janitor] Stopped")
}

// SweepOnce ends every session idle for longer than the timeout, then prunes.
func (j *Janitor) SweepOnce() {
	if ended := j.sessions.Sweep(j.idle); ended > 0 {
		logger.Log.Infof("[Janitor] Ended %d idle sessions", ended)
	}
	for _, p := range j.pruners {
		if pruned := p.Prune(); pruned > 0 {
			logger.Log.Debugf("[Janitor] Pruned %d rate-limit buckets", pruned)
		}
	}
}
