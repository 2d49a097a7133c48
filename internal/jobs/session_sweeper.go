package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper drops expired sessions from a store that does not expire keys itself
type Sweeper interface {
	Sweep(now time.Time) int
}

// SessionSweeperJob runs a Sweeper on a cron schedule
type SessionSweeperJob struct {
	sweeper  Sweeper
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionSweeperJob(sweeper Sweeper, schedule string, logger *zap.Logger) *SessionSweeperJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionSweeperJob{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
		now:      time.Now,
	}
}

func (j *SessionSweeperJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce() }); err != nil {
		return fmt.Errorf("failed to schedule session sweeper: %w", err)
	}
	j.cron.Start()
	j.logger.Info("Session sweeper started", zap.String("schedule", j.schedule))
	return nil
}

func (j *SessionSweeperJob) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce sweeps immediately and returns the number of sessions removed
func (j *SessionSweeperJob) RunOnce() int {
	removed := j.sweeper.Sweep(j.now())
	if removed > 0 {
		j.logger.Info("Swept expired sessions", zap.Int("removed", removed))
	}
	return removed
}
