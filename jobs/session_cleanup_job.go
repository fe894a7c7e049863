package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger removes expired credentials and reports how many rows it deleted
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// SessionCleanupJob periodically deletes expired sessions and OAuth tokens
type SessionCleanupJob struct {
	purger   Purger
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewSessionCleanupJob creates the job. schedule uses cron syntax or descriptors such as "@every 1h".
func NewSessionCleanupJob(purger Purger, schedule string, logger *zap.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		purger:   purger,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With(zap.String("component", "session_cleanup_job")),
	}
}

// Start registers the job with the scheduler and starts it
func (j *SessionCleanupJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("session cleanup job started", zap.String("schedule", j.schedule))
	return nil
}

// Run executes one cleanup pass
func (j *SessionCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("session cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("expired credentials removed", zap.Int64("rows", removed))
	}
}

// Stop stops the scheduler and waits for a running pass to finish
func (j *SessionCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("session cleanup job stopped")
}
