package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionEvictor drops sessions that have been idle for longer than ttl
type SessionEvictor interface {
	EvictIdle(ctx context.Context, ttl time.Duration) int
}

// SessionCleanupJob evicts idle wizard sessions. Eviction flushes any
// pending profile save first.
type SessionCleanupJob struct {
	sessions SessionEvictor
	idleTTL  time.Duration
	logger   *zap.Logger
}

// NewSessionCleanupJob creates a new SessionCleanupJob instance
func NewSessionCleanupJob(sessions SessionEvictor, idleTTL time.Duration, logger *zap.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		sessions: sessions,
		idleTTL:  idleTTL,
		logger:   logger,
	}
}

// Run executes the cleanup job
func (j *SessionCleanupJob) Run() {
	if j.idleTTL <= 0 {
		return
	}

	ctx := context.Background()
	evicted := j.sessions.EvictIdle(ctx, j.idleTTL)
	if evicted == 0 {
		j.logger.Debug("No idle sessions found")
		return
	}

	j.logger.Info("Idle sessions evicted",
		zap.Int("count", evicted),
		zap.Duration("idle_ttl", j.idleTTL),
	)
}

// NewScheduler returns a stopped cron scheduler running job on spec.
// Overlapping runs are skipped and panics are recovered.
func NewScheduler(spec string, job cron.Job, logger *zap.Logger) (*cron.Cron, error) {
	cronLog := &cronLogger{logger: logger.Sugar()}
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	if _, err := scheduler.AddJob(spec, job); err != nil {
		return nil, err
	}
	return scheduler, nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
