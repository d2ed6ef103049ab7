package app

import (
	"context"
	"time"

	pkgcron "github.com/ministry-site/core/internal/pkg/cron"
	"github.com/ministry-site/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

const finishedTaskRetention = 24 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, store taskqueue.Store, logger *zap.Logger) error {
	cronLogger := logger.Named("CronService")

	return sched.Register(pkgcron.Job{
		Name:        "cleanup_tasks",
		Description: "Remove finished mail tasks older than a day",
		Spec:        "@every 1h",
		Timeout:     time.Minute,
		Fn: func(ctx context.Context) error {
			n, err := store.DeleteFinished(ctx, time.Now().Add(-finishedTaskRetention))
			if err != nil {
				cronLogger.Warn("cleanup tasks failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info("cleaned up finished tasks", zap.Int("count", n))
			}
			return nil
		},
	})
}
