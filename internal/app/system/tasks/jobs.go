// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/recordhub/internal/app/store/resettokens"
	"go.uber.org/zap"
)

// ExpiredResetTokenSweepJob creates a job that marks password-reset
// tokens whose deadline has passed. Confirmation already rejects stale
// tokens on read; the sweep keeps the collection honest for auditing.
func ExpiredResetTokenSweepJob(store *resettokens.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "reset-token-sweep",
		Interval: 1 * time.Hour, // Run hourly
		Run: func(ctx context.Context) error {
			count, err := store.MarkExpired(ctx, time.Now())
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("marked expired reset tokens", zap.Int64("count", count))
			}
			return nil
		},
	}
}
