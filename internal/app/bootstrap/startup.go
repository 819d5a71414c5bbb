// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/recordhub/internal/app/store/resettokens"
	"github.com/dalemusser/recordhub/internal/app/system/tasks"
	"github.com/dalemusser/recordhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// jobRunner is shared with Shutdown so the sweep loop stops cleanly.
var jobRunner *tasks.Runner

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It applies any timeout overrides and starts the background jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied", zap.Int("count", n))
	}

	tokenStore := resettokens.New(deps.MongoDatabase, appCfg.ResetTokenExpiry)

	jobRunner = tasks.NewRunner(logger)
	jobRunner.Add(tasks.ExpiredResetTokenSweepJob(tokenStore, logger))
	jobRunner.Start(context.Background())

	return nil
}
