package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/NickNterm/recipeapp-server/internal/config"
	"github.com/NickNterm/recipeapp-server/internal/logger"
	"github.com/NickNterm/recipeapp-server/internal/media/images"
)

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial cleanup on startup
		if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session cleanup completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Session cleanup completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}

// MediaSweeperHandle wraps the media sweeper with shutdown capability.
type MediaSweeperHandle struct {
	*images.Sweeper
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *MediaSweeperHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideMediaSweeper provides the orphaned media sweeper.
// It reconciles the image directory with the database on an interval
// and reacts to external file changes via fsnotify.
func ProvideMediaSweeper(i do.Injector) (*MediaSweeperHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	sweeper := images.NewSweeper(storage, storeHandle.Store, cfg.Media.SweepInterval, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := sweeper.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Media sweeper stopped", "error", err)
		}
	}()

	log.Info("Media sweeper started", "interval", cfg.Media.SweepInterval)

	return &MediaSweeperHandle{
		Sweeper: sweeper,
		cancel:  cancel,
	}, nil
}
