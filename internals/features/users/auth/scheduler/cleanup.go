package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/users/auth/service"
)

// RegisterBlacklistCleanup purges expired revoked tokens once a day.
func RegisterBlacklistCleanup(c *cron.Cron, store service.BlacklistStore) (cron.EntryID, error) {
	log := configs.Logger("scheduler")
	return c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := store.Cleanup(ctx)
		if err != nil {
			log.Error().Err(err).Msg("[CLEANUP] token_blacklist failed")
			return
		}
		log.Info().Int64("deleted", n).Msg("[CLEANUP] token_blacklist done")
	})
}
