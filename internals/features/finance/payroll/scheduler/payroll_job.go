package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/finance/payroll/dto"
	"schoolhub_backend/internals/features/finance/payroll/service"
)

// RegisterMonthlyPayroll drafts the current month's payroll on the 25th at 01:00.
// Existing records are skipped, so a manual run earlier in the month is harmless.
func RegisterMonthlyPayroll(c *cron.Cron, svc *service.PayrollService) (cron.EntryID, error) {
	log := configs.Logger("scheduler")
	return c.AddFunc("0 1 25 * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		now := svc.Now()
		res, err := svc.Generate(ctx, dto.GenerateRequest{Year: now.Year(), Month: int(now.Month())})
		if err != nil {
			log.Error().Err(err).Msg("[PAYROLL][CRON] generation failed")
			return
		}
		log.Info().Int("generated", res.Generated).Int("skipped", res.Skipped).
			Int("errors", len(res.Errors)).Msg("[PAYROLL][CRON] done")
	})
}
