package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/leonemendes/dw-mini/internal/domain/jobs"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

// cleanupRetention is how long completed import jobs are kept.
const cleanupRetention = 30 * 24 * time.Hour

// NewCleanupScheduler returns a cron scheduler that deletes import jobs
// completed more than the retention period ago, once a day. The caller owns
// Start/Stop.
func NewCleanupScheduler(jobRepo jobs.ImportJobRepository, log logger.Logger) (*cron.Cron, error) {
	scheduler := cron.New()

	_, err := scheduler.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().UTC().Add(-cleanupRetention)
		deleted, err := jobRepo.DeleteCompletedBefore(ctx, cutoff)
		if err != nil {
			log.Error("Import job cleanup failed: ", err)
			return
		}
		log.Info("Import job cleanup removed ", deleted, " jobs")
	})
	if err != nil {
		return nil, err
	}

	return scheduler, nil
}
