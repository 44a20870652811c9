// services/sweeper.go
package services

import (
	"log"
	"time"

	"trash-detect-system/utils"

	"github.com/go-co-op/gocron/v2"
)

// StartTempSweeper runs a periodic cleanup of the temp spool directory.
// Requests remove their own spool files; this catches anything leaked by
// a crashed request.
func (s *ClassifyService) StartTempSweeper() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 10 minutes: drop spool files older than an hour
	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			removed, err := utils.SweepTempDir(1 * time.Hour)
			if err != nil {
				log.Printf("[Sweeper] temp sweep failed: %v", err)
				return
			}
			if removed > 0 {
				log.Printf("[Sweeper] removed %d stale spool files", removed)
			}
		}),
	)
}
