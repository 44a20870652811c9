// workers/detector_health_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"trash-detect-system/services"
)

// PollDetector keeps the detector client's availability flag current. The
// classify pipeline refuses uploads while the model is unavailable, so the
// poll interval bounds how stale that decision can be.
func PollDetector(ctx context.Context, client *services.DetectorClient, interval time.Duration) {
	// Probe once immediately so the service doesn't start in a blanket
	// "unavailable" state until the first tick.
	wasAvailable := probe(ctx, client, false)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Detector health worker stopping...")
			return
		case <-ticker.C:
			wasAvailable = probe(ctx, client, wasAvailable)
		}
	}
}

func probe(ctx context.Context, client *services.DetectorClient, wasAvailable bool) bool {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := client.CheckHealth(checkCtx)
	available := err == nil

	if available != wasAvailable {
		if available {
			log.Printf("✅ Inference service is available at %s", client.BaseURL)
		} else {
			log.Printf("⚠️  Inference service unavailable: %v", err)
		}
	}
	return available
}
