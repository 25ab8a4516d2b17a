package jobs

import (
	"context"
	"log"
	"time"

	"github.com/parkshare/parkshare-backend/internal/core"
	"github.com/robfig/cron/v3"
)

// StartCompletionSweep schedules the booking completion sweep: paid bookings
// whose rental window has elapsed are moved to completed. Returns the
// running scheduler so the caller can Stop it on shutdown.
func StartCompletionSweep(engine *core.BookingEngine) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@every 10m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		completed, err := engine.CompleteElapsed(ctx)
		if err != nil {
			log.Printf("Booking completion sweep failed: %v", err)
			return
		}
		if completed > 0 {
			log.Printf("Completed %d elapsed booking(s)", completed)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule completion sweep: %v", err)
	}

	c.Start()
	return c
}
