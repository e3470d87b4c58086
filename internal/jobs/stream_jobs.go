package jobs

import (
	"context"
	"time"

	"nftflow-backend/internal/logger"
)

// SweepMilestones walks active streams and emits MilestoneReached events for
// every checkpoint the clock has crossed since the last sweep.
func (jr *JobRunner) SweepMilestones() {
	jr.runWithRecovery("SweepMilestones", func() {
		ctx := context.Background()
		crossed, err := jr.services.Streams.CheckMilestones(ctx, time.Now().Unix())
		if err != nil {
			logger.Error("Milestone sweep failed", "error", err)
			return
		}
		if crossed > 0 {
			logger.Info("Milestones crossed", "count", crossed)
		}
	})
}
