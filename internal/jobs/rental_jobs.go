package jobs

import (
	"context"
	"time"

	"nftflow-backend/internal/logger"
)

// MarkRecoverableRentals surfaces rentals whose grace period has elapsed with
// the usage grant still standing. Recovery itself stays a deliberate lender
// or admin action; the job only flags candidates and dangling grants.
func (jr *JobRunner) MarkRecoverableRentals() {
	jr.runWithRecovery("MarkRecoverableRentals", func() {
		ctx := context.Background()
		now := time.Now().Unix()

		rentals, err := jr.store.Rentals().ListRecoverable(ctx, now-jr.config.Engine.RecoveryGracePeriod)
		if err != nil {
			logger.Error("Failed to list recoverable rentals", "error", err)
			return
		}

		for _, rental := range rentals {
			holder, held, err := jr.registry.CurrentUser(ctx, rental.Asset)
			if err != nil {
				logger.Error("Registry lookup failed", "rental_id", rental.ID, "error", err)
				continue
			}
			if held && holder == rental.TenantID {
				logger.Anomaly("Usage grant dangling past recovery grace period",
					"rental_id", rental.ID,
					"tenant_id", rental.TenantID,
					"asset_contract", rental.Asset.Contract,
					"asset_token_id", rental.Asset.TokenID,
					"end_time", rental.EndTime)
			} else {
				logger.Info("Rental eligible for recovery",
					"rental_id", rental.ID,
					"lender_id", rental.LenderID,
					"end_time", rental.EndTime)
			}
		}
		if len(rentals) > 0 {
			logger.Info("Recoverable rentals found", "count", len(rentals))
		}
	})
}
