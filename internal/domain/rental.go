package domain

import "time"

type RentalState string

const (
	RentalStateActive         RentalState = "ACTIVE"
	RentalStateCompleted      RentalState = "COMPLETED"
	RentalStateCancelled      RentalState = "CANCELLED"
	RentalStateDisputed       RentalState = "DISPUTED"
	RentalStateResolvedTenant RentalState = "RESOLVED_TENANT"
	RentalStateResolvedLender RentalState = "RESOLVED_LENDER"
	RentalStateRecovered      RentalState = "RECOVERED"
)

// Terminal reports whether no further transitions may leave the state.
// DISPUTED is the only non-initial, non-terminal state.
func (s RentalState) Terminal() bool {
	switch s {
	case RentalStateCompleted, RentalStateCancelled, RentalStateResolvedTenant,
		RentalStateResolvedLender, RentalStateRecovered:
		return true
	}
	return false
}

type Rental struct {
	ID        int32    `json:"id"`
	ListingID int32    `json:"listing_id"`
	Asset     AssetRef `json:"asset"`
	LenderID  int32    `json:"lender_id"`
	TenantID  int32    `json:"tenant_id"`
	// Price snapshot from the listing at rental creation time. All
	// settlement math uses this snapshot, not the live listing.
	EffectivePricePerSecond int64 `json:"effective_price_per_second"`
	StartTime               int64 `json:"start_time"` // unix seconds
	EndTime                 int64 `json:"end_time"`   // unix seconds
	CollateralAmount        int64 `json:"collateral_amount"`
	// CollateralDeduction is the dispute-ordered amount withheld from the
	// tenant's collateral refund; zero everywhere else.
	CollateralDeduction int64       `json:"collateral_deduction"`
	StreamID            int32       `json:"stream_id"`
	State               RentalState `json:"state"`
	Version             int32       `json:"version"`
	CreatedOn           time.Time   `json:"created_on"`
	UpdatedOn           time.Time   `json:"updated_on"`
}
