package domain

import "time"

// AssetRef identifies an NFT by its contract address and token id.
type AssetRef struct {
	Contract string `json:"contract"`
	TokenID  string `json:"token_id"`
}

type Listing struct {
	ID      int32    `json:"id"`
	OwnerID int32    `json:"owner_id"`
	Asset   AssetRef `json:"asset"`
	// Prices and amounts are in the smallest currency unit.
	BasePricePerSecond int64 `json:"base_price_per_second"`
	MinDuration        int64 `json:"min_duration"` // seconds
	MaxDuration        int64 `json:"max_duration"` // seconds
	// CollateralBasis, when non-zero, replaces price*duration as the base
	// amount the reputation multiplier is applied to.
	CollateralBasis    int64  `json:"collateral_basis"`
	RoyaltyBps         int32  `json:"royalty_bps"`
	RoyaltyRecipientID *int32 `json:"royalty_recipient_id,omitempty"`
	Active             bool   `json:"active"`
	Version            int32  `json:"version"`
	CreatedOn          time.Time `json:"created_on"`
	UpdatedOn          time.Time `json:"updated_on"`
}
