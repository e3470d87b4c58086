package domain

import "time"

type Stream struct {
	ID      int32 `json:"id"`
	PayerID int32 `json:"payer_id"`
	PayeeID int32 `json:"payee_id"`
	// Deposit, rate and all settled amounts are in the smallest currency
	// unit. ratePerSecond*(stopTime-startTime) may undershoot deposit by a
	// truncation remainder; that remainder is folded into finalize.
	Deposit        int64 `json:"deposit"`
	RatePerSecond  int64 `json:"rate_per_second"`
	StartTime      int64 `json:"start_time"` // unix seconds
	StopTime       int64 `json:"stop_time"`  // unix seconds
	TotalWithdrawn int64 `json:"total_withdrawn"`
	Active         bool  `json:"active"`
	Finalized      bool  `json:"finalized"`

	FeeBps             int32  `json:"fee_bps"`
	RoyaltyBps         int32  `json:"royalty_bps"`
	RoyaltyRecipientID *int32 `json:"royalty_recipient_id,omitempty"`
	// Populated at finalize.
	PlatformFeeAmount    int64 `json:"platform_fee_amount"`
	CreatorRoyaltyAmount int64 `json:"creator_royalty_amount"`

	Milestones       []Milestone `json:"milestones,omitempty"`
	CurrentMilestone int32       `json:"current_milestone"`

	Version   int32     `json:"version"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Milestone is an observational checkpoint on a stream. Crossing one emits
// a MilestoneReached event; it never moves funds.
type Milestone struct {
	StreamID int32 `json:"stream_id"`
	Seq      int32 `json:"seq"`
	AtTime   int64 `json:"at_time"` // unix seconds
	Reached  bool  `json:"reached"`
}
