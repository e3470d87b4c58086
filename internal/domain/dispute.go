package domain

import "time"

type DisputeStatus string

const (
	DisputeStatusPending  DisputeStatus = "PENDING"
	DisputeStatusResolved DisputeStatus = "RESOLVED"
)

type Dispute struct {
	ID         int32         `json:"id"`
	RentalID   int32         `json:"rental_id"`
	DisputerID int32         `json:"disputer_id"`
	Reason     string        `json:"reason"`
	Status     DisputeStatus `json:"status"`
	ResolverID *int32        `json:"resolver_id,omitempty"`
	// Meaning of RefundAmount depends on the verdict: refunded to the
	// tenant from the stream when resolved in their favor, deducted from
	// collateral and awarded to the lender otherwise.
	ResolvedInFavorOfTenant bool       `json:"resolved_in_favor_of_tenant"`
	RefundAmount            int64      `json:"refund_amount"`
	CreatedOn               time.Time  `json:"created_on"`
	ResolvedOn              *time.Time `json:"resolved_on,omitempty"`
}
