package domain

import "time"

type EntryType string

const (
	EntryTypeDeposit           EntryType = "DEPOSIT"
	EntryTypeStreamDeposit     EntryType = "STREAM_DEPOSIT"
	EntryTypeStreamWithdrawal  EntryType = "STREAM_WITHDRAWAL"
	EntryTypeStreamPayout      EntryType = "STREAM_PAYOUT"
	EntryTypeStreamRefund      EntryType = "STREAM_REFUND"
	EntryTypePlatformFee       EntryType = "PLATFORM_FEE"
	EntryTypeCreatorRoyalty    EntryType = "CREATOR_ROYALTY"
	EntryTypeCollateralEscrow  EntryType = "COLLATERAL_ESCROW"
	EntryTypeCollateralRefund  EntryType = "COLLATERAL_REFUND"
	EntryTypeCollateralForfeit EntryType = "COLLATERAL_FORFEIT"
)

// LedgerEntry is the audit record for a single balance movement. Every
// balance mutation is written in the same transaction as its entry; the sum
// of a user's entries equals their balance delta since account creation.
type LedgerEntry struct {
	ID              int32     `json:"id"`
	UserID          int32     `json:"user_id"`
	Amount          int64     `json:"amount"` // positive credit, negative debit
	Type            EntryType `json:"type"`
	RelatedRentalID *int32    `json:"related_rental_id,omitempty"`
	RelatedStreamID *int32    `json:"related_stream_id,omitempty"`
	Description     string    `json:"description"`
	CreatedOn       time.Time `json:"created_on"`
}
