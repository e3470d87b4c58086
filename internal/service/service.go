package service

import (
	"context"

	"nftflow-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)                      // access, refresh
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type ReputationService interface {
	// RecordOutcome applies a rental outcome to the user's trust state and
	// evaluates achievement unlocks. Invoked by the rental state machine,
	// never directly by API callers.
	RecordOutcome(ctx context.Context, userID int32, success bool) (*domain.UserReputation, error)
	// CollateralMultiplier returns the user's collateral tier in basis
	// points. Pure read, no side effects.
	CollateralMultiplier(ctx context.Context, userID int32) (int32, error)
	SuccessRate(ctx context.Context, userID int32) (int32, error)
	GetReputation(ctx context.Context, userID int32) (*domain.UserReputation, error)
	// SetBlacklisted is admin-only. It does not reset the score; it blocks
	// future outcome recording and forces the 200% collateral tier.
	SetBlacklisted(ctx context.Context, callerID, userID int32, flag bool) error
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
}

// FeeConfig carries the settlement split terms a stream is created with.
type FeeConfig struct {
	FeeBps             int32
	RoyaltyBps         int32
	RoyaltyRecipientID *int32
}

type StreamService interface {
	CreateStream(ctx context.Context, payerID, payeeID int32, deposit, startTime, stopTime int64, fee FeeConfig, milestones []int64) (*domain.Stream, error)
	GetStream(ctx context.Context, id int32) (*domain.Stream, error)
	// Withdrawable is a pure computation against the caller-supplied time.
	Withdrawable(ctx context.Context, id int32, at int64) (int64, error)
	Withdraw(ctx context.Context, callerID, id int32, amount, at int64) (*domain.Stream, error)
	// Finalize releases the remaining balance with fee and royalty splits.
	// Admin-only once the window has elapsed; the rental state machine
	// finalizes internally on completion and resolution.
	Finalize(ctx context.Context, callerID, id int32, at int64) (*domain.Stream, error)
	Cancel(ctx context.Context, callerID, id int32, at int64) (*domain.Stream, error)
	// CheckMilestones sweeps active streams and emits MilestoneReached for
	// every checkpoint crossed by the supplied time. Observational only.
	CheckMilestones(ctx context.Context, at int64) (int, error)
}

// ListingParams is the owner-supplied terms of a new listing.
type ListingParams struct {
	Asset              domain.AssetRef
	BasePricePerSecond int64
	MinDuration        int64
	MaxDuration        int64
	CollateralBasis    int64
	RoyaltyBps         int32
	RoyaltyRecipientID *int32
}

type RentalService interface {
	ListForRental(ctx context.Context, ownerID int32, params ListingParams) (*domain.Listing, error)
	Delist(ctx context.Context, ownerID, listingID int32) (*domain.Listing, error)
	GetListing(ctx context.Context, listingID int32) (*domain.Listing, error)
	ListListings(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.Listing, int32, error)

	Rent(ctx context.Context, tenantID, listingID int32, duration, at int64) (*domain.Rental, error)
	Complete(ctx context.Context, callerID, rentalID int32, at int64) (*domain.Rental, error)
	Cancel(ctx context.Context, callerID, rentalID int32, reason string, at int64) (*domain.Rental, error)
	OpenDispute(ctx context.Context, disputerID, rentalID int32, reason string, at int64) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, resolverID, rentalID int32, favorTenant bool, refundAmount, at int64) (*domain.Rental, error)
	// EmergencyRecover is the backstop for usage grants left dangling past
	// rental expiry by a non-cooperative party.
	EmergencyRecover(ctx context.Context, callerID int32, asset domain.AssetRef, at int64) (*domain.Rental, error)

	GetRental(ctx context.Context, callerID, rentalID int32) (*domain.Rental, error)
	ListRentals(ctx context.Context, tenantID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListLendings(ctx context.Context, lenderID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error)
}

type LedgerService interface {
	GetBalance(ctx context.Context, userID int32) (int64, error)
	ListEntries(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerEntry, int32, error)
	// Credit funds a user's balance. Admin-only; production deployments
	// replace this with the payment on-ramp.
	Credit(ctx context.Context, callerID, userID int32, amount int64, memo string) error
}

type EventService interface {
	ListEvents(ctx context.Context, eventType string, page, pageSize int32) ([]domain.Event, int32, error)
}

type EmailService interface {
	SendRentalCreatedNotification(ctx context.Context, lenderEmail, tenantName, asset string) error
	SendRentalCompletedNotification(ctx context.Context, email, role, asset string, amount int64) error
	SendRentalCancelledNotification(ctx context.Context, lenderEmail, tenantName, asset, reason string) error
	SendDisputeOpenedNotification(ctx context.Context, email, asset, reason string) error
	SendDisputeResolvedNotification(ctx context.Context, email, asset string, favorTenant bool) error
}
