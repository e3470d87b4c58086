package repository

import (
	"context"
	"errors"

	"nftflow-backend/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict means a versioned update lost a compare-and-set
	// race. Callers surface it; nothing retries silently.
	ErrVersionConflict = errors.New("version conflict")
	// ErrInsufficientBalance means a debit would overdraw a user balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Store aggregates every repository behind one handle and provides
// transactional execution. Fund-moving operations always run through
// ExecTx so their mutations apply all-or-nothing.
type Store interface {
	Users() UserRepository
	Listings() ListingRepository
	Rentals() RentalRepository
	Streams() StreamRepository
	Reputation() ReputationRepository
	Achievements() AchievementRepository
	Disputes() DisputeRepository
	Ledger() LedgerRepository
	Events() EventRepository

	ExecTx(ctx context.Context, fn func(Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// AddBalance applies a signed delta. Debits that would take the balance
	// negative fail with ErrInsufficientBalance and change nothing.
	AddBalance(ctx context.Context, userID int32, delta int64) error
}

type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	GetByID(ctx context.Context, id int32) (*domain.Listing, error)
	// GetActiveByAsset returns ErrNotFound when the asset has no active
	// listing.
	GetActiveByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Listing, error)
	// Update is a compare-and-set on the listing's version.
	Update(ctx context.Context, l *domain.Listing) error
	List(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.Listing, int32, error)
}

type RentalRepository interface {
	Create(ctx context.Context, r *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// GetOpenByAsset returns the asset's non-terminal rental, or
	// ErrNotFound when none exists.
	GetOpenByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Rental, error)
	// Update is a compare-and-set on the rental's version.
	Update(ctx context.Context, r *domain.Rental) error
	ListByTenant(ctx context.Context, tenantID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListByLender(ctx context.Context, lenderID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error)
	// ListRecoverable returns ACTIVE rentals whose end time passed before
	// the cutoff, i.e. candidates for emergency recovery.
	ListRecoverable(ctx context.Context, endedBefore int64) ([]domain.Rental, error)
}

type StreamRepository interface {
	// Create persists the stream and its milestone checkpoints.
	Create(ctx context.Context, s *domain.Stream) error
	GetByID(ctx context.Context, id int32) (*domain.Stream, error)
	// Update is a compare-and-set on the stream's version. Milestones are
	// immutable after creation except for their reached flag.
	Update(ctx context.Context, s *domain.Stream) error
	MarkMilestoneReached(ctx context.Context, streamID, seq int32) error
	ListActive(ctx context.Context) ([]domain.Stream, error)
}

type ReputationRepository interface {
	// Get returns the user's reputation, initializing a zeroed record on
	// first access.
	Get(ctx context.Context, userID int32) (*domain.UserReputation, error)
	// Update is a compare-and-set on the reputation's version.
	Update(ctx context.Context, rep *domain.UserReputation) error
}

type AchievementRepository interface {
	ListActive(ctx context.Context) ([]domain.Achievement, error)
	ListGrantedIDs(ctx context.Context, userID int32) (map[int32]bool, error)
	// Grant records an unlock. Returns false without error when the grant
	// already exists, making unlock evaluation idempotent.
	Grant(ctx context.Context, userID, achievementID int32) (bool, error)
}

type DisputeRepository interface {
	Create(ctx context.Context, d *domain.Dispute) error
	GetPendingByRental(ctx context.Context, rentalID int32) (*domain.Dispute, error)
	Update(ctx context.Context, d *domain.Dispute) error
}

type LedgerRepository interface {
	CreateEntry(ctx context.Context, e *domain.LedgerEntry) error
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerEntry, int32, error)
}

type EventRepository interface {
	Append(ctx context.Context, e *domain.Event) error
	List(ctx context.Context, eventType string, page, pageSize int32) ([]domain.Event, int32, error)
}
