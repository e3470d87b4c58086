package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"nftflow-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can run
// standalone or inside Store.ExecTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db           *sql.DB
	users        repository.UserRepository
	listings     repository.ListingRepository
	rentals      repository.RentalRepository
	streams      repository.StreamRepository
	reputation   repository.ReputationRepository
	achievements repository.AchievementRepository
	disputes     repository.DisputeRepository
	ledger       repository.LedgerRepository
	events       repository.EventRepository
}

func newStore(db *sql.DB, q DBTX) *Store {
	return &Store{
		db:           db,
		users:        NewUserRepository(q),
		listings:     NewListingRepository(q),
		rentals:      NewRentalRepository(q),
		streams:      NewStreamRepository(q),
		reputation:   NewReputationRepository(q),
		achievements: NewAchievementRepository(q),
		disputes:     NewDisputeRepository(q),
		ledger:       NewLedgerRepository(q),
		events:       NewEventRepository(q),
	}
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func (s *Store) Users() repository.UserRepository               { return s.users }
func (s *Store) Listings() repository.ListingRepository         { return s.listings }
func (s *Store) Rentals() repository.RentalRepository           { return s.rentals }
func (s *Store) Streams() repository.StreamRepository           { return s.streams }
func (s *Store) Reputation() repository.ReputationRepository    { return s.reputation }
func (s *Store) Achievements() repository.AchievementRepository { return s.achievements }
func (s *Store) Disputes() repository.DisputeRepository         { return s.disputes }
func (s *Store) Ledger() repository.LedgerRepository            { return s.ledger }
func (s *Store) Events() repository.EventRepository             { return s.events }

// ExecTx runs fn against a transaction-scoped Store. Engine operations that
// touch more than one entity go through here so they apply fully or fail
// with no partial mutation visible to other callers.
func (s *Store) ExecTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(newStore(s.db, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
