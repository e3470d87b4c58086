package postgres

import (
	"context"
	"database/sql"
	"errors"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
)

type reputationRepository struct {
	db DBTX
}

func NewReputationRepository(db DBTX) repository.ReputationRepository {
	return &reputationRepository{db: db}
}

func (r *reputationRepository) Get(ctx context.Context, userID int32) (*domain.UserReputation, error) {
	query := `SELECT user_id, total_rentals, successful_rentals, score, blacklisted, version, updated_on
	          FROM user_reputation WHERE user_id = $1`
	rep, err := r.scan(r.db.QueryRowContext(ctx, query, userID))
	if err == nil {
		return rep, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// First touch: initialize a zeroed record. ON CONFLICT covers the race
	// where two callers initialize concurrently.
	insert := `INSERT INTO user_reputation (user_id, total_rentals, successful_rentals, score, blacklisted, version, updated_on)
	           VALUES ($1, 0, 0, 0, FALSE, 1, NOW()) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, insert, userID); err != nil {
		return nil, err
	}
	return r.scan(r.db.QueryRowContext(ctx, query, userID))
}

func (r *reputationRepository) Update(ctx context.Context, rep *domain.UserReputation) error {
	query := `UPDATE user_reputation SET total_rentals = $1, successful_rentals = $2, score = $3,
	          blacklisted = $4, version = version + 1, updated_on = NOW()
	          WHERE user_id = $5 AND version = $6`
	res, err := r.db.ExecContext(ctx, query,
		rep.TotalRentals, rep.SuccessfulRentals, rep.Score, rep.Blacklisted,
		rep.UserID, rep.Version)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrVersionConflict
	}
	rep.Version++
	return nil
}

func (r *reputationRepository) scan(row *sql.Row) (*domain.UserReputation, error) {
	var rep domain.UserReputation
	err := row.Scan(&rep.UserID, &rep.TotalRentals, &rep.SuccessfulRentals, &rep.Score,
		&rep.Blacklisted, &rep.Version, &rep.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
