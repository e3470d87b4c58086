package postgres

import (
	"context"
	"database/sql"
	"errors"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
)

type disputeRepository struct {
	db DBTX
}

func NewDisputeRepository(db DBTX) repository.DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Create(ctx context.Context, d *domain.Dispute) error {
	query := `INSERT INTO disputes (rental_id, disputer_id, reason, status, created_on)
	          VALUES ($1, $2, $3, $4, NOW()) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query, d.RentalID, d.DisputerID, d.Reason, d.Status).
		Scan(&d.ID, &d.CreatedOn)
}

func (r *disputeRepository) GetPendingByRental(ctx context.Context, rentalID int32) (*domain.Dispute, error) {
	query := `SELECT id, rental_id, disputer_id, reason, status, resolver_id,
	          resolved_in_favor_of_tenant, refund_amount, created_on, resolved_on
	          FROM disputes WHERE rental_id = $1 AND status = 'PENDING'`
	var d domain.Dispute
	err := r.db.QueryRowContext(ctx, query, rentalID).
		Scan(&d.ID, &d.RentalID, &d.DisputerID, &d.Reason, &d.Status, &d.ResolverID,
			&d.ResolvedInFavorOfTenant, &d.RefundAmount, &d.CreatedOn, &d.ResolvedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *disputeRepository) Update(ctx context.Context, d *domain.Dispute) error {
	query := `UPDATE disputes SET status = $1, resolver_id = $2, resolved_in_favor_of_tenant = $3,
	          refund_amount = $4, resolved_on = $5 WHERE id = $6`
	_, err := r.db.ExecContext(ctx, query,
		d.Status, d.ResolverID, d.ResolvedInFavorOfTenant, d.RefundAmount, d.ResolvedOn, d.ID)
	return err
}
