package postgres

import (
	"context"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
)

type ledgerRepository struct {
	db DBTX
}

func NewLedgerRepository(db DBTX) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateEntry(ctx context.Context, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (user_id, amount, type, related_rental_id, related_stream_id, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query,
		e.UserID, e.Amount, e.Type, e.RelatedRentalID, e.RelatedStreamID, e.Description).
		Scan(&e.ID, &e.CreatedOn)
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerEntry, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, user_id, amount, type, related_rental_id, related_stream_id, COALESCE(description, ''), created_on
	          FROM ledger_entries WHERE user_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Type, &e.RelatedRentalID, &e.RelatedStreamID, &e.Description, &e.CreatedOn); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM ledger_entries WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}
