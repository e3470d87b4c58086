package postgres

import (
	"context"
	"database/sql"
	"errors"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
)

type streamRepository struct {
	db DBTX
}

func NewStreamRepository(db DBTX) repository.StreamRepository {
	return &streamRepository{db: db}
}

const streamColumns = `id, payer_id, payee_id, deposit, rate_per_second, start_time, stop_time,
	total_withdrawn, active, finalized, fee_bps, royalty_bps, royalty_recipient_id,
	platform_fee_amount, creator_royalty_amount, current_milestone, version, created_on, updated_on`

func (r *streamRepository) Create(ctx context.Context, s *domain.Stream) error {
	query := `INSERT INTO streams (payer_id, payee_id, deposit, rate_per_second, start_time, stop_time,
	          total_withdrawn, active, finalized, fee_bps, royalty_bps, royalty_recipient_id,
	          platform_fee_amount, creator_royalty_amount, current_milestone, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, 0, $7, FALSE, $8, $9, $10, 0, 0, 0, 1, NOW(), NOW())
	          RETURNING id, version, created_on, updated_on`
	err := r.db.QueryRowContext(ctx, query,
		s.PayerID, s.PayeeID, s.Deposit, s.RatePerSecond, s.StartTime, s.StopTime,
		s.Active, s.FeeBps, s.RoyaltyBps, s.RoyaltyRecipientID).
		Scan(&s.ID, &s.Version, &s.CreatedOn, &s.UpdatedOn)
	if err != nil {
		return err
	}

	milestoneQuery := `INSERT INTO stream_milestones (stream_id, seq, at_time, reached)
	                   VALUES ($1, $2, $3, FALSE)`
	for i := range s.Milestones {
		s.Milestones[i].StreamID = s.ID
		if _, err := r.db.ExecContext(ctx, milestoneQuery, s.ID, s.Milestones[i].Seq, s.Milestones[i].AtTime); err != nil {
			return err
		}
	}
	return nil
}

func (r *streamRepository) GetByID(ctx context.Context, id int32) (*domain.Stream, error) {
	query := `SELECT ` + streamColumns + ` FROM streams WHERE id = $1`
	s, err := scanStreamFields(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadMilestones(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *streamRepository) Update(ctx context.Context, s *domain.Stream) error {
	query := `UPDATE streams SET total_withdrawn = $1, active = $2, finalized = $3,
	          platform_fee_amount = $4, creator_royalty_amount = $5, current_milestone = $6,
	          version = version + 1, updated_on = NOW()
	          WHERE id = $7 AND version = $8 AND finalized = FALSE`
	res, err := r.db.ExecContext(ctx, query,
		s.TotalWithdrawn, s.Active, s.Finalized,
		s.PlatformFeeAmount, s.CreatorRoyaltyAmount, s.CurrentMilestone,
		s.ID, s.Version)
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
	s.Version++
	return nil
}

func (r *streamRepository) MarkMilestoneReached(ctx context.Context, streamID, seq int32) error {
	query := `UPDATE stream_milestones SET reached = TRUE WHERE stream_id = $1 AND seq = $2`
	_, err := r.db.ExecContext(ctx, query, streamID, seq)
	return err
}

func (r *streamRepository) ListActive(ctx context.Context) ([]domain.Stream, error) {
	query := `SELECT ` + streamColumns + ` FROM streams WHERE active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streams []domain.Stream
	for rows.Next() {
		s, err := scanStreamFields(rows)
		if err != nil {
			return nil, err
		}
		streams = append(streams, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range streams {
		if err := r.loadMilestones(ctx, &streams[i]); err != nil {
			return nil, err
		}
	}
	return streams, nil
}

func (r *streamRepository) loadMilestones(ctx context.Context, s *domain.Stream) error {
	query := `SELECT stream_id, seq, at_time, reached FROM stream_milestones
	          WHERE stream_id = $1 ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	s.Milestones = nil
	for rows.Next() {
		var m domain.Milestone
		if err := rows.Scan(&m.StreamID, &m.Seq, &m.AtTime, &m.Reached); err != nil {
			return err
		}
		s.Milestones = append(s.Milestones, m)
	}
	return rows.Err()
}

func scanStreamFields(s rowScanner) (*domain.Stream, error) {
	var st domain.Stream
	err := s.Scan(&st.ID, &st.PayerID, &st.PayeeID, &st.Deposit, &st.RatePerSecond, &st.StartTime, &st.StopTime,
		&st.TotalWithdrawn, &st.Active, &st.Finalized, &st.FeeBps, &st.RoyaltyBps, &st.RoyaltyRecipientID,
		&st.PlatformFeeAmount, &st.CreatorRoyaltyAmount, &st.CurrentMilestone, &st.Version, &st.CreatedOn, &st.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
