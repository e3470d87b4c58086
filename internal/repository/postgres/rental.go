package postgres

import (
	"context"
	"database/sql"
	"errors"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
)

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, listing_id, asset_contract, asset_token_id, lender_id, tenant_id,
	effective_price_per_second, start_time, end_time, collateral_amount, collateral_deduction,
	stream_id, state, version, created_on, updated_on`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (listing_id, asset_contract, asset_token_id, lender_id, tenant_id,
	          effective_price_per_second, start_time, end_time, collateral_amount, collateral_deduction,
	          stream_id, state, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, NOW(), NOW())
	          RETURNING id, version, created_on, updated_on`
	return r.db.QueryRowContext(ctx, query,
		rt.ListingID, rt.Asset.Contract, rt.Asset.TokenID, rt.LenderID, rt.TenantID,
		rt.EffectivePricePerSecond, rt.StartTime, rt.EndTime, rt.CollateralAmount, rt.CollateralDeduction,
		rt.StreamID, rt.State).
		Scan(&rt.ID, &rt.Version, &rt.CreatedOn, &rt.UpdatedOn)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	return scanRental(r.db.QueryRowContext(ctx, query, id))
}

func (r *rentalRepository) GetOpenByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE asset_contract = $1 AND asset_token_id = $2 AND state IN ('ACTIVE', 'DISPUTED')`
	return scanRental(r.db.QueryRowContext(ctx, query, asset.Contract, asset.TokenID))
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET state = $1, collateral_deduction = $2,
	          version = version + 1, updated_on = NOW()
	          WHERE id = $3 AND version = $4`
	res, err := r.db.ExecContext(ctx, query, rt.State, rt.CollateralDeduction, rt.ID, rt.Version)
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
	rt.Version++
	return nil
}

func (r *rentalRepository) ListByTenant(ctx context.Context, tenantID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "tenant_id", tenantID, state, page, pageSize)
}

func (r *rentalRepository) ListByLender(ctx context.Context, lenderID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "lender_id", lenderID, state, page, pageSize)
}

func (r *rentalRepository) list(ctx context.Context, column string, userID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE ` + column + ` = $1 AND ($2 = '' OR state = $2)
	          ORDER BY created_on DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, userID, state, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRentalFields(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM rentals WHERE ` + column + ` = $1 AND ($2 = '' OR state = $2)`
	if err := r.db.QueryRowContext(ctx, countQuery, userID, state).Scan(&count); err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) ListRecoverable(ctx context.Context, endedBefore int64) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE state = 'ACTIVE' AND end_time < $1 ORDER BY end_time`
	rows, err := r.db.QueryContext(ctx, query, endedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRentalFields(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func scanRentalFields(s rowScanner) (*domain.Rental, error) {
	var rt domain.Rental
	err := s.Scan(&rt.ID, &rt.ListingID, &rt.Asset.Contract, &rt.Asset.TokenID, &rt.LenderID, &rt.TenantID,
		&rt.EffectivePricePerSecond, &rt.StartTime, &rt.EndTime, &rt.CollateralAmount, &rt.CollateralDeduction,
		&rt.StreamID, &rt.State, &rt.Version, &rt.CreatedOn, &rt.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func scanRental(row *sql.Row) (*domain.Rental, error) {
	return scanRentalFields(row)
}
