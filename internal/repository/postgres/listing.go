package postgres

import (
	"context"
	"database/sql"
	"errors"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
)

type listingRepository struct {
	db DBTX
}

func NewListingRepository(db DBTX) repository.ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `id, owner_id, asset_contract, asset_token_id, base_price_per_second,
	min_duration, max_duration, collateral_basis, royalty_bps, royalty_recipient_id,
	active, version, created_on, updated_on`

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (owner_id, asset_contract, asset_token_id, base_price_per_second,
	          min_duration, max_duration, collateral_basis, royalty_bps, royalty_recipient_id,
	          active, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, NOW(), NOW())
	          RETURNING id, version, created_on, updated_on`
	return r.db.QueryRowContext(ctx, query,
		l.OwnerID, l.Asset.Contract, l.Asset.TokenID, l.BasePricePerSecond,
		l.MinDuration, l.MaxDuration, l.CollateralBasis, l.RoyaltyBps, l.RoyaltyRecipientID,
		l.Active).
		Scan(&l.ID, &l.Version, &l.CreatedOn, &l.UpdatedOn)
}

func (r *listingRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return scanListing(r.db.QueryRowContext(ctx, query, id))
}

func (r *listingRepository) GetActiveByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
	          WHERE asset_contract = $1 AND asset_token_id = $2 AND active = TRUE`
	return scanListing(r.db.QueryRowContext(ctx, query, asset.Contract, asset.TokenID))
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE listings SET base_price_per_second = $1, min_duration = $2, max_duration = $3,
	          collateral_basis = $4, royalty_bps = $5, royalty_recipient_id = $6, active = $7,
	          version = version + 1, updated_on = NOW()
	          WHERE id = $8 AND version = $9`
	res, err := r.db.ExecContext(ctx, query,
		l.BasePricePerSecond, l.MinDuration, l.MaxDuration,
		l.CollateralBasis, l.RoyaltyBps, l.RoyaltyRecipientID, l.Active,
		l.ID, l.Version)
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
	l.Version++
	return nil
}

func (r *listingRepository) List(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.Listing, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + listingColumns + ` FROM listings
	          WHERE ($1 = FALSE OR active = TRUE)
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, activeOnly, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListingRow(rows)
		if err != nil {
			return nil, 0, err
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM listings WHERE ($1 = FALSE OR active = TRUE)`
	if err := r.db.QueryRowContext(ctx, countQuery, activeOnly).Scan(&count); err != nil {
		return nil, 0, err
	}
	return listings, count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListingFields(s rowScanner) (*domain.Listing, error) {
	var l domain.Listing
	err := s.Scan(&l.ID, &l.OwnerID, &l.Asset.Contract, &l.Asset.TokenID, &l.BasePricePerSecond,
		&l.MinDuration, &l.MaxDuration, &l.CollateralBasis, &l.RoyaltyBps, &l.RoyaltyRecipientID,
		&l.Active, &l.Version, &l.CreatedOn, &l.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanListing(row *sql.Row) (*domain.Listing, error) {
	return scanListingFields(row)
}

func scanListingRow(rows *sql.Rows) (*domain.Listing, error) {
	return scanListingFields(rows)
}
