package registry

import (
	"context"
	"errors"

	"nftflow-backend/internal/domain"
)

var ErrUnknownAsset = errors.New("asset not known to registry")

// AssetRegistry is the external collaborator that proves ownership and holds
// temporary usage grants. The engine never takes custody of the asset
// itself; it only verifies rights and grants/revokes usage through this
// interface.
type AssetRegistry interface {
	// OwnerOf returns the user holding transferable rights to the asset.
	OwnerOf(ctx context.Context, asset domain.AssetRef) (int32, error)
	// GrantUsage hands temporary usage rights to a user.
	GrantUsage(ctx context.Context, asset domain.AssetRef, userID int32) error
	// ClearUsage revokes any standing usage grant. Clearing an asset with
	// no grant is a no-op.
	ClearUsage(ctx context.Context, asset domain.AssetRef) error
	// CurrentUser returns the current usage grant holder, or false when the
	// asset has no standing grant.
	CurrentUser(ctx context.Context, asset domain.AssetRef) (int32, bool, error)
}

// PriceSource is an optional advisory input for dynamic pricing. The engine
// works fine with owner-set static prices when no source is configured.
type PriceSource interface {
	SuggestedPricePerSecond(ctx context.Context, asset domain.AssetRef) (int64, error)
}
