package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nftflow-backend/internal/config"
	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/logger"
	"nftflow-backend/internal/registry"
	"nftflow-backend/internal/repository"
)

type rentalService struct {
	store       repository.Store
	registry    registry.AssetRegistry
	priceSource registry.PriceSource
	emailSvc    EmailService
	params      config.EngineConfig
}

// NewRentalService builds the rental state machine. priceSource and emailSvc
// may be nil; pricing then falls back to owner-set terms and notifications
// are skipped.
func NewRentalService(store repository.Store, reg registry.AssetRegistry, priceSource registry.PriceSource, emailSvc EmailService, params config.EngineConfig) RentalService {
	return &rentalService{
		store:       store,
		registry:    reg,
		priceSource: priceSource,
		emailSvc:    emailSvc,
		params:      params,
	}
}

func assetLabel(asset domain.AssetRef) string {
	return fmt.Sprintf("%s#%s", asset.Contract, asset.TokenID)
}

// collateralFor applies the reputation multiplier to the listing's collateral
// basis. The basis defaults to the full rental price unless the listing
// overrides it.
func collateralFor(listing *domain.Listing, price int64, multiplierBps int32) int64 {
	basis := price
	if listing.CollateralBasis > 0 {
		basis = listing.CollateralBasis
	}
	return basis * int64(multiplierBps) / 10000
}

// quartileMilestones returns the observational checkpoints for a rental
// window: 25%, 50%, 75% and completion.
func quartileMilestones(startTime, duration int64) []int64 {
	out := make([]int64, 0, 4)
	for q := int64(1); q <= 4; q++ {
		out = append(out, startTime+duration*q/4)
	}
	return out
}

// recordTenantOutcomeTx records the tenant's rental outcome, tolerating
// blacklisted tenants: the transition itself still commits, only the trust
// update is skipped.
func recordTenantOutcomeTx(ctx context.Context, store repository.Store, params config.EngineConfig, tenantID int32, success bool) error {
	_, err := recordOutcomeTx(ctx, store, params, tenantID, success)
	if errors.Is(err, ErrBlacklisted) {
		logger.Warn("Skipped outcome recording for blacklisted tenant", "tenant_id", tenantID, "success", success)
		return nil
	}
	return err
}

func (s *rentalService) ListForRental(ctx context.Context, ownerID int32, params ListingParams) (*domain.Listing, error) {
	if params.MinDuration <= 0 || params.MinDuration > params.MaxDuration {
		return nil, ErrInvalidDurationRange
	}

	owner, err := s.registry.OwnerOf(ctx, params.Asset)
	if err != nil {
		return nil, err
	}
	if owner != ownerID {
		return nil, ErrNotAssetOwner
	}

	price := params.BasePricePerSecond
	if price <= 0 && s.priceSource != nil {
		suggested, err := s.priceSource.SuggestedPricePerSecond(ctx, params.Asset)
		if err != nil {
			logger.Warn("Price source unavailable, rejecting unpriced listing", "asset", assetLabel(params.Asset), "error", err)
		} else {
			price = suggested
		}
	}
	if price <= 0 {
		return nil, ErrInvalidListingPrice
	}

	listing := &domain.Listing{
		OwnerID:            ownerID,
		Asset:              params.Asset,
		BasePricePerSecond: price,
		MinDuration:        params.MinDuration,
		MaxDuration:        params.MaxDuration,
		CollateralBasis:    params.CollateralBasis,
		RoyaltyBps:         params.RoyaltyBps,
		RoyaltyRecipientID: params.RoyaltyRecipientID,
		Active:             true,
	}

	err = s.store.ExecTx(ctx, func(store repository.Store) error {
		// Relisting supersedes the asset's previous active listing.
		prev, err := store.Listings().GetActiveByAsset(ctx, params.Asset)
		if err == nil {
			prev.Active = false
			if err := store.Listings().Update(ctx, prev); err != nil {
				return err
			}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := store.Listings().Create(ctx, listing); err != nil {
			return err
		}
		return appendEvent(ctx, store.Events(), domain.EventListingCreated, map[string]any{
			"listing_id":            listing.ID,
			"owner_id":              ownerID,
			"asset":                 assetLabel(params.Asset),
			"base_price_per_second": price,
			"min_duration":          params.MinDuration,
			"max_duration":          params.MaxDuration,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Asset listed for rental", "listing_id", listing.ID, "owner_id", ownerID, "asset", assetLabel(params.Asset))
	return listing, nil
}

func (s *rentalService) Delist(ctx context.Context, ownerID, listingID int32) (*domain.Listing, error) {
	var listing *domain.Listing
	err := s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		listing, err = store.Listings().GetByID(ctx, listingID)
		if err != nil {
			return err
		}
		if listing.OwnerID != ownerID {
			caller, err := store.Users().GetByID(ctx, ownerID)
			if err != nil {
				return err
			}
			if caller.Role != domain.UserRoleAdmin {
				return ErrNotAuthorized
			}
		}
		if !listing.Active {
			return ErrInvalidState
		}
		listing.Active = false
		if err := store.Listings().Update(ctx, listing); err != nil {
			return err
		}
		return appendEvent(ctx, store.Events(), domain.EventListingDelisted, map[string]any{
			"listing_id": listing.ID,
			"asset":      assetLabel(listing.Asset),
		})
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *rentalService) GetListing(ctx context.Context, listingID int32) (*domain.Listing, error) {
	return s.store.Listings().GetByID(ctx, listingID)
}

func (s *rentalService) ListListings(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.Listing, int32, error) {
	return s.store.Listings().List(ctx, activeOnly, page, pageSize)
}

func (s *rentalService) Rent(ctx context.Context, tenantID, listingID int32, duration, at int64) (*domain.Rental, error) {
	var rental *domain.Rental
	err := s.store.ExecTx(ctx, func(store repository.Store) error {
		listing, err := store.Listings().GetByID(ctx, listingID)
		if err != nil {
			return err
		}
		if !listing.Active {
			return ErrInvalidState
		}
		if listing.OwnerID == tenantID {
			return ErrNotAuthorized
		}
		if duration < listing.MinDuration || duration > listing.MaxDuration {
			return ErrDurationOutOfRange
		}

		// Mutual exclusion: one open rental per asset. The partial unique
		// index backs this check up against concurrent renters.
		_, err = store.Rentals().GetOpenByAsset(ctx, listing.Asset)
		if err == nil {
			return ErrAssetUnavailable
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		rep, err := store.Reputation().Get(ctx, tenantID)
		if err != nil {
			return err
		}
		price := listing.BasePricePerSecond * duration
		collateral := collateralFor(listing, price, MultiplierForScore(rep.Score, rep.Blacklisted))

		stream, err := createStreamTx(ctx, store, tenantID, listing.OwnerID, price, at, at+duration, FeeConfig{
			FeeBps:             s.params.PlatformFeeBps,
			RoyaltyBps:         listing.RoyaltyBps,
			RoyaltyRecipientID: listing.RoyaltyRecipientID,
		}, quartileMilestones(at, duration))
		if err != nil {
			return err
		}

		rental = &domain.Rental{
			ListingID:               listing.ID,
			Asset:                   listing.Asset,
			LenderID:                listing.OwnerID,
			TenantID:                tenantID,
			EffectivePricePerSecond: listing.BasePricePerSecond,
			StartTime:               at,
			EndTime:                 at + duration,
			CollateralAmount:        collateral,
			StreamID:                stream.ID,
			State:                   domain.RentalStateActive,
		}
		if err := store.Rentals().Create(ctx, rental); err != nil {
			return err
		}

		if collateral > 0 {
			if err := store.Users().AddBalance(ctx, tenantID, -collateral); err != nil {
				if errors.Is(err, repository.ErrInsufficientBalance) {
					return ErrInsufficientFunds
				}
				return err
			}
			rentalID := rental.ID
			err = store.Ledger().CreateEntry(ctx, &domain.LedgerEntry{
				UserID:          tenantID,
				Amount:          -collateral,
				Type:            domain.EntryTypeCollateralEscrow,
				RelatedRentalID: &rentalID,
				Description:     fmt.Sprintf("Collateral escrowed for rental %d", rentalID),
			})
			if err != nil {
				return err
			}
		}

		return appendEvent(ctx, store.Events(), domain.EventRentalCreated, map[string]any{
			"rental_id":  rental.ID,
			"listing_id": listing.ID,
			"asset":      assetLabel(listing.Asset),
			"lender_id":  listing.OwnerID,
			"tenant_id":  tenantID,
			"price":      price,
			"collateral": collateral,
			"start_time": at,
			"end_time":   at + duration,
			"stream_id":  stream.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	// Granted after commit: a rollback must never leave a grant with no
	// rental behind it. A failed grant is flagged for the recovery sweep.
	if err := s.registry.GrantUsage(ctx, rental.Asset, tenantID); err != nil {
		logger.Anomaly("Failed to grant usage for rental", "rental_id", rental.ID, "asset", assetLabel(rental.Asset), "error", err)
	}

	logger.Info("Rental created", "rental_id", rental.ID, "tenant_id", tenantID, "asset", assetLabel(rental.Asset))
	s.notifyRentalCreated(ctx, rental)
	return rental, nil
}

func (s *rentalService) Complete(ctx context.Context, callerID, rentalID int32, at int64) (*domain.Rental, error) {
	var rental *domain.Rental
	err := s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		rental, err = s.loadRentalForParty(ctx, store, callerID, rentalID)
		if err != nil {
			return err
		}
		if rental.State != domain.RentalStateActive {
			return ErrInvalidState
		}
		if at < rental.EndTime {
			return ErrTooEarly
		}

		stream, err := store.Streams().GetByID(ctx, rental.StreamID)
		if err != nil {
			return err
		}
		// The stream may already be settled by an operator; completion still
		// owes the tenant the collateral and the terminal transition.
		err = finalizeStreamTx(ctx, store, s.params.PlatformAccountID, stream, 0)
		if err != nil && !errors.Is(err, ErrAlreadyFinalized) {
			return err
		}
		if err := refundCollateralTx(ctx, store, rental, rental.CollateralAmount); err != nil {
			return err
		}
		if err := recordTenantOutcomeTx(ctx, store, s.params, rental.TenantID, true); err != nil {
			return err
		}

		rental.State = domain.RentalStateCompleted
		if err := store.Rentals().Update(ctx, rental); err != nil {
			return err
		}
		return appendEvent(ctx, store.Events(), domain.EventRentalCompleted, map[string]any{
			"rental_id":           rental.ID,
			"asset":               assetLabel(rental.Asset),
			"tenant_id":           rental.TenantID,
			"lender_id":           rental.LenderID,
			"collateral_refunded": rental.CollateralAmount,
			"completed_at":        at,
		})
	})
	if err != nil {
		return nil, err
	}

	s.clearUsage(ctx, rental.Asset)
	logger.Info("Rental completed", "rental_id", rental.ID, "asset", assetLabel(rental.Asset))
	s.notifyRentalCompleted(ctx, rental)
	return rental, nil
}

func (s *rentalService) Cancel(ctx context.Context, callerID, rentalID int32, reason string, at int64) (*domain.Rental, error) {
	var rental *domain.Rental
	err := s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		rental, err = s.loadRentalForParty(ctx, store, callerID, rentalID)
		if err != nil {
			return err
		}
		if rental.State != domain.RentalStateActive {
			return ErrInvalidState
		}
		if at > rental.StartTime+s.params.CancelGraceWindow {
			return ErrCancelWindowPassed
		}

		stream, err := store.Streams().GetByID(ctx, rental.StreamID)
		if err != nil {
			return err
		}
		if err := cancelStreamTx(ctx, store, stream, at); err != nil {
			return err
		}
		if err := refundCollateralTx(ctx, store, rental, rental.CollateralAmount); err != nil {
			return err
		}
		// Cancellation only counts against the tenant when the tenant walked
		// away. A lender cancel is not the tenant's failure.
		if callerID == rental.TenantID {
			if err := recordTenantOutcomeTx(ctx, store, s.params, rental.TenantID, false); err != nil {
				return err
			}
		}

		rental.State = domain.RentalStateCancelled
		if err := store.Rentals().Update(ctx, rental); err != nil {
			return err
		}
		return appendEvent(ctx, store.Events(), domain.EventRentalCancelled, map[string]any{
			"rental_id":    rental.ID,
			"asset":        assetLabel(rental.Asset),
			"cancelled_by": callerID,
			"reason":       reason,
			"cancelled_at": at,
		})
	})
	if err != nil {
		return nil, err
	}

	s.clearUsage(ctx, rental.Asset)
	logger.Info("Rental cancelled", "rental_id", rental.ID, "cancelled_by", callerID)
	s.notifyRentalCancelled(ctx, rental, reason)
	return rental, nil
}

func (s *rentalService) OpenDispute(ctx context.Context, disputerID, rentalID int32, reason string, at int64) (*domain.Dispute, error) {
	var (
		rental  *domain.Rental
		dispute *domain.Dispute
	)
	err := s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		rental, err = store.Rentals().GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if disputerID != rental.TenantID && disputerID != rental.LenderID {
			return ErrNotAuthorized
		}
		if rental.State != domain.RentalStateActive {
			return ErrInvalidState
		}
		if at > rental.EndTime+s.params.DisputeWindow {
			return ErrDisputeWindowClosed
		}

		dispute = &domain.Dispute{
			RentalID:   rentalID,
			DisputerID: disputerID,
			Reason:     reason,
			Status:     domain.DisputeStatusPending,
		}
		if err := store.Disputes().Create(ctx, dispute); err != nil {
			return err
		}
		rental.State = domain.RentalStateDisputed
		if err := store.Rentals().Update(ctx, rental); err != nil {
			return err
		}
		return appendEvent(ctx, store.Events(), domain.EventDisputeOpened, map[string]any{
			"dispute_id":  dispute.ID,
			"rental_id":   rentalID,
			"asset":       assetLabel(rental.Asset),
			"disputer_id": disputerID,
			"reason":      reason,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Dispute opened", "dispute_id", dispute.ID, "rental_id", rentalID, "disputer_id", disputerID)
	s.notifyDisputeOpened(ctx, rental, disputerID, reason)
	return dispute, nil
}

func (s *rentalService) ResolveDispute(ctx context.Context, resolverID, rentalID int32, favorTenant bool, refundAmount, at int64) (*domain.Rental, error) {
	resolver, err := s.store.Users().GetByID(ctx, resolverID)
	if err != nil {
		return nil, err
	}
	if resolver.Role != domain.UserRoleArbiter && resolver.Role != domain.UserRoleAdmin {
		return nil, ErrNotAuthorized
	}
	if refundAmount < 0 {
		return nil, ErrInvalidState
	}

	var rental *domain.Rental
	err = s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		rental, err = store.Rentals().GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if rental.State != domain.RentalStateDisputed {
			return ErrInvalidState
		}
		dispute, err := store.Disputes().GetPendingByRental(ctx, rentalID)
		if err != nil {
			return err
		}
		stream, err := store.Streams().GetByID(ctx, rental.StreamID)
		if err != nil {
			return err
		}

		applied := refundAmount
		if favorTenant {
			// Verdict for the tenant: refundAmount comes back to the tenant
			// off the top of the stream's remaining balance, collateral is
			// returned untouched.
			remaining := stream.Deposit - stream.TotalWithdrawn
			if applied > remaining {
				applied = remaining
			}
			if err := finalizeStreamTx(ctx, store, s.params.PlatformAccountID, stream, applied); err != nil {
				return err
			}
			if err := refundCollateralTx(ctx, store, rental, rental.CollateralAmount); err != nil {
				return err
			}
			if err := recordTenantOutcomeTx(ctx, store, s.params, rental.TenantID, true); err != nil {
				return err
			}
			rental.State = domain.RentalStateResolvedTenant
		} else {
			// Verdict for the lender: the stream pays out in full and
			// refundAmount is deducted from the tenant's collateral and
			// awarded to the lender.
			if applied > rental.CollateralAmount {
				applied = rental.CollateralAmount
			}
			if err := finalizeStreamTx(ctx, store, s.params.PlatformAccountID, stream, 0); err != nil {
				return err
			}
			if err := forfeitCollateralTx(ctx, store, rental, applied); err != nil {
				return err
			}
			if err := refundCollateralTx(ctx, store, rental, rental.CollateralAmount-applied); err != nil {
				return err
			}
			if err := recordTenantOutcomeTx(ctx, store, s.params, rental.TenantID, false); err != nil {
				return err
			}
			rental.CollateralDeduction = applied
			rental.State = domain.RentalStateResolvedLender
		}
		if err := store.Rentals().Update(ctx, rental); err != nil {
			return err
		}

		now := time.Now()
		dispute.Status = domain.DisputeStatusResolved
		dispute.ResolverID = &resolverID
		dispute.ResolvedInFavorOfTenant = favorTenant
		dispute.RefundAmount = applied
		dispute.ResolvedOn = &now
		if err := store.Disputes().Update(ctx, dispute); err != nil {
			return err
		}

		return appendEvent(ctx, store.Events(), domain.EventDisputeResolved, map[string]any{
			"dispute_id":   dispute.ID,
			"rental_id":    rentalID,
			"asset":        assetLabel(rental.Asset),
			"resolver_id":  resolverID,
			"favor_tenant": favorTenant,
			"amount":       applied,
			"rental_state": string(rental.State),
		})
	})
	if err != nil {
		return nil, err
	}

	s.clearUsage(ctx, rental.Asset)
	logger.Info("Dispute resolved", "rental_id", rentalID, "favor_tenant", favorTenant, "resolver_id", resolverID)
	s.notifyDisputeResolved(ctx, rental, favorTenant)
	return rental, nil
}

func (s *rentalService) EmergencyRecover(ctx context.Context, callerID int32, asset domain.AssetRef, at int64) (*domain.Rental, error) {
	var rental *domain.Rental
	err := s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		rental, err = store.Rentals().GetOpenByAsset(ctx, asset)
		if err != nil {
			return err
		}
		if callerID != rental.LenderID {
			caller, err := store.Users().GetByID(ctx, callerID)
			if err != nil {
				return err
			}
			if caller.Role != domain.UserRoleAdmin {
				return ErrNotAuthorized
			}
		}
		// A disputed rental is settled by its arbiter, not by recovery.
		if rental.State != domain.RentalStateActive {
			return ErrInvalidState
		}
		if at < rental.EndTime+s.params.RecoveryGracePeriod {
			return ErrRecoveryPeriodNotReached
		}

		// The window has fully elapsed, so finalize pays the lender the whole
		// remaining stream. Collateral goes back in full; recovery restores
		// possession, it does not punish.
		stream, err := store.Streams().GetByID(ctx, rental.StreamID)
		if err != nil {
			return err
		}
		err = finalizeStreamTx(ctx, store, s.params.PlatformAccountID, stream, 0)
		if err != nil && !errors.Is(err, ErrAlreadyFinalized) {
			return err
		}
		if err := refundCollateralTx(ctx, store, rental, rental.CollateralAmount); err != nil {
			return err
		}

		rental.State = domain.RentalStateRecovered
		if err := store.Rentals().Update(ctx, rental); err != nil {
			return err
		}
		return appendEvent(ctx, store.Events(), domain.EventRentalRecovered, map[string]any{
			"rental_id":    rental.ID,
			"asset":        assetLabel(asset),
			"recovered_by": callerID,
			"recovered_at": at,
		})
	})
	if err != nil {
		return nil, err
	}

	s.clearUsage(ctx, rental.Asset)
	logger.Info("Rental recovered", "rental_id", rental.ID, "asset", assetLabel(rental.Asset), "recovered_by", callerID)
	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, callerID, rentalID int32) (*domain.Rental, error) {
	return s.loadRentalForParty(ctx, s.store, callerID, rentalID)
}

func (s *rentalService) ListRentals(ctx context.Context, tenantID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.store.Rentals().ListByTenant(ctx, tenantID, state, page, pageSize)
}

func (s *rentalService) ListLendings(ctx context.Context, lenderID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.store.Rentals().ListByLender(ctx, lenderID, state, page, pageSize)
}

// loadRentalForParty fetches a rental and verifies the caller is a party to
// it, an arbiter or an admin.
func (s *rentalService) loadRentalForParty(ctx context.Context, store repository.Store, callerID, rentalID int32) (*domain.Rental, error) {
	rental, err := store.Rentals().GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if callerID == rental.TenantID || callerID == rental.LenderID {
		return rental, nil
	}
	caller, err := store.Users().GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.UserRoleAdmin && caller.Role != domain.UserRoleArbiter {
		return nil, ErrNotAuthorized
	}
	return rental, nil
}

func refundCollateralTx(ctx context.Context, store repository.Store, rental *domain.Rental, amount int64) error {
	if amount <= 0 {
		return nil
	}
	if err := store.Users().AddBalance(ctx, rental.TenantID, amount); err != nil {
		return err
	}
	rentalID := rental.ID
	return store.Ledger().CreateEntry(ctx, &domain.LedgerEntry{
		UserID:          rental.TenantID,
		Amount:          amount,
		Type:            domain.EntryTypeCollateralRefund,
		RelatedRentalID: &rentalID,
		Description:     fmt.Sprintf("Collateral returned for rental %d", rentalID),
	})
}

func forfeitCollateralTx(ctx context.Context, store repository.Store, rental *domain.Rental, amount int64) error {
	if amount <= 0 {
		return nil
	}
	if err := store.Users().AddBalance(ctx, rental.LenderID, amount); err != nil {
		return err
	}
	rentalID := rental.ID
	return store.Ledger().CreateEntry(ctx, &domain.LedgerEntry{
		UserID:          rental.LenderID,
		Amount:          amount,
		Type:            domain.EntryTypeCollateralForfeit,
		RelatedRentalID: &rentalID,
		Description:     fmt.Sprintf("Collateral awarded from rental %d dispute", rentalID),
	})
}

// clearUsage revokes the tenant's registry grant after a terminal transition.
// The transition has already committed; a registry failure here is an anomaly
// to flag, not a reason to unwind settled funds.
func (s *rentalService) clearUsage(ctx context.Context, asset domain.AssetRef) {
	if err := s.registry.ClearUsage(ctx, asset); err != nil {
		logger.Anomaly("Failed to clear usage grant", "asset", assetLabel(asset), "error", err)
	}
}

func (s *rentalService) notifyRentalCreated(ctx context.Context, rental *domain.Rental) {
	if s.emailSvc == nil {
		return
	}
	lender, err1 := s.store.Users().GetByID(ctx, rental.LenderID)
	tenant, err2 := s.store.Users().GetByID(ctx, rental.TenantID)
	if err1 != nil || err2 != nil {
		return
	}
	_ = s.emailSvc.SendRentalCreatedNotification(ctx, lender.Email, tenant.Name, assetLabel(rental.Asset))
}

func (s *rentalService) notifyRentalCompleted(ctx context.Context, rental *domain.Rental) {
	if s.emailSvc == nil {
		return
	}
	if lender, err := s.store.Users().GetByID(ctx, rental.LenderID); err == nil {
		_ = s.emailSvc.SendRentalCompletedNotification(ctx, lender.Email, "lender", assetLabel(rental.Asset), rental.CollateralAmount)
	}
	if tenant, err := s.store.Users().GetByID(ctx, rental.TenantID); err == nil {
		_ = s.emailSvc.SendRentalCompletedNotification(ctx, tenant.Email, "tenant", assetLabel(rental.Asset), rental.CollateralAmount)
	}
}

func (s *rentalService) notifyRentalCancelled(ctx context.Context, rental *domain.Rental, reason string) {
	if s.emailSvc == nil {
		return
	}
	lender, err1 := s.store.Users().GetByID(ctx, rental.LenderID)
	tenant, err2 := s.store.Users().GetByID(ctx, rental.TenantID)
	if err1 != nil || err2 != nil {
		return
	}
	_ = s.emailSvc.SendRentalCancelledNotification(ctx, lender.Email, tenant.Name, assetLabel(rental.Asset), reason)
}

func (s *rentalService) notifyDisputeOpened(ctx context.Context, rental *domain.Rental, disputerID int32, reason string) {
	if s.emailSvc == nil {
		return
	}
	counterpartyID := rental.LenderID
	if disputerID == rental.LenderID {
		counterpartyID = rental.TenantID
	}
	if counterparty, err := s.store.Users().GetByID(ctx, counterpartyID); err == nil {
		_ = s.emailSvc.SendDisputeOpenedNotification(ctx, counterparty.Email, assetLabel(rental.Asset), reason)
	}
}

func (s *rentalService) notifyDisputeResolved(ctx context.Context, rental *domain.Rental, favorTenant bool) {
	if s.emailSvc == nil {
		return
	}
	if lender, err := s.store.Users().GetByID(ctx, rental.LenderID); err == nil {
		_ = s.emailSvc.SendDisputeResolvedNotification(ctx, lender.Email, assetLabel(rental.Asset), favorTenant)
	}
	if tenant, err := s.store.Users().GetByID(ctx, rental.TenantID); err == nil {
		_ = s.emailSvc.SendDisputeResolvedNotification(ctx, tenant.Email, assetLabel(rental.Asset), favorTenant)
	}
}
