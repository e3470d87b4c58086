package service

import (
	"context"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/logger"
	"nftflow-backend/internal/repository"
)

type ledgerService struct {
	store repository.Store
}

func NewLedgerService(store repository.Store) LedgerService {
	return &ledgerService{store: store}
}

func (s *ledgerService) GetBalance(ctx context.Context, userID int32) (int64, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerEntry, int32, error) {
	return s.store.Ledger().ListByUser(ctx, userID, page, pageSize)
}

func (s *ledgerService) Credit(ctx context.Context, callerID, userID int32, amount int64, memo string) error {
	caller, err := s.store.Users().GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != domain.UserRoleAdmin {
		return ErrNotAuthorized
	}
	if amount <= 0 {
		return ErrInvalidDeposit
	}

	err = s.store.ExecTx(ctx, func(store repository.Store) error {
		if err := store.Users().AddBalance(ctx, userID, amount); err != nil {
			return err
		}
		return store.Ledger().CreateEntry(ctx, &domain.LedgerEntry{
			UserID:      userID,
			Amount:      amount,
			Type:        domain.EntryTypeDeposit,
			Description: memo,
		})
	})
	if err != nil {
		return err
	}
	logger.Info("Balance credited", "user_id", userID, "amount", amount, "admin_id", callerID)
	return nil
}
