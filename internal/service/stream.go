package service

import (
	"context"
	"errors"
	"fmt"

	"nftflow-backend/internal/config"
	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/logger"
	"nftflow-backend/internal/repository"
	"nftflow-backend/internal/utils"
)

type streamService struct {
	store  repository.Store
	params config.EngineConfig
}

func NewStreamService(store repository.Store, params config.EngineConfig) StreamService {
	return &streamService{store: store, params: params}
}

// createStreamTx validates terms, locks the deposit out of the payer's
// balance and persists the stream, all inside the caller's transaction.
// The truncation remainder of deposit/window stays attached to the deposit
// and is reconciled at finalize, never dropped.
func createStreamTx(ctx context.Context, store repository.Store, payerID, payeeID int32, deposit, startTime, stopTime int64, fee FeeConfig, milestoneTimes []int64) (*domain.Stream, error) {
	if stopTime <= startTime {
		return nil, ErrInvalidWindow
	}
	if deposit <= 0 {
		return nil, ErrInvalidDeposit
	}

	rate, _ := utils.RatePerSecond(deposit, startTime, stopTime)

	stream := &domain.Stream{
		PayerID:            payerID,
		PayeeID:            payeeID,
		Deposit:            deposit,
		RatePerSecond:      rate,
		StartTime:          startTime,
		StopTime:           stopTime,
		Active:             true,
		FeeBps:             fee.FeeBps,
		RoyaltyBps:         fee.RoyaltyBps,
		RoyaltyRecipientID: fee.RoyaltyRecipientID,
	}
	for i, at := range milestoneTimes {
		stream.Milestones = append(stream.Milestones, domain.Milestone{Seq: int32(i + 1), AtTime: at})
	}

	// Lock the deposit. The balance check rides on the debit itself, so a
	// concurrent spend cannot slip through between check and debit.
	if err := store.Users().AddBalance(ctx, payerID, -deposit); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	if err := store.Streams().Create(ctx, stream); err != nil {
		return nil, err
	}

	streamID := stream.ID
	entry := &domain.LedgerEntry{
		UserID:          payerID,
		Amount:          -deposit,
		Type:            domain.EntryTypeStreamDeposit,
		RelatedStreamID: &streamID,
		Description:     fmt.Sprintf("Deposit locked for stream %d", streamID),
	}
	if err := store.Ledger().CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return stream, nil
}

// settleLeg credits a user and writes the matching audit entry. Zero-amount
// legs are skipped.
func settleLeg(ctx context.Context, store repository.Store, userID int32, amount int64, entryType domain.EntryType, streamID int32, desc string) error {
	if amount == 0 {
		return nil
	}
	if err := store.Users().AddBalance(ctx, userID, amount); err != nil {
		return err
	}
	return store.Ledger().CreateEntry(ctx, &domain.LedgerEntry{
		UserID:          userID,
		Amount:          amount,
		Type:            entryType,
		RelatedStreamID: &streamID,
		Description:     desc,
	})
}

// finalizeStreamTx releases the stream's full remaining balance. An optional
// refund leg to the payer (dispute resolutions) comes off the top; the rest
// splits between payee, platform fee and creator royalty. The payee leg
// absorbs all truncation remainders, so withdrawn + refund + the three legs
// always equals the deposit exactly.
func finalizeStreamTx(ctx context.Context, store repository.Store, platformAccountID int32, stream *domain.Stream, refundToPayer int64) error {
	if stream.Finalized {
		return ErrAlreadyFinalized
	}
	if !stream.Active {
		return ErrNotActive
	}

	remaining := stream.Deposit - stream.TotalWithdrawn
	if refundToPayer > remaining {
		refundToPayer = remaining
	}
	split := utils.SplitRemaining(remaining-refundToPayer, stream.FeeBps, stream.RoyaltyBps, stream.RoyaltyRecipientID != nil)

	if err := settleLeg(ctx, store, stream.PayerID, refundToPayer, domain.EntryTypeStreamRefund, stream.ID,
		fmt.Sprintf("Refund from stream %d", stream.ID)); err != nil {
		return err
	}
	if err := settleLeg(ctx, store, stream.PayeeID, split.Payee, domain.EntryTypeStreamPayout, stream.ID,
		fmt.Sprintf("Final payout from stream %d", stream.ID)); err != nil {
		return err
	}
	if err := settleLeg(ctx, store, platformAccountID, split.Fee, domain.EntryTypePlatformFee, stream.ID,
		fmt.Sprintf("Platform fee from stream %d", stream.ID)); err != nil {
		return err
	}
	if stream.RoyaltyRecipientID != nil {
		if err := settleLeg(ctx, store, *stream.RoyaltyRecipientID, split.Royalty, domain.EntryTypeCreatorRoyalty, stream.ID,
			fmt.Sprintf("Creator royalty from stream %d", stream.ID)); err != nil {
			return err
		}
	}

	stream.PlatformFeeAmount = split.Fee
	stream.CreatorRoyaltyAmount = split.Royalty
	stream.Active = false
	stream.Finalized = true
	if err := store.Streams().Update(ctx, stream); err != nil {
		return err
	}

	return appendEvent(ctx, store.Events(), domain.EventStreamFinalized, map[string]any{
		"stream_id":       stream.ID,
		"deposit":         stream.Deposit,
		"total_withdrawn": stream.TotalWithdrawn,
		"remaining":       remaining,
		"refund_to_payer": refundToPayer,
		"payee_amount":    split.Payee,
		"platform_fee":    split.Fee,
		"creator_royalty": split.Royalty,
	})
}

// cancelStreamTx settles accrued-to-date to the payee and returns the
// unaccrued remainder to the payer, then marks the stream terminal.
func cancelStreamTx(ctx context.Context, store repository.Store, stream *domain.Stream, at int64) error {
	if stream.Finalized {
		return ErrAlreadyFinalized
	}
	if !stream.Active {
		return ErrNotActive
	}

	accrued := utils.Accrued(stream.Deposit, stream.RatePerSecond, stream.StartTime, stream.StopTime, at)
	toPayee := accrued - stream.TotalWithdrawn
	if toPayee < 0 {
		toPayee = 0
	}
	toPayer := stream.Deposit - stream.TotalWithdrawn - toPayee

	if err := settleLeg(ctx, store, stream.PayeeID, toPayee, domain.EntryTypeStreamPayout, stream.ID,
		fmt.Sprintf("Accrued payout on cancellation of stream %d", stream.ID)); err != nil {
		return err
	}
	if err := settleLeg(ctx, store, stream.PayerID, toPayer, domain.EntryTypeStreamRefund, stream.ID,
		fmt.Sprintf("Unaccrued refund on cancellation of stream %d", stream.ID)); err != nil {
		return err
	}

	stream.TotalWithdrawn += toPayee
	stream.Active = false
	stream.Finalized = true
	if err := store.Streams().Update(ctx, stream); err != nil {
		return err
	}

	return appendEvent(ctx, store.Events(), domain.EventStreamCancelled, map[string]any{
		"stream_id":         stream.ID,
		"deposit":           stream.Deposit,
		"accrued_to_payee":  toPayee,
		"refunded_to_payer": toPayer,
		"cancelled_at":      at,
	})
}

func (s *streamService) CreateStream(ctx context.Context, payerID, payeeID int32, deposit, startTime, stopTime int64, fee FeeConfig, milestones []int64) (*domain.Stream, error) {
	var stream *domain.Stream
	err := s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		stream, err = createStreamTx(ctx, store, payerID, payeeID, deposit, startTime, stopTime, fee, milestones)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Stream created", "stream_id", stream.ID, "payer_id", payerID, "payee_id", payeeID, "deposit", deposit)
	return stream, nil
}

func (s *streamService) GetStream(ctx context.Context, id int32) (*domain.Stream, error) {
	return s.store.Streams().GetByID(ctx, id)
}

func (s *streamService) Withdrawable(ctx context.Context, id int32, at int64) (int64, error) {
	stream, err := s.store.Streams().GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return utils.Withdrawable(stream.Deposit, stream.RatePerSecond, stream.StartTime, stream.StopTime, stream.TotalWithdrawn, at), nil
}

func (s *streamService) Withdraw(ctx context.Context, callerID, id int32, amount, at int64) (*domain.Stream, error) {
	var stream *domain.Stream
	err := s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		stream, err = store.Streams().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if stream.PayeeID != callerID {
			return ErrNotAuthorized
		}
		if stream.Finalized || !stream.Active {
			return ErrNotActive
		}
		if amount <= 0 {
			return ErrExceedsAvailable
		}
		available := utils.Withdrawable(stream.Deposit, stream.RatePerSecond, stream.StartTime, stream.StopTime, stream.TotalWithdrawn, at)
		if amount > available {
			return ErrExceedsAvailable
		}

		if err := settleLeg(ctx, store, stream.PayeeID, amount, domain.EntryTypeStreamWithdrawal, stream.ID,
			fmt.Sprintf("Withdrawal from stream %d", stream.ID)); err != nil {
			return err
		}
		stream.TotalWithdrawn += amount
		if err := store.Streams().Update(ctx, stream); err != nil {
			return err
		}

		return appendEvent(ctx, store.Events(), domain.EventStreamWithdrawn, map[string]any{
			"stream_id":       stream.ID,
			"amount":          amount,
			"total_withdrawn": stream.TotalWithdrawn,
			"withdrawn_at":    at,
		})
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// Finalize is an operational tool like Cancel: rentals finalize their streams
// through the rental state machine, which drives the terminal transition and
// collateral release. Direct finalization is therefore admin-only.
func (s *streamService) Finalize(ctx context.Context, callerID, id int32, at int64) (*domain.Stream, error) {
	caller, err := s.store.Users().GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.UserRoleAdmin {
		return nil, ErrNotAuthorized
	}

	var stream *domain.Stream
	err = s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		stream, err = store.Streams().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if at < stream.StopTime {
			return ErrTooEarly
		}
		return finalizeStreamTx(ctx, store, s.params.PlatformAccountID, stream, 0)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Stream finalized", "stream_id", id, "fee", stream.PlatformFeeAmount, "royalty", stream.CreatorRoyaltyAmount)
	return stream, nil
}

// Cancel is an operational tool: rentals cancel their streams through the
// rental state machine, which enforces the grace window. Direct stream
// cancellation is therefore admin-only.
func (s *streamService) Cancel(ctx context.Context, callerID, id int32, at int64) (*domain.Stream, error) {
	caller, err := s.store.Users().GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.UserRoleAdmin {
		return nil, ErrNotAuthorized
	}

	var stream *domain.Stream
	err = s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		stream, err = store.Streams().GetByID(ctx, id)
		if err != nil {
			return err
		}
		return cancelStreamTx(ctx, store, stream, at)
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (s *streamService) CheckMilestones(ctx context.Context, at int64) (int, error) {
	streams, err := s.store.Streams().ListActive(ctx)
	if err != nil {
		return 0, err
	}

	crossed := 0
	for i := range streams {
		stream := &streams[i]
		for _, m := range stream.Milestones {
			if m.Reached || at < m.AtTime {
				continue
			}
			err := s.store.ExecTx(ctx, func(store repository.Store) error {
				if err := store.Streams().MarkMilestoneReached(ctx, stream.ID, m.Seq); err != nil {
					return err
				}
				stream.CurrentMilestone = m.Seq
				if err := store.Streams().Update(ctx, stream); err != nil {
					return err
				}
				return appendEvent(ctx, store.Events(), domain.EventMilestoneReached, map[string]any{
					"stream_id": stream.ID,
					"milestone": m.Seq,
					"at_time":   m.AtTime,
				})
			})
			if errors.Is(err, repository.ErrVersionConflict) {
				// Another writer touched the stream; the next sweep picks
				// this milestone up again.
				logger.Warn("Milestone sweep lost a version race", "stream_id", stream.ID, "milestone", m.Seq)
				break
			}
			if err != nil {
				return crossed, err
			}
			crossed++
		}
	}
	return crossed, nil
}
