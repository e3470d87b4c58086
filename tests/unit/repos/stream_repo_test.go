package repos

import (
	"context"
	"testing"
	"time"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
	"nftflow-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestStreamRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewStreamRepository(db)
	ctx := context.Background()

	t.Run("WithMilestones", func(t *testing.T) {
		stream := &domain.Stream{
			PayerID:       1,
			PayeeID:       2,
			Deposit:       36000,
			RatePerSecond: 10,
			StartTime:     1000,
			StopTime:      4600,
			Active:        true,
			FeeBps:        250,
			Milestones: []domain.Milestone{
				{Seq: 1, AtTime: 1900},
				{Seq: 2, AtTime: 2800},
			},
		}

		mock.ExpectQuery("INSERT INTO streams").
			WithArgs(stream.PayerID, stream.PayeeID, stream.Deposit, stream.RatePerSecond,
				stream.StartTime, stream.StopTime, stream.Active, stream.FeeBps,
				stream.RoyaltyBps, stream.RoyaltyRecipientID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_on", "updated_on"}).
				AddRow(7, 1, time.Now(), time.Now()))
		mock.ExpectExec("INSERT INTO stream_milestones").
			WithArgs(int32(7), int32(1), int64(1900)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO stream_milestones").
			WithArgs(int32(7), int32(2), int64(2800)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, stream)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), stream.ID)
		assert.Equal(t, int32(7), stream.Milestones[0].StreamID)
	})
}

func TestStreamRepository_Update_VersionConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewStreamRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		stream := &domain.Stream{ID: 7, TotalWithdrawn: 100, Active: true, Version: 1}
		mock.ExpectExec("UPDATE streams SET").
			WithArgs(stream.TotalWithdrawn, stream.Active, stream.Finalized,
				stream.PlatformFeeAmount, stream.CreatorRoyaltyAmount, stream.CurrentMilestone,
				stream.ID, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, stream)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), stream.Version)
	})

	t.Run("StaleVersion", func(t *testing.T) {
		stream := &domain.Stream{ID: 7, Version: 1}
		mock.ExpectExec("UPDATE streams SET").
			WithArgs(stream.TotalWithdrawn, stream.Active, stream.Finalized,
				stream.PlatformFeeAmount, stream.CreatorRoyaltyAmount, stream.CurrentMilestone,
				stream.ID, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, stream)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)
	})
}
