package unit

import (
	"context"
	"testing"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStream_LocksDeposit(t *testing.T) {
	store := newFakeStore()
	payer := store.addUser("payer", domain.UserRoleMember, 1000)
	payee := store.addUser("payee", domain.UserRoleMember, 0)
	svc := service.NewStreamService(store, engineParams(99))
	ctx := context.Background()

	// 100 over 3 seconds truncates to rate 33; the remainder stays in the
	// deposit until finalize.
	stream, err := svc.CreateStream(ctx, payer.ID, payee.ID, 100, 0, 3, service.FeeConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(33), stream.RatePerSecond)
	assert.True(t, stream.Active)

	got, err := store.Users().GetByID(ctx, payer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(900), got.Balance)
	assert.Len(t, store.entriesOfType(domain.EntryTypeStreamDeposit), 1)
}

func TestCreateStream_Validation(t *testing.T) {
	store := newFakeStore()
	payer := store.addUser("payer", domain.UserRoleMember, 1000)
	payee := store.addUser("payee", domain.UserRoleMember, 0)
	svc := service.NewStreamService(store, engineParams(99))
	ctx := context.Background()

	_, err := svc.CreateStream(ctx, payer.ID, payee.ID, 100, 10, 10, service.FeeConfig{}, nil)
	assert.ErrorIs(t, err, service.ErrInvalidWindow)

	_, err = svc.CreateStream(ctx, payer.ID, payee.ID, 0, 0, 10, service.FeeConfig{}, nil)
	assert.ErrorIs(t, err, service.ErrInvalidDeposit)

	_, err = svc.CreateStream(ctx, payer.ID, payee.ID, 5000, 0, 10, service.FeeConfig{}, nil)
	assert.ErrorIs(t, err, service.ErrInsufficientFunds)

	// Nothing moved on any rejected attempt.
	got, err := store.Users().GetByID(ctx, payer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Balance)
}

func TestWithdraw_AccrualBounds(t *testing.T) {
	store := newFakeStore()
	payer := store.addUser("payer", domain.UserRoleMember, 1000)
	payee := store.addUser("payee", domain.UserRoleMember, 0)
	svc := service.NewStreamService(store, engineParams(99))
	ctx := context.Background()

	stream, err := svc.CreateStream(ctx, payer.ID, payee.ID, 100, 0, 10, service.FeeConfig{}, nil)
	require.NoError(t, err)

	// Halfway through, half the deposit has accrued.
	available, err := svc.Withdrawable(ctx, stream.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(50), available)

	// Before the window opens, nothing is withdrawable.
	available, err = svc.Withdrawable(ctx, stream.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), available)

	// Only the payee may withdraw.
	_, err = svc.Withdraw(ctx, payer.ID, stream.ID, 10, 5)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	updated, err := svc.Withdraw(ctx, payee.ID, stream.ID, 30, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(30), updated.TotalWithdrawn)

	got, err := store.Users().GetByID(ctx, payee.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.Balance)

	// 20 remain accrued at t=5; asking for 30 exceeds them.
	_, err = svc.Withdraw(ctx, payee.ID, stream.ID, 30, 5)
	assert.ErrorIs(t, err, service.ErrExceedsAvailable)
}

func TestFinalize_SplitsAndConservation(t *testing.T) {
	store := newFakeStore()
	payer := store.addUser("payer", domain.UserRoleMember, 20000)
	payee := store.addUser("payee", domain.UserRoleMember, 0)
	creator := store.addUser("creator", domain.UserRoleMember, 0)
	platform := store.addUser("platform", domain.UserRolePlatform, 0)
	admin := store.addUser("admin", domain.UserRoleAdmin, 0)
	svc := service.NewStreamService(store, engineParams(platform.ID))
	ctx := context.Background()

	creatorID := creator.ID
	fee := service.FeeConfig{FeeBps: 250, RoyaltyBps: 500, RoyaltyRecipientID: &creatorID}
	stream, err := svc.CreateStream(ctx, payer.ID, payee.ID, 10000, 0, 100, fee, nil)
	require.NoError(t, err)

	// Parties settle through the flows that own the stream, not directly.
	_, err = svc.Finalize(ctx, payee.ID, stream.ID, 100)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	_, err = svc.Finalize(ctx, admin.ID, stream.ID, 50)
	assert.ErrorIs(t, err, service.ErrTooEarly)

	final, err := svc.Finalize(ctx, admin.ID, stream.ID, 100)
	require.NoError(t, err)
	assert.False(t, final.Active)
	assert.True(t, final.Finalized)
	assert.Equal(t, int64(250), final.PlatformFeeAmount)
	assert.Equal(t, int64(500), final.CreatorRoyaltyAmount)

	payeeUser, _ := store.Users().GetByID(ctx, payee.ID)
	creatorUser, _ := store.Users().GetByID(ctx, creator.ID)
	platformUser, _ := store.Users().GetByID(ctx, platform.ID)
	assert.Equal(t, int64(9250), payeeUser.Balance)
	assert.Equal(t, int64(500), creatorUser.Balance)
	assert.Equal(t, int64(250), platformUser.Balance)

	// Every unit of the deposit is accounted for.
	payerUser, _ := store.Users().GetByID(ctx, payer.ID)
	total := payerUser.Balance + payeeUser.Balance + creatorUser.Balance + platformUser.Balance
	assert.Equal(t, int64(20000), total)

	_, err = svc.Finalize(ctx, admin.ID, stream.ID, 200)
	assert.ErrorIs(t, err, service.ErrAlreadyFinalized)
}

func TestFinalize_RemainderGoesToPayee(t *testing.T) {
	store := newFakeStore()
	payer := store.addUser("payer", domain.UserRoleMember, 100)
	payee := store.addUser("payee", domain.UserRoleMember, 0)
	platform := store.addUser("platform", domain.UserRolePlatform, 0)
	admin := store.addUser("admin", domain.UserRoleAdmin, 0)
	svc := service.NewStreamService(store, engineParams(platform.ID))
	ctx := context.Background()

	// rate 33, accrual 99; the stray unit must not vanish at finalize.
	stream, err := svc.CreateStream(ctx, payer.ID, payee.ID, 100, 0, 3, service.FeeConfig{FeeBps: 250}, nil)
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, admin.ID, stream.ID, 3)
	require.NoError(t, err)

	payeeUser, _ := store.Users().GetByID(ctx, payee.ID)
	platformUser, _ := store.Users().GetByID(ctx, platform.ID)
	assert.Equal(t, int64(98), payeeUser.Balance) // fee 2, payee takes the rest
	assert.Equal(t, int64(2), platformUser.Balance)
}

func TestCancelStream_AdminSplitsAccrued(t *testing.T) {
	store := newFakeStore()
	payer := store.addUser("payer", domain.UserRoleMember, 1000)
	payee := store.addUser("payee", domain.UserRoleMember, 0)
	admin := store.addUser("admin", domain.UserRoleAdmin, 0)
	svc := service.NewStreamService(store, engineParams(99))
	ctx := context.Background()

	stream, err := svc.CreateStream(ctx, payer.ID, payee.ID, 100, 0, 10, service.FeeConfig{}, nil)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, payer.ID, stream.ID, 4)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	cancelled, err := svc.Cancel(ctx, admin.ID, stream.ID, 4)
	require.NoError(t, err)
	assert.True(t, cancelled.Finalized)

	payerUser, _ := store.Users().GetByID(ctx, payer.ID)
	payeeUser, _ := store.Users().GetByID(ctx, payee.ID)
	assert.Equal(t, int64(40), payeeUser.Balance)
	assert.Equal(t, int64(960), payerUser.Balance)
	assert.Len(t, store.eventsOfType(domain.EventStreamCancelled), 1)
}

func TestCheckMilestones_CrossesOnce(t *testing.T) {
	store := newFakeStore()
	payer := store.addUser("payer", domain.UserRoleMember, 1000)
	payee := store.addUser("payee", domain.UserRoleMember, 0)
	svc := service.NewStreamService(store, engineParams(99))
	ctx := context.Background()

	_, err := svc.CreateStream(ctx, payer.ID, payee.ID, 100, 0, 100, service.FeeConfig{}, []int64{25, 50, 75, 100})
	require.NoError(t, err)

	crossed, err := svc.CheckMilestones(ctx, 60)
	require.NoError(t, err)
	assert.Equal(t, 2, crossed)
	assert.Len(t, store.eventsOfType(domain.EventMilestoneReached), 2)

	// Reached checkpoints stay reached; the next sweep crosses only new ones.
	crossed, err = svc.CheckMilestones(ctx, 80)
	require.NoError(t, err)
	assert.Equal(t, 1, crossed)
	assert.Len(t, store.eventsOfType(domain.EventMilestoneReached), 3)
}
