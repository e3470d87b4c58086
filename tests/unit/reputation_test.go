package unit

import (
	"context"
	"testing"

	"nftflow-backend/internal/config"
	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineParams(platformID int32) config.EngineConfig {
	return config.EngineConfig{
		MaxScore:            1000,
		ScoreGain:           10,
		ScoreLoss:           50,
		PlatformFeeBps:      250,
		PlatformAccountID:   platformID,
		RecoveryGracePeriod: 7 * 24 * 3600,
		DisputeWindow:       3 * 24 * 3600,
		CancelGraceWindow:   3600,
	}
}

func TestMultiplierForScore(t *testing.T) {
	assert.Equal(t, int32(10000), service.MultiplierForScore(0, false))
	assert.Equal(t, int32(10000), service.MultiplierForScore(99, false))
	assert.Equal(t, int32(5000), service.MultiplierForScore(100, false))
	assert.Equal(t, int32(5000), service.MultiplierForScore(499, false))
	assert.Equal(t, int32(2500), service.MultiplierForScore(500, false))
	assert.Equal(t, int32(2500), service.MultiplierForScore(799, false))
	assert.Equal(t, int32(0), service.MultiplierForScore(800, false))
	assert.Equal(t, int32(0), service.MultiplierForScore(1000, false))
	// Blacklisting overrides even a perfect score.
	assert.Equal(t, int32(20000), service.MultiplierForScore(1000, true))
}

func TestRecordOutcome_ScoreProgression(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("tenant", domain.UserRoleMember, 0)
	svc := service.NewReputationService(store, engineParams(99))
	ctx := context.Background()

	rep, err := svc.RecordOutcome(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int32(10), rep.Score)
	assert.Equal(t, int32(1), rep.TotalRentals)
	assert.Equal(t, int32(1), rep.SuccessfulRentals)

	// A failure costs more than a success gains, floored at zero.
	rep, err = svc.RecordOutcome(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int32(0), rep.Score)
	assert.Equal(t, int32(2), rep.TotalRentals)
	assert.Equal(t, int32(1), rep.SuccessfulRentals)

	rate, err := svc.SuccessRate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(50), rate)
}

func TestRecordOutcome_ScoreCap(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("tenant", domain.UserRoleMember, 0)
	store.reputations[user.ID] = &domain.UserReputation{UserID: user.ID, Score: 995, Version: 1}
	svc := service.NewReputationService(store, engineParams(99))

	rep, err := svc.RecordOutcome(context.Background(), user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int32(1000), rep.Score)
}

func TestRecordOutcome_AchievementGrantedOnce(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("tenant", domain.UserRoleMember, 0)
	store.achievements = []domain.Achievement{
		{ID: 1, Name: "First Rental", Kind: domain.AchievementKindCountThreshold, RequirementThreshold: 1, RewardPoints: 25, Active: true},
	}
	svc := service.NewReputationService(store, engineParams(99))
	ctx := context.Background()

	rep, err := svc.RecordOutcome(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int32(35), rep.Score) // 10 outcome + 25 reward
	assert.Len(t, store.eventsOfType(domain.EventAchievementUnlocked), 1)

	// Second outcome still satisfies the predicate but never re-grants.
	rep, err = svc.RecordOutcome(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int32(45), rep.Score)
	assert.Len(t, store.eventsOfType(domain.EventAchievementUnlocked), 1)
}

func TestRecordOutcome_PerfectRecordRequiresNoFailures(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("tenant", domain.UserRoleMember, 0)
	store.achievements = []domain.Achievement{
		{ID: 1, Name: "Perfect Record", Kind: domain.AchievementKindPerfectRecord, RequirementThreshold: 3, RewardPoints: 100, Active: true},
	}
	svc := service.NewReputationService(store, engineParams(99))
	ctx := context.Background()

	_, err := svc.RecordOutcome(ctx, user.ID, true)
	require.NoError(t, err)
	_, err = svc.RecordOutcome(ctx, user.ID, false)
	require.NoError(t, err)
	_, err = svc.RecordOutcome(ctx, user.ID, true)
	require.NoError(t, err)
	_, err = svc.RecordOutcome(ctx, user.ID, true)
	require.NoError(t, err)

	// Four rentals, one failed: threshold met but the record is not perfect.
	assert.Empty(t, store.eventsOfType(domain.EventAchievementUnlocked))
}

func TestRecordOutcome_BlacklistedRejected(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("tenant", domain.UserRoleMember, 0)
	store.reputations[user.ID] = &domain.UserReputation{UserID: user.ID, Blacklisted: true, Version: 1}
	svc := service.NewReputationService(store, engineParams(99))

	_, err := svc.RecordOutcome(context.Background(), user.ID, true)
	assert.ErrorIs(t, err, service.ErrBlacklisted)
}

func TestSetBlacklisted_AdminOnly(t *testing.T) {
	store := newFakeStore()
	member := store.addUser("member", domain.UserRoleMember, 0)
	admin := store.addUser("admin", domain.UserRoleAdmin, 0)
	target := store.addUser("target", domain.UserRoleMember, 0)
	svc := service.NewReputationService(store, engineParams(99))
	ctx := context.Background()

	err := svc.SetBlacklisted(ctx, member.ID, target.ID, true)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	require.NoError(t, svc.SetBlacklisted(ctx, admin.ID, target.ID, true))
	mult, err := svc.CollateralMultiplier(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(20000), mult)
}
