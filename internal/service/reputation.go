package service

import (
	"context"

	"nftflow-backend/internal/config"
	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/logger"
	"nftflow-backend/internal/repository"
)

type reputationService struct {
	store  repository.Store
	params config.EngineConfig
}

func NewReputationService(store repository.Store, params config.EngineConfig) ReputationService {
	return &reputationService{store: store, params: params}
}

// MultiplierForScore maps a trust score to a collateral tier in basis
// points. Monotonically non-increasing in score; blacklisting overrides
// everything at 200%.
func MultiplierForScore(score int32, blacklisted bool) int32 {
	switch {
	case blacklisted:
		return 20000
	case score >= 800:
		return 0
	case score >= 500:
		return 2500
	case score >= 100:
		return 5000
	default:
		return 10000
	}
}

// achievementUnlocked is the predicate dispatcher. Each kind is an explicit
// case; unknown kinds never unlock.
func achievementUnlocked(a domain.Achievement, rep *domain.UserReputation) bool {
	switch a.Kind {
	case domain.AchievementKindCountThreshold:
		return rep.TotalRentals >= a.RequirementThreshold
	case domain.AchievementKindPerfectRecord:
		return rep.TotalRentals >= a.RequirementThreshold &&
			rep.SuccessfulRentals == rep.TotalRentals
	default:
		return false
	}
}

func clampScore(score, max int32) int32 {
	if score < 0 {
		return 0
	}
	if score > max {
		return max
	}
	return score
}

// recordOutcomeTx applies a rental outcome inside the caller's transaction.
// Shared by the reputation service and the rental state machine so outcome
// recording commits atomically with the rental transition that caused it.
func recordOutcomeTx(ctx context.Context, store repository.Store, params config.EngineConfig, userID int32, success bool) (*domain.UserReputation, error) {
	rep, err := store.Reputation().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rep.Blacklisted {
		return nil, ErrBlacklisted
	}

	oldScore := rep.Score
	rep.TotalRentals++
	if success {
		rep.SuccessfulRentals++
		rep.Score = clampScore(rep.Score+params.ScoreGain, params.MaxScore)
	} else {
		rep.Score = clampScore(rep.Score-params.ScoreLoss, params.MaxScore)
	}

	// Achievement evaluation: order-independent over active, not-yet-granted
	// achievements. Grant is idempotent at the repository level, so a
	// concurrent evaluation can never double-grant or double-reward.
	achievements, err := store.Achievements().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	granted, err := store.Achievements().ListGrantedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range achievements {
		if granted[a.ID] || !achievementUnlocked(a, rep) {
			continue
		}
		newGrant, err := store.Achievements().Grant(ctx, userID, a.ID)
		if err != nil {
			return nil, err
		}
		if !newGrant {
			continue
		}
		rep.Score = clampScore(rep.Score+a.RewardPoints, params.MaxScore)
		err = appendEvent(ctx, store.Events(), domain.EventAchievementUnlocked, map[string]any{
			"user_id":        userID,
			"achievement_id": a.ID,
			"name":           a.Name,
			"reward_points":  a.RewardPoints,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := store.Reputation().Update(ctx, rep); err != nil {
		return nil, err
	}

	err = appendEvent(ctx, store.Events(), domain.EventReputationUpdated, map[string]any{
		"user_id":            userID,
		"success":            success,
		"old_score":          oldScore,
		"new_score":          rep.Score,
		"total_rentals":      rep.TotalRentals,
		"successful_rentals": rep.SuccessfulRentals,
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *reputationService) RecordOutcome(ctx context.Context, userID int32, success bool) (*domain.UserReputation, error) {
	var rep *domain.UserReputation
	err := s.store.ExecTx(ctx, func(store repository.Store) error {
		var err error
		rep, err = recordOutcomeTx(ctx, store, s.params, userID, success)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Recorded rental outcome", "user_id", userID, "success", success, "score", rep.Score)
	return rep, nil
}

func (s *reputationService) CollateralMultiplier(ctx context.Context, userID int32) (int32, error) {
	rep, err := s.store.Reputation().Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return MultiplierForScore(rep.Score, rep.Blacklisted), nil
}

func (s *reputationService) SuccessRate(ctx context.Context, userID int32) (int32, error) {
	rep, err := s.store.Reputation().Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if rep.TotalRentals == 0 {
		return 0, nil
	}
	return rep.SuccessfulRentals * 100 / rep.TotalRentals, nil
}

func (s *reputationService) GetReputation(ctx context.Context, userID int32) (*domain.UserReputation, error) {
	return s.store.Reputation().Get(ctx, userID)
}

func (s *reputationService) SetBlacklisted(ctx context.Context, callerID, userID int32, flag bool) error {
	caller, err := s.store.Users().GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != domain.UserRoleAdmin {
		return ErrNotAuthorized
	}

	rep, err := s.store.Reputation().Get(ctx, userID)
	if err != nil {
		return err
	}
	if rep.Blacklisted == flag {
		return nil
	}
	rep.Blacklisted = flag
	if err := s.store.Reputation().Update(ctx, rep); err != nil {
		return err
	}
	logger.Info("Blacklist flag changed", "user_id", userID, "blacklisted", flag, "admin_id", callerID)
	return nil
}

func (s *reputationService) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return s.store.Achievements().ListActive(ctx)
}
