package postgres

import (
	"context"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
)

type achievementRepository struct {
	db DBTX
}

func NewAchievementRepository(db DBTX) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) ListActive(ctx context.Context) ([]domain.Achievement, error) {
	query := `SELECT id, name, kind, requirement_threshold, reward_points, active
	          FROM achievements WHERE active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.RequirementThreshold, &a.RewardPoints, &a.Active); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (r *achievementRepository) ListGrantedIDs(ctx context.Context, userID int32) (map[int32]bool, error) {
	query := `SELECT achievement_id FROM user_achievements WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	granted := make(map[int32]bool)
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		granted[id] = true
	}
	return granted, rows.Err()
}

func (r *achievementRepository) Grant(ctx context.Context, userID, achievementID int32) (bool, error) {
	// ON CONFLICT DO NOTHING makes the grant idempotent: the second caller
	// sees zero rows affected and reports no new grant.
	query := `INSERT INTO user_achievements (user_id, achievement_id, granted_on)
	          VALUES ($1, $2, NOW()) ON CONFLICT (user_id, achievement_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, userID, achievementID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
