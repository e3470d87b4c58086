package domain

import "time"

// AchievementKind selects the unlock predicate evaluated by the reputation
// service. New kinds get a new constant plus a case in the dispatcher, not
// a new type hierarchy.
type AchievementKind string

const (
	// Unlocks when totalRentals >= threshold.
	AchievementKindCountThreshold AchievementKind = "COUNT_THRESHOLD"
	// Unlocks when totalRentals >= threshold and every rental succeeded.
	AchievementKindPerfectRecord AchievementKind = "PERFECT_RECORD"
)

type Achievement struct {
	ID                   int32           `json:"id"`
	Name                 string          `json:"name"`
	Kind                 AchievementKind `json:"kind"`
	RequirementThreshold int32           `json:"requirement_threshold"`
	RewardPoints         int32           `json:"reward_points"`
	Active               bool            `json:"active"`
}

// UserAchievement records a grant. Grants are permanent and never repeated.
type UserAchievement struct {
	UserID        int32     `json:"user_id"`
	AchievementID int32     `json:"achievement_id"`
	GrantedOn     time.Time `json:"granted_on"`
}
