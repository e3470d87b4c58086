package domain

import "time"

type UserReputation struct {
	UserID            int32     `json:"user_id"`
	TotalRentals      int32     `json:"total_rentals"`
	SuccessfulRentals int32     `json:"successful_rentals"`
	Score             int32     `json:"score"`
	Blacklisted       bool      `json:"blacklisted"`
	Version           int32     `json:"version"`
	UpdatedOn         time.Time `json:"updated_on"`
}
