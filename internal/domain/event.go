package domain

import "time"

type EventType string

const (
	EventListingCreated      EventType = "ListingCreated"
	EventListingDelisted     EventType = "ListingDelisted"
	EventRentalCreated       EventType = "RentalCreated"
	EventRentalCompleted     EventType = "RentalCompleted"
	EventRentalCancelled     EventType = "RentalCancelled"
	EventRentalRecovered     EventType = "RentalRecovered"
	EventDisputeOpened       EventType = "DisputeOpened"
	EventDisputeResolved     EventType = "DisputeResolved"
	EventStreamWithdrawn     EventType = "StreamWithdrawn"
	EventStreamFinalized     EventType = "StreamFinalized"
	EventStreamCancelled     EventType = "StreamCancelled"
	EventMilestoneReached    EventType = "MilestoneReached"
	EventReputationUpdated   EventType = "ReputationUpdated"
	EventAchievementUnlocked EventType = "AchievementUnlocked"
)

// Event is the externally consumable record of a state transition. Payloads
// carry full before/after amounts so indexers can reconstruct balances
// without re-deriving engine logic.
type Event struct {
	ID        string         `json:"id"` // uuid
	Type      EventType      `json:"type"`
	Payload   map[string]any `json:"payload"`
	CreatedOn time.Time      `json:"created_on"`
}
