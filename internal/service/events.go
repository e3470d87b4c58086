package service

import (
	"context"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"

	"github.com/google/uuid"
)

// appendEvent writes an event through the supplied store so it commits (or
// rolls back) with the mutation it describes. Payloads carry full
// before/after amounts so indexers can reconstruct balances without
// re-deriving engine logic.
func appendEvent(ctx context.Context, store repository.EventRepository, typ domain.EventType, payload map[string]any) error {
	return store.Append(ctx, &domain.Event{
		ID:      uuid.NewString(),
		Type:    typ,
		Payload: payload,
	})
}

type eventService struct {
	store repository.Store
}

func NewEventService(store repository.Store) EventService {
	return &eventService{store: store}
}

func (s *eventService) ListEvents(ctx context.Context, eventType string, page, pageSize int32) ([]domain.Event, int32, error) {
	return s.store.Events().List(ctx, eventType, page, pageSize)
}
