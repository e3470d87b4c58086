package postgres

import (
	"context"
	"encoding/json"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
)

type eventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Append(ctx context.Context, e *domain.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	query := `INSERT INTO events (id, type, payload, created_on) VALUES ($1, $2, $3, NOW())
	          RETURNING created_on`
	return r.db.QueryRowContext(ctx, query, e.ID, e.Type, payload).Scan(&e.CreatedOn)
}

func (r *eventRepository) List(ctx context.Context, eventType string, page, pageSize int32) ([]domain.Event, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, type, payload, created_on FROM events
	          WHERE ($1 = '' OR type = $1) ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, eventType, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var payload []byte
		if err := rows.Scan(&e.ID, &e.Type, &payload, &e.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, 0, err
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM events WHERE ($1 = '' OR type = $1)`
	if err := r.db.QueryRowContext(ctx, countQuery, eventType).Scan(&count); err != nil {
		return nil, 0, err
	}
	return events, count, nil
}
