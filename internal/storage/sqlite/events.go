package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/internal/storage"
)

// CreateEvent persists a new event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	return insertEvent(ctx, s.db, event)
}

// GetEvent retrieves an event owned by ownerID.
func (s *SQLiteStore) GetEvent(ctx context.Context, ownerID, eventID string) (*models.Event, error) {
	event := &models.Event{}
	var category string
	var date int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, category, date, created_at FROM events WHERE id = ? AND owner_id = ?`,
		eventID, ownerID,
	).Scan(&event.ID, &event.OwnerID, &event.Title, &category, &date, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	event.Category = models.Category(category)
	event.Date = time.Unix(date, 0).UTC()
	return event, nil
}

// ListEvents returns the owner's events, newest ceremony first, with the
// count and sum of their records.
func (s *SQLiteStore) ListEvents(ctx context.Context, ownerID string) ([]*models.EventSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.owner_id, e.title, e.category, e.date, e.created_at,
		        COUNT(r.id), COALESCE(SUM(r.amount), 0)
		 FROM events e
		 LEFT JOIN records r ON r.event_id = e.id
		 WHERE e.owner_id = ?
		 GROUP BY e.id
		 ORDER BY e.date DESC, e.created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.EventSummary
	for rows.Next() {
		summary := &models.EventSummary{}
		var category string
		var date int64
		if err := rows.Scan(&summary.ID, &summary.OwnerID, &summary.Title, &category, &date, &summary.CreatedAt,
			&summary.RecordCount, &summary.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		summary.Category = models.Category(category)
		summary.Date = time.Unix(date, 0).UTC()
		events = append(events, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// UpdateEvent overwrites title, category and date of an owned event.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET title = ?, category = ?, date = ? WHERE id = ? AND owner_id = ?`,
		event.Title, string(event.Category), event.Date.Unix(), event.ID, event.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return expectOneRow(res, "event", event.ID)
}

// DeleteEvent removes an owned event together with its records.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, ownerID, eventID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM events WHERE id = ? AND owner_id = ?`,
		eventID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return expectOneRow(res, "event", eventID)
}

func insertEvent(ctx context.Context, q querier, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO events (id, owner_id, title, category, date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.OwnerID, event.Title, string(event.Category), event.Date.Unix(), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}
