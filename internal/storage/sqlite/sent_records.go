package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/maeumjangbu/ledger/internal/models"
)

const sentColumns = `id, owner_id, friend_id, amount, date, event_type, memo, created_at`

// CreateSentRecord persists a new sent record. The friend must belong to the
// sent record's owner.
func (s *SQLiteStore) CreateSentRecord(ctx context.Context, sent *models.SentRecord) error {
	if sent.ID == "" {
		sent.ID = uuid.New().String()
	}
	if sent.CreatedAt == 0 {
		sent.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sent_records (`+sentColumns+`)
		 SELECT ?, ?, ?, ?, ?, ?, ?, ?
		 WHERE EXISTS (SELECT 1 FROM friends WHERE id = ? AND owner_id = ?)`,
		sent.ID, sent.OwnerID, sent.FriendID, sent.Amount, sent.Date.Unix(), string(sent.EventType),
		nullable(sent.Memo), sent.CreatedAt,
		sent.FriendID, sent.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sent record: %w", err)
	}
	return expectOneRow(res, "friend", sent.FriendID)
}

// ListSentRecordsByFriend returns the gifts sent to one friend, latest date first.
func (s *SQLiteStore) ListSentRecordsByFriend(ctx context.Context, ownerID, friendID string) ([]*models.SentRecord, error) {
	return s.querySent(ctx,
		`SELECT `+sentColumns+` FROM sent_records WHERE owner_id = ? AND friend_id = ? ORDER BY date DESC, created_at DESC`,
		ownerID, friendID,
	)
}

// ListSentRecordsByOwner returns every gift the owner has sent.
func (s *SQLiteStore) ListSentRecordsByOwner(ctx context.Context, ownerID string) ([]*models.SentRecord, error) {
	return s.querySent(ctx,
		`SELECT `+sentColumns+` FROM sent_records WHERE owner_id = ? ORDER BY date DESC, created_at DESC`,
		ownerID,
	)
}

// SumSentToFriends totals the owner's sent records to any of friendIDs.
func (s *SQLiteStore) SumSentToFriends(ctx context.Context, ownerID string, friendIDs []string) (int64, error) {
	if len(friendIDs) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(friendIDs)+1)
	args = append(args, ownerID)
	for _, id := range friendIDs {
		args = append(args, id)
	}

	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM sent_records
		 WHERE owner_id = ? AND friend_id IN (`+placeholders(len(friendIDs))+`)`,
		args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum sent records: %w", err)
	}
	return total, nil
}

// DeleteSentRecord removes an owned sent record.
func (s *SQLiteStore) DeleteSentRecord(ctx context.Context, ownerID, sentID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sent_records WHERE id = ? AND owner_id = ?`,
		sentID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete sent record: %w", err)
	}
	return expectOneRow(res, "sent record", sentID)
}

func (s *SQLiteStore) querySent(ctx context.Context, query string, args ...any) ([]*models.SentRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent records: %w", err)
	}
	defer rows.Close()

	var sent []*models.SentRecord
	for rows.Next() {
		record := &models.SentRecord{}
		var eventType string
		var memo sql.NullString
		var date int64
		if err := rows.Scan(&record.ID, &record.OwnerID, &record.FriendID, &record.Amount, &date, &eventType,
			&memo, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sent record: %w", err)
		}
		record.Date = time.Unix(date, 0).UTC()
		record.EventType = models.Category(eventType)
		if memo.Valid {
			record.Memo = memo.String
		}
		sent = append(sent, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sent records: %w", err)
	}

	return sent, nil
}
