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

const recordDetailQuery = `
	SELECT r.id, r.event_id, r.friend_id, r.amount, r.gift_type, r.memo, r.created_at,
	       f.name, f.relation, e.title, e.category, e.date
	FROM records r
	JOIN events e ON e.id = r.event_id
	JOIN friends f ON f.id = r.friend_id
`

// CreateRecords inserts records atomically. Each record's event and friend
// must belong to ownerID, otherwise nothing is written and ErrNotFound is
// returned.
func (s *SQLiteStore) CreateRecords(ctx context.Context, ownerID string, records []*models.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		var owned int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM events e, friends f
			 WHERE e.id = ? AND e.owner_id = ? AND f.id = ? AND f.owner_id = ?`,
			record.EventID, ownerID, record.FriendID, ownerID,
		).Scan(&owned)
		if err != nil {
			return fmt.Errorf("failed to check record ownership: %w", err)
		}
		if owned == 0 {
			return fmt.Errorf("event %s or friend %s: %w", record.EventID, record.FriendID, storage.ErrNotFound)
		}

		if err := insertRecord(ctx, tx, record); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRecord retrieves a record whose event belongs to ownerID.
func (s *SQLiteStore) GetRecord(ctx context.Context, ownerID, recordID string) (*models.RecordDetail, error) {
	records, err := s.queryRecords(ctx, recordDetailQuery+` WHERE r.id = ? AND e.owner_id = ?`, recordID, ownerID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("record %s: %w", recordID, storage.ErrNotFound)
	}
	return records[0], nil
}

// ListRecordsByEvent returns the records of an owned event, newest first.
func (s *SQLiteStore) ListRecordsByEvent(ctx context.Context, ownerID, eventID string) ([]*models.RecordDetail, error) {
	return s.queryRecords(ctx,
		recordDetailQuery+` WHERE r.event_id = ? AND e.owner_id = ? ORDER BY r.created_at DESC, r.rowid DESC`,
		eventID, ownerID,
	)
}

// ListRecordsByFriend returns the records given by an owned friend, newest first.
func (s *SQLiteStore) ListRecordsByFriend(ctx context.Context, ownerID, friendID string) ([]*models.RecordDetail, error) {
	return s.queryRecords(ctx,
		recordDetailQuery+` WHERE r.friend_id = ? AND f.owner_id = ? ORDER BY r.created_at DESC, r.rowid DESC`,
		friendID, ownerID,
	)
}

// ListRecordsByOwner returns every record of every event the owner has.
func (s *SQLiteStore) ListRecordsByOwner(ctx context.Context, ownerID string) ([]*models.RecordDetail, error) {
	return s.queryRecords(ctx,
		recordDetailQuery+` WHERE e.owner_id = ? ORDER BY r.created_at DESC, r.rowid DESC`,
		ownerID,
	)
}

// UpdateRecord overwrites amount, gift type and memo of a record whose event
// belongs to ownerID.
func (s *SQLiteStore) UpdateRecord(ctx context.Context, ownerID string, record *models.Record) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET amount = ?, gift_type = ?, memo = ?
		 WHERE id = ? AND event_id IN (SELECT id FROM events WHERE owner_id = ?)`,
		record.Amount, string(record.GiftType), nullable(record.Memo), record.ID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return expectOneRow(res, "record", record.ID)
}

// DeleteRecord removes a record whose event belongs to ownerID.
func (s *SQLiteStore) DeleteRecord(ctx context.Context, ownerID, recordID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE id = ? AND event_id IN (SELECT id FROM events WHERE owner_id = ?)`,
		recordID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return expectOneRow(res, "record", recordID)
}

func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...any) ([]*models.RecordDetail, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*models.RecordDetail
	for rows.Next() {
		detail := &models.RecordDetail{}
		var giftType, category string
		var memo sql.NullString
		var date int64
		if err := rows.Scan(&detail.ID, &detail.EventID, &detail.FriendID, &detail.Amount, &giftType, &memo, &detail.CreatedAt,
			&detail.FriendName, &detail.FriendRelation, &detail.EventTitle, &category, &date); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		detail.GiftType = models.GiftType(giftType)
		if memo.Valid {
			detail.Memo = memo.String
		}
		detail.EventCategory = models.Category(category)
		detail.EventDate = time.Unix(date, 0).UTC()
		records = append(records, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

func insertRecord(ctx context.Context, q querier, record *models.Record) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}
	if record.GiftType == "" {
		record.GiftType = models.GiftCash
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO records (id, event_id, friend_id, amount, gift_type, memo, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.EventID, record.FriendID, record.Amount, string(record.GiftType),
		nullable(record.Memo), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}
