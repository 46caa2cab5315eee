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

const friendColumns = `id, owner_id, name, relation, created_at`

// CreateFriend persists a new friend.
func (s *SQLiteStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	return insertFriend(ctx, s.db, friend)
}

// GetFriend retrieves a friend owned by ownerID.
func (s *SQLiteStore) GetFriend(ctx context.Context, ownerID, friendID string) (*models.Friend, error) {
	friend := &models.Friend{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+friendColumns+` FROM friends WHERE id = ? AND owner_id = ?`,
		friendID, ownerID,
	).Scan(&friend.ID, &friend.OwnerID, &friend.Name, &friend.Relation, &friend.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("friend %s: %w", friendID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friend: %w", err)
	}
	return friend, nil
}

// ListFriends returns the owner's friends ordered by name.
func (s *SQLiteStore) ListFriends(ctx context.Context, ownerID string) ([]*models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+friendColumns+` FROM friends WHERE owner_id = ? ORDER BY name, created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.Friend
	for rows.Next() {
		friend := &models.Friend{}
		if err := rows.Scan(&friend.ID, &friend.OwnerID, &friend.Name, &friend.Relation, &friend.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}

// UpdateFriend overwrites the name and relation of an owned friend.
func (s *SQLiteStore) UpdateFriend(ctx context.Context, friend *models.Friend) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE friends SET name = ?, relation = ? WHERE id = ? AND owner_id = ?`,
		friend.Name, friend.Relation, friend.ID, friend.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update friend: %w", err)
	}
	return expectOneRow(res, "friend", friend.ID)
}

// DeleteFriend removes an owned friend. Records and sent records of the
// friend are removed by the foreign key cascade.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, ownerID, friendID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM friends WHERE id = ? AND owner_id = ?`,
		friendID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	return expectOneRow(res, "friend", friendID)
}

func insertFriend(ctx context.Context, q querier, friend *models.Friend) error {
	if friend.ID == "" {
		friend.ID = uuid.New().String()
	}
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO friends (`+friendColumns+`) VALUES (?, ?, ?, ?, ?)`,
		friend.ID, friend.OwnerID, friend.Name, friend.Relation, friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}
	return nil
}

// findFriendByName returns the oldest friend with exactly this name, or nil.
func findFriendByName(ctx context.Context, q querier, ownerID, name string) (*models.Friend, error) {
	friend := &models.Friend{}
	err := q.QueryRowContext(ctx,
		`SELECT `+friendColumns+` FROM friends
		 WHERE owner_id = ? AND name = ?
		 ORDER BY created_at, rowid LIMIT 1`,
		ownerID, name,
	).Scan(&friend.ID, &friend.OwnerID, &friend.Name, &friend.Relation, &friend.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend by name: %w", err)
	}
	return friend, nil
}
