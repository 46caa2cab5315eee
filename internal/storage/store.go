// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/maeumjangbu/ledger/internal/models"
)

var (
	// ErrNotFound indicates a missing resource or one owned by another user.
	ErrNotFound = errors.New("record not found")

	// ErrEmailExists indicates a unique-email violation on user creation.
	ErrEmailExists = errors.New("email already registered")
)

// Tx is a transaction-scoped handle. Every write issued through it commits
// or rolls back together, and reads observe earlier writes of the same Tx.
type Tx interface {
	// FindFriendByName returns the first friend owned by ownerID whose name
	// equals name exactly, or nil and no error when none exists.
	FindFriendByName(ctx context.Context, ownerID, name string) (*models.Friend, error)

	// CreateFriend persists a friend. ID and CreatedAt are filled in if empty.
	CreateFriend(ctx context.Context, friend *models.Friend) error

	// CreateEvent persists an event. ID and CreatedAt are filled in if empty.
	CreateEvent(ctx context.Context, event *models.Event) error

	// CreateRecord persists a gift record. ID and CreatedAt are filled in if empty.
	CreateRecord(ctx context.Context, record *models.Record) error
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer. All reads and writes of owned entities are scoped by the
// owner's user ID; lookups of another user's entity return ErrNotFound.
type Store interface {
	// WithTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise; fn's error is returned as is.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Friends
	CreateFriend(ctx context.Context, friend *models.Friend) error
	GetFriend(ctx context.Context, ownerID, friendID string) (*models.Friend, error)
	ListFriends(ctx context.Context, ownerID string) ([]*models.Friend, error)
	UpdateFriend(ctx context.Context, friend *models.Friend) error
	DeleteFriend(ctx context.Context, ownerID, friendID string) error

	// Events
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, ownerID, eventID string) (*models.Event, error)
	ListEvents(ctx context.Context, ownerID string) ([]*models.EventSummary, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, ownerID, eventID string) error

	// Records
	CreateRecords(ctx context.Context, ownerID string, records []*models.Record) error
	GetRecord(ctx context.Context, ownerID, recordID string) (*models.RecordDetail, error)
	ListRecordsByEvent(ctx context.Context, ownerID, eventID string) ([]*models.RecordDetail, error)
	ListRecordsByFriend(ctx context.Context, ownerID, friendID string) ([]*models.RecordDetail, error)
	ListRecordsByOwner(ctx context.Context, ownerID string) ([]*models.RecordDetail, error)
	UpdateRecord(ctx context.Context, ownerID string, record *models.Record) error
	DeleteRecord(ctx context.Context, ownerID, recordID string) error

	// Sent records
	CreateSentRecord(ctx context.Context, sent *models.SentRecord) error
	ListSentRecordsByFriend(ctx context.Context, ownerID, friendID string) ([]*models.SentRecord, error)
	ListSentRecordsByOwner(ctx context.Context, ownerID string) ([]*models.SentRecord, error)
	SumSentToFriends(ctx context.Context, ownerID string, friendIDs []string) (int64, error)
	DeleteSentRecord(ctx context.Context, ownerID, sentID string) error

	// Ping verifies that the database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
