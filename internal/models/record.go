package models

import (
	"fmt"
	"time"
)

// GiftType tells how a record's amount is denominated.
type GiftType string

const (
	// GiftCash amounts are in won.
	GiftCash GiftType = "cash"
	// GiftGold amounts are counted in don (3.75 g pieces).
	GiftGold GiftType = "gold"
)

// ParseGiftType converts s into a GiftType. Empty input defaults to cash.
func ParseGiftType(s string) (GiftType, error) {
	switch GiftType(s) {
	case "":
		return GiftCash, nil
	case GiftCash, GiftGold:
		return GiftType(s), nil
	}
	return "", fmt.Errorf("unknown gift type %q", s)
}

// Record is one gift received at one Event from one Friend.
type Record struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// EventID is the event the gift was received at.
	EventID string

	// FriendID is the person who gave the gift.
	FriendID string

	// Amount is always positive.
	Amount int64

	GiftType GiftType

	// Memo is an optional note.
	Memo string

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}

// RecordDetail is a record joined with the names of its event and friend.
type RecordDetail struct {
	Record

	FriendName     string
	FriendRelation string

	EventTitle    string
	EventCategory Category
	EventDate     time.Time
}
