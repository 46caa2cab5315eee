package models

import "time"

// SentRecord is a gift the user sent to a friend's ceremony.
type SentRecord struct {
	// ID is the unique identifier for the sent record (UUID format).
	ID string

	// OwnerID is the user who sent the gift.
	OwnerID string

	// FriendID is the recipient.
	FriendID string

	// Amount is the gift amount in won.
	Amount int64

	// Date is the day of the friend's ceremony.
	Date time.Time

	// EventType is the category of the friend's ceremony.
	EventType Category

	// Memo is an optional description.
	Memo string

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}
