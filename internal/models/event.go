package models

import (
	"fmt"
	"time"
)

// Category is the kind of ceremony an event represents.
type Category string

const (
	CategoryWedding  Category = "WEDDING"
	CategoryFuneral  Category = "FUNERAL"
	CategoryBirthday Category = "BIRTHDAY"
	CategoryEtc      Category = "ETC"
)

// DateLayout is the wire format for event and sent-record dates.
const DateLayout = "2006-01-02"

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWedding, CategoryFuneral, CategoryBirthday, CategoryEtc:
		return true
	}
	return false
}

// ParseCategory converts s into a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return c, nil
}

// ParseDate accepts an ISO-8601 calendar date or a full RFC 3339 timestamp
// and returns midnight UTC of the calendar day as written. The offset of a
// timestamp only locates that day; it never moves it.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// Event is a ceremonial occasion owned by one user.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// OwnerID is the user this event belongs to.
	OwnerID string

	// Title is the human-readable name (e.g. "제 결혼식").
	Title string

	// Category is WEDDING, FUNERAL, BIRTHDAY or ETC.
	Category Category

	// Date is the day of the ceremony (UTC).
	Date time.Time

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// EventSummary is an event together with the aggregate of its records.
type EventSummary struct {
	Event
	RecordCount int
	TotalAmount int64
}
