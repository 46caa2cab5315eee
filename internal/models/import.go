package models

import "strings"

// RawRecord is one unvalidated (name, amount) pair produced by the
// extraction adapter or typed in by the user before a bulk import.
type RawRecord struct {
	Name     string
	Amount   int64
	Relation string
}

// Valid reports whether the record can take part in an import.
// Names are compared exactly; blank-only names are treated as missing.
func (r RawRecord) Valid() bool {
	return strings.TrimSpace(r.Name) != "" && r.Amount > 0
}

// ImportRequest carries the event metadata and raw records of a bulk import.
type ImportRequest struct {
	Title    string
	Category string
	Date     string
	Records  []RawRecord
}

// ImportedRecord describes how one raw record was resolved.
type ImportedRecord struct {
	Name        string
	Amount      int64
	FriendID    string
	IsNewFriend bool
}

// ImportSummary aggregates an import.
type ImportSummary struct {
	TotalRecords int
	TotalAmount  int64
	NewFriends   int
}

// ImportResult is the outcome of a committed bulk import.
type ImportResult struct {
	Event   *Event
	Records []ImportedRecord
	Summary ImportSummary
}
