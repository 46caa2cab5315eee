// Package models defines the core domain models for the gift ledger.
//
// # Entities
//
//   - User: an account that owns every other entity
//   - Friend: a person the user exchanges ceremonial gifts with
//   - Event: a ceremony (wedding, funeral, birthday, other) owned by the user
//   - Record: one gift received at an Event from a Friend
//   - SentRecord: one gift the user sent to a Friend's ceremony
//
// # Import types
//
// RawRecord, ImportRequest and ImportResult are transient values used by the
// OCR bulk import. They are never persisted as such.
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers
//  2. Ownership is explicit: every query is scoped by the owning user ID
//  3. Amounts are integers (won, or gold pieces for gold gifts)
package models
