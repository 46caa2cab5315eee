package models

// DefaultRelation is assigned to friends created without a relation label,
// e.g. names recognized from a photographed ledger.
const DefaultRelation = "미분류"

// Friend is a person the user exchanges ceremonial gifts with.
//
// Names are not unique per owner. The import engine treats an exact name
// match as identity within one import batch only.
type Friend struct {
	// ID is the unique identifier for the friend (UUID format).
	ID string

	// OwnerID is the user this friend belongs to.
	OwnerID string

	// Name is the display name. Never empty.
	Name string

	// Relation is a free-text label such as "친구" or "직장동료".
	Relation string

	// CreatedAt is the Unix timestamp when the friend was created.
	CreatedAt int64
}
