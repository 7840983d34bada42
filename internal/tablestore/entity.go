package tablestore

import "errors"

// Logical tables backing the signup board. Client construction is restricted
// to these names.
const (
	TableActivities  = "activities"
	TableSignups     = "signups"
	TableUnavailable = "unavailable"
)

var (
	// ErrNotFound signals that no row exists for a (partition key, row key) pair.
	ErrNotFound = errors.New("entity not found")
	// ErrConflict signals an insert against an already occupied key pair.
	ErrConflict = errors.New("entity already exists")
	// ErrUnknownTable signals a client request for a table outside the fixed set.
	ErrUnknownTable = errors.New("unknown logical table")
)

// Entity is one schemaless row: a two-part key plus a bag of attributes.
type Entity struct {
	PartitionKey string
	RowKey       string
	Attributes   map[string]any
}
