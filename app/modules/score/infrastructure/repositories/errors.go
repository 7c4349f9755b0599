package scoredb

import "errors"

// Sentinel errors for the repository layer.
// These are infrastructure-level signals; the service layer decides whether
// they are domain failures.
var (
	// ErrNotFound indicates the requested player, rank or competition does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoRowsAffected indicates an UPDATE or DELETE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrAlreadyExists indicates an insert collided with an existing row.
	ErrAlreadyExists = errors.New("already exists")
)
