package lobbydb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested lobby or game does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoRowsAffected indicates an UPDATE/DELETE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrAlreadyExists indicates an insert collided with an existing row.
	ErrAlreadyExists = errors.New("already exists")
)
