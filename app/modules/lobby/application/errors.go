package lobbyservice

import "errors"

var (
	ErrMissingChannel = errors.New("channel id is required")
	ErrMissingUser    = errors.New("user id is required")
	ErrNoUsers        = errors.New("at least one user id is required")
	ErrNilLobby       = errors.New("lobby is required")
)
