package scoreservice

import "errors"

var (
	ErrMissingGuild   = errors.New("guild id is required")
	ErrMissingChannel = errors.New("channel id is required")
	ErrMissingUser    = errors.New("user id is required")
	ErrMissingRole    = errors.New("role id is required")
	ErrNoUsers        = errors.New("at least one user id is required")
	ErrMissingGame    = errors.New("game id is required")
)
