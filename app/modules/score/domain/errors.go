package scoredomain

import "errors"

var (
	ErrUnknownOutcome    = errors.New("unknown outcome")
	ErrUnknownStat       = errors.New("unknown stat")
	ErrUnknownModifyMode = errors.New("unknown modify mode")

	ErrPlayerNotRegistered = errors.New("player is not registered")
	ErrAlreadyRegistered   = errors.New("player is already registered")
	ErrLobbyNotFound       = errors.New("lobby not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrGameNotUndecided    = errors.New("game is not awaiting a result")
	ErrInvalidTeam         = errors.New("winning team must be 1 or 2")
	ErrRankNotFound        = errors.New("rank not found")
	ErrInvalidCompetition  = errors.New("invalid competition settings")
)
