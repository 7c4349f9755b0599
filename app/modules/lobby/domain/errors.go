package lobbydomain

import "errors"

// Queue admission.
var (
	ErrLobbyNotFound        = errors.New("channel is not a lobby")
	ErrLobbyExists          = errors.New("channel is already a lobby")
	ErrNotRegistered        = errors.New("user is not registered")
	ErrBanned               = errors.New("user is banned from queueing")
	ErrQueueFull            = errors.New("queue is full")
	ErrMultiQueueDisallowed = errors.New("user is already queued in another lobby")
	ErrBelowMinimum         = errors.New("user is below the lobby's minimum points")
	ErrDraftInProgress      = errors.New("lobby is currently picking teams")
	ErrCooldownActive       = errors.New("requeue delay has not elapsed")
	ErrNotQueued            = errors.New("user is not queued")
	ErrAlreadyQueued        = errors.New("user is already queued")
)

// Drafting.
var (
	ErrNoGame            = errors.New("lobby has no game")
	ErrGameNotFound      = errors.New("game not found")
	ErrNotPicking        = errors.New("game is not picking teams")
	ErrNotCaptain        = errors.New("user is not a captain of this game")
	ErrNotYourTurn       = errors.New("it is not this captain's turn to pick")
	ErrDuplicatePick     = errors.New("the same user was selected more than once")
	ErrWrongPickCount    = errors.New("wrong number of players picked for this turn")
	ErrNotInPool         = errors.New("user is not queued for this game")
	ErrAlreadyPicked     = errors.New("user is already on a team or is a captain")
	ErrNotEnoughQueued   = errors.New("not enough queued players to select captains")
	ErrInvalidTransition = errors.New("invalid game state transition")
)

// Substitution and settings.
var (
	ErrSubNotAllowed   = errors.New("game is no longer accepting substitutions")
	ErrAlreadyInGame   = errors.New("replacement is already in this game")
	ErrUserNotInGame   = errors.New("user is not part of this game")
	ErrInvalidSettings = errors.New("invalid lobby settings")
)
