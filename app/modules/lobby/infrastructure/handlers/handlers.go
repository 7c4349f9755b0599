package lobbyhandlers

import (
	"errors"
	"log/slog"

	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	lobbyevents "github.com/brett-phillips/ELO/app/modules/lobby/domain/events"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"go.opentelemetry.io/otel/trace"
)

// KindRateLimited marks a command dropped by the per-user rate limit.
const KindRateLimited = "rate_limited"

// LobbyHandlers implements the Handlers interface.
type LobbyHandlers struct {
	service lobbyservice.Service
	limiter *UserRateLimiter
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLobbyHandlers creates a new LobbyHandlers. A nil limiter disables rate limiting.
func NewLobbyHandlers(
	service lobbyservice.Service,
	limiter *UserRateLimiter,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LobbyHandlers{
		service: service,
		limiter: limiter,
		logger:  logger,
		tracer:  tracer,
	}
}

// errUnknownResult is returned when a service call yields neither success nor failure.
var errUnknownResult = errors.New("service returned an empty result")

// outcome maps a service result to a success or failure message. Infrastructure
// errors are returned so the router retries.
func outcome[S any](
	res results.OperationResult[S, error],
	err error,
	failedTopic string,
	channelID sharedtypes.ChannelID,
	userID sharedtypes.UserID,
	onSuccess func(S) []handlerwrapper.Result,
) ([]handlerwrapper.Result, error) {
	if err != nil {
		return nil, err
	}
	if res.Failure != nil {
		return []handlerwrapper.Result{failed(failedTopic, channelID, userID, *res.Failure)}, nil
	}
	if res.Success == nil {
		return nil, errUnknownResult
	}
	return onSuccess(*res.Success), nil
}

func failed(topic string, channelID sharedtypes.ChannelID, userID sharedtypes.UserID, err error) handlerwrapper.Result {
	payload := &lobbyevents.FailedPayloadV1{
		ChannelID: channelID,
		UserID:    userID,
		Kind:      apperrors.Kind(err),
		Reason:    err.Error(),
	}
	var cooldown *apperrors.CooldownError
	if errors.As(err, &cooldown) {
		payload.RetryAfterSeconds = int(cooldown.Remaining.Seconds() + 0.5)
	}
	return handlerwrapper.Result{Topic: topic, Payload: payload, Metadata: channelMetadata(channelID)}
}

func rateLimited(topic string, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: topic,
		Payload: &lobbyevents.FailedPayloadV1{
			ChannelID: channelID,
			UserID:    userID,
			Kind:      KindRateLimited,
			Reason:    "too many commands, slow down",
		},
		Metadata: channelMetadata(channelID),
	}
}

func succeeded(topic string, channelID sharedtypes.ChannelID, payload any) handlerwrapper.Result {
	return handlerwrapper.Result{Topic: topic, Payload: payload, Metadata: channelMetadata(channelID)}
}

func channelMetadata(channelID sharedtypes.ChannelID) map[string]string {
	return map[string]string{"channel_id": string(channelID)}
}

// draftResults appends a game ready announcement when the draft finished.
func draftResults(out []handlerwrapper.Result, v *lobbyservice.DraftView) []handlerwrapper.Result {
	if v == nil || !v.Complete {
		return out
	}
	return append(out, succeeded(lobbyevents.GameReadyV1, v.Game.ChannelID, &lobbyevents.GameReadyPayloadV1{Draft: *toDraftPayload(v)}))
}

func toDraftPayload(v *lobbyservice.DraftView) *lobbyevents.DraftPayloadV1 {
	if v == nil {
		return nil
	}
	return &lobbyevents.DraftPayloadV1{
		GuildID:       v.Game.GuildID,
		ChannelID:     v.Game.ChannelID,
		GameID:        v.Game.GameID,
		State:         v.Game.State,
		PickOrder:     v.Game.PickOrder,
		Captain1:      v.Captains[sharedtypes.TeamOne],
		Captain2:      v.Captains[sharedtypes.TeamTwo],
		Team1:         v.Teams[sharedtypes.TeamOne],
		Team2:         v.Teams[sharedtypes.TeamTwo],
		Pool:          v.Pool,
		Turn:          v.Turn,
		RequiredPicks: v.RequiredPicks,
		Complete:      v.Complete,
	}
}

func toLobbyPayload(l *sharedtypes.Lobby) *lobbyevents.LobbyPayloadV1 {
	return &lobbyevents.LobbyPayloadV1{
		GuildID:        l.GuildID,
		ChannelID:      l.ChannelID,
		Description:    l.Description,
		PlayersPerTeam: l.PlayersPerTeam,
		PickMode:       l.PickMode,
		PickOrder:      l.PickOrder,
		MinimumPoints:  l.MinimumPoints,
		HideQueue:      l.HideQueue,
	}
}
