package scorehandlers

import (
	"errors"
	"log/slog"
	"time"

	scoreservice "github.com/brett-phillips/ELO/app/modules/score/application"
	scoreevents "github.com/brett-phillips/ELO/app/modules/score/domain/events"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/handlerwrapper"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"go.opentelemetry.io/otel/trace"
)

// ScoreHandlers implements the Handlers interface.
type ScoreHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewScoreHandlers creates a new ScoreHandlers.
func NewScoreHandlers(
	service scoreservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &ScoreHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

var errUnknownResult = errors.New("service returned an empty result")

// scope identifies where a result is routed: the guild for administrative
// commands, the channel for game results.
type scope struct {
	guildID   sharedtypes.GuildID
	channelID sharedtypes.ChannelID
}

// outcome maps a service result to a success or failure message. Infrastructure
// errors are returned so the router retries.
func outcome[S any](
	res results.OperationResult[S, error],
	err error,
	failedTopic string,
	sc scope,
	onSuccess func(S) []handlerwrapper.Result,
) ([]handlerwrapper.Result, error) {
	if err != nil {
		return nil, err
	}
	if res.Failure != nil {
		return []handlerwrapper.Result{failed(failedTopic, sc, *res.Failure)}, nil
	}
	if res.Success == nil {
		return nil, errUnknownResult
	}
	return onSuccess(*res.Success), nil
}

func failed(topic string, sc scope, err error) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: topic,
		Payload: &scoreevents.FailedPayloadV1{
			GuildID:   sc.guildID,
			ChannelID: sc.channelID,
			Kind:      apperrors.Kind(err),
			Reason:    err.Error(),
		},
		Metadata: sc.metadata(),
	}
}

func succeeded(topic string, sc scope, payload any) handlerwrapper.Result {
	return handlerwrapper.Result{Topic: topic, Payload: payload, Metadata: sc.metadata()}
}

func (sc scope) metadata() map[string]string {
	md := map[string]string{}
	if sc.guildID != "" {
		md["guild_id"] = string(sc.guildID)
	}
	if sc.channelID != "" {
		md["channel_id"] = string(sc.channelID)
	}
	return md
}

func secondsToDuration(s *int64) *time.Duration {
	if s == nil {
		return nil
	}
	d := time.Duration(*s) * time.Second
	return &d
}

func durationToSeconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(d.Seconds())
	return &s
}

func toPlayerPayload(p *sharedtypes.Player) *scoreevents.PlayerPayloadV1 {
	return &scoreevents.PlayerPayloadV1{
		GuildID:     p.GuildID,
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Points:      p.Points,
		Wins:        p.Wins,
		Losses:      p.Losses,
		Draws:       p.Draws,
		Kills:       p.Kills,
		Deaths:      p.Deaths,
	}
}

func toCompetitionPayload(c *sharedtypes.Competition) *scoreevents.CompetitionPayloadV1 {
	return &scoreevents.CompetitionPayloadV1{
		GuildID:              c.GuildID,
		DefaultRegisterScore: c.DefaultRegisterScore,
		DefaultWinModifier:   c.DefaultWinModifier,
		DefaultLossModifier:  c.DefaultLossModifier,
		AllowNegativeScore:   c.AllowNegativeScore,
		AllowMultiQueueing:   c.AllowMultiQueueing,
		RequeueDelaySeconds:  durationToSeconds(c.RequeueDelay),
		QueueTimeoutSeconds:  durationToSeconds(c.QueueTimeout),
	}
}

func toRankPayload(r *sharedtypes.Rank) *scoreevents.RankPayloadV1 {
	return &scoreevents.RankPayloadV1{
		GuildID:         r.GuildID,
		RoleID:          r.RoleID,
		PointsThreshold: r.PointsThreshold,
		WinModifier:     r.WinModifier,
		LossModifier:    r.LossModifier,
	}
}
