package lobbyservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	lobbymetrics "github.com/brett-phillips/ELO/app/shared/observability/metrics"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "LobbyService"

// LobbyService implements the Service interface.
type LobbyService struct {
	repo      lobbydb.Repository
	notifier  Notifier
	selector  lobbydomain.CaptainSelector
	cooldowns *CooldownCache
	locks     *LobbyLocks
	logger    *slog.Logger
	metrics   lobbymetrics.LobbyMetrics
	tracer    trace.Tracer
	db        *bun.DB

	now       func() time.Time
	dbTimeout time.Duration
	sweeping  atomic.Bool
}

// Option customizes a LobbyService.
type Option func(*LobbyService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *LobbyService) { s.now = now }
}

// WithDBTimeout bounds each transaction. Zero disables the bound.
func WithDBTimeout(d time.Duration) Option {
	return func(s *LobbyService) { s.dbTimeout = d }
}

// NewLobbyService creates a new LobbyService.
func NewLobbyService(
	repo lobbydb.Repository,
	notifier Notifier,
	selector lobbydomain.CaptainSelector,
	cooldowns *CooldownCache,
	logger *slog.Logger,
	metrics lobbymetrics.LobbyMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *LobbyService {
	s := &LobbyService{
		repo:      repo,
		notifier:  notifier,
		selector:  selector,
		cooldowns: cooldowns,
		locks:     NewLobbyLocks(),
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		now:       func() time.Time { return time.Now().UTC() },
		dbTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Service = (*LobbyService)(nil)

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any](
	s *LobbyService,
	ctx context.Context,
	operationName string,
	channelID sharedtypes.ChannelID,
	op operationFunc[S, error],
) (result results.OperationResult[S, error], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("channel_id", string(channelID)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ChannelID(channelID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, error]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.ChannelID(channelID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		failure := *result.Failure
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.ChannelID(channelID),
			attr.String("failure_kind", apperrors.Kind(failure)),
			attr.Error(failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.ChannelID(channelID),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any](
	s *LobbyService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error),
) (results.OperationResult[S, error], error) {
	if s.dbTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.dbTimeout)
		defer cancel()
	}

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, error]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// inLobby serializes fn against every other mutation of channelID: the
// in-process lock covers this replica and LockLobby's row lock covers the rest.
func inLobby[S any](
	s *LobbyService,
	ctx context.Context,
	channelID sharedtypes.ChannelID,
	fn func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (results.OperationResult[S, error], error),
) (results.OperationResult[S, error], error) {
	unlock := s.locks.Lock(channelID)
	defer unlock()

	return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error) {
		lobby, err := s.repo.LockLobby(ctx, db, channelID)
		if err != nil {
			if errors.Is(err, lobbydb.ErrNotFound) {
				return results.FailureResult[S](apperrors.NotFound(lobbydomain.ErrLobbyNotFound, string(channelID))), nil
			}
			return results.OperationResult[S, error]{}, err
		}
		return fn(ctx, db, lobby)
	})
}

func fail[S any](err error) (results.OperationResult[S, error], error) {
	return results.FailureResult[S](err), nil
}

// competition returns the guild's settings, or defaults when none are saved.
func (s *LobbyService) competition(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*sharedtypes.Competition, error) {
	c, err := s.repo.GetCompetition(ctx, db, guildID)
	if errors.Is(err, lobbydb.ErrNotFound) {
		return sharedtypes.NewCompetition(guildID), nil
	}
	return c, err
}

// latestGame returns nil when the lobby has never drafted.
func (s *LobbyService) latestGame(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Game, error) {
	g, err := s.repo.GetLatestGame(ctx, db, channelID)
	if errors.Is(err, lobbydb.ErrNotFound) {
		return nil, nil
	}
	return g, err
}

func isPicking(g *sharedtypes.Game) bool {
	return g != nil && g.State == sharedtypes.GameStatePicking
}

func queuedIndex(queue []sharedtypes.QueuedPlayer, userID sharedtypes.UserID) int {
	for i, q := range queue {
		if q.UserID == userID {
			return i
		}
	}
	return -1
}

func queueUserIDs(queue []sharedtypes.QueuedPlayer) []sharedtypes.UserID {
	ids := make([]sharedtypes.UserID, len(queue))
	for i, q := range queue {
		ids[i] = q.UserID
	}
	return ids
}
