package scoreservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	scoredb "github.com/brett-phillips/ELO/app/modules/score/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	"github.com/brett-phillips/ELO/app/shared/observability/metrics"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "ScoreService"

// ScoreService implements the Service interface.
type ScoreService struct {
	repo     scoredb.Repository
	games    GameStore
	notifier Notifier
	logger   *slog.Logger
	metrics  metrics.Metrics
	tracer   trace.Tracer
	db       *bun.DB

	now       func() time.Time
	dbTimeout time.Duration
}

// Option customizes a ScoreService.
type Option func(*ScoreService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *ScoreService) { s.now = now }
}

// WithDBTimeout bounds each transaction. Zero disables the bound.
func WithDBTimeout(d time.Duration) Option {
	return func(s *ScoreService) { s.dbTimeout = d }
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	repo scoredb.Repository,
	games GameStore,
	notifier Notifier,
	logger *slog.Logger,
	m metrics.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *ScoreService {
	s := &ScoreService{
		repo:      repo,
		games:     games,
		notifier:  notifier,
		logger:    logger,
		metrics:   m,
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

var _ Service = (*ScoreService)(nil)

type operationFunc[S any] func(ctx context.Context) (results.OperationResult[S, error], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
// scope is the guild or channel the operation acts on.
func withTelemetry[S any](
	s *ScoreService,
	ctx context.Context,
	operationName string,
	scope attribute.KeyValue,
	op operationFunc[S],
) (result results.OperationResult[S, error], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		scope,
	))
	defer span.End()

	scopeAttr := attr.String(string(scope.Key), scope.Value.Emit())

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				scopeAttr,
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
			scopeAttr,
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
			scopeAttr,
			attr.String("failure_kind", apperrors.Kind(failure)),
			attr.Error(failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			scopeAttr,
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any](
	s *ScoreService,
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

func fail[S any](err error) (results.OperationResult[S, error], error) {
	return results.FailureResult[S](err), nil
}

func guildScope(id sharedtypes.GuildID) attribute.KeyValue {
	return attribute.String("guild_id", string(id))
}

func channelScope(id sharedtypes.ChannelID) attribute.KeyValue {
	return attribute.String("channel_id", string(id))
}

// competition returns the guild's settings, or defaults when none are saved.
func (s *ScoreService) competition(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*sharedtypes.Competition, error) {
	c, err := s.repo.GetCompetition(ctx, db, guildID)
	if errors.Is(err, scoredb.ErrNotFound) {
		return sharedtypes.NewCompetition(guildID), nil
	}
	return c, err
}

func (s *ScoreService) dispatch(ctx context.Context, notes []sharedtypes.Notification) {
	if s.notifier == nil {
		return
	}
	for _, n := range notes {
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.WarnContext(ctx, "Failed to deliver notification",
				attr.ExtractCorrelationID(ctx),
				attr.String("kind", string(n.Kind)),
				attr.ChannelID(n.ChannelID),
				attr.Error(err),
			)
		}
	}
}
