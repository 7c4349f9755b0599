package lobbyservice

import (
	"context"
	"errors"
	"testing"
	"time"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/observability"
	"github.com/brett-phillips/ELO/app/shared/observability/metrics"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	testGuild   = sharedtypes.GuildID("guild-1")
	testChannel = sharedtypes.ChannelID("chan-1")
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	svc      *LobbyService
	repo     *FakeLobbyRepository
	notifier *FakeNotifier
	clock    *time.Time
}

func newTestEnv(t *testing.T, selector lobbydomain.CaptainSelector) *testEnv {
	t.Helper()
	repo := NewFakeLobbyRepository()
	notifier := &FakeNotifier{}
	now := testNow
	env := &testEnv{repo: repo, notifier: notifier, clock: &now}
	if selector == nil {
		selector = lobbydomain.NewModeSelector(1)
	}
	env.svc = NewLobbyService(
		repo,
		notifier,
		selector,
		NewCooldownCache(time.Hour),
		observability.NoOpLogger,
		metrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
		WithClock(func() time.Time { return *env.clock }),
	)
	return env
}

func (e *testEnv) advance(d time.Duration) { *e.clock = e.clock.Add(d) }

// seedLobby creates a lobby with playersPerTeam and registers users.
func (e *testEnv) seedLobby(playersPerTeam int, order sharedtypes.PickOrder, users ...sharedtypes.UserID) sharedtypes.Lobby {
	l := *sharedtypes.NewLobby(testGuild, testChannel)
	l.PlayersPerTeam = playersPerTeam
	l.PickOrder = order
	e.repo.SeedLobby(l)
	for _, u := range users {
		e.repo.SeedPlayer(sharedtypes.Player{GuildID: testGuild, UserID: u, Points: 1000})
	}
	return l
}

func (e *testEnv) join(t *testing.T, user sharedtypes.UserID) JoinOutcome {
	t.Helper()
	res, err := e.svc.Join(context.Background(), testChannel, user)
	require.NoError(t, err)
	return res
}

// failureOf asserts a domain failure and returns it.
func failureOf[S any](t *testing.T, res results.OperationResult[S, error]) error {
	t.Helper()
	require.True(t, res.IsFailure(), "expected a failure result, got %+v", res.Success)
	return *res.Failure
}

// successOf asserts success and returns the payload.
func successOf[S any](t *testing.T, res results.OperationResult[S, error]) S {
	t.Helper()
	if res.IsFailure() {
		t.Fatalf("expected success, got failure: %v", *res.Failure)
	}
	require.True(t, res.IsSuccess())
	return *res.Success
}

func TestLobbyService_PanicIsRecovered(t *testing.T) {
	env := newTestEnv(t, nil)
	env.repo.LockLobbyFunc = func(context.Context, bun.IDB, sharedtypes.ChannelID) (*sharedtypes.Lobby, error) {
		panic("boom")
	}

	res, err := env.svc.Join(context.Background(), testChannel, "A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in Join")
	assert.False(t, res.IsSuccess())
	assert.False(t, res.IsFailure())
}

func TestLobbyService_InfrastructureErrorIsReturned(t *testing.T) {
	env := newTestEnv(t, nil)
	dbErr := errors.New("connection reset")
	env.repo.LockLobbyFunc = func(context.Context, bun.IDB, sharedtypes.ChannelID) (*sharedtypes.Lobby, error) {
		return nil, dbErr
	}

	_, err := env.svc.Leave(context.Background(), testChannel, "A")
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "Leave:")
}

func TestLobbyService_UnknownLobby(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.svc.Join(context.Background(), "nope", "A")
	require.NoError(t, err)
	failure := failureOf(t, res)
	assert.ErrorIs(t, failure, lobbydomain.ErrLobbyNotFound)
	assert.Equal(t, "not_found", apperrors.Kind(failure))
}

// pickingEnv returns a lobby of two per team whose draft has started with
// captains A and B and pool C, D.
func pickingEnv(t *testing.T, order sharedtypes.PickOrder) *testEnv {
	t.Helper()
	env := newTestEnv(t, lobbydomain.FixedSelector{Captain1: "A", Captain2: "B"})
	env.seedLobby(2, order, "A", "B", "C", "D", "E")
	for _, u := range []sharedtypes.UserID{"A", "B", "C", "D"} {
		env.advance(time.Second)
		successOf(t, env.join(t, u))
	}
	require.Equal(t, sharedtypes.GameStatePicking, env.repo.Games(testChannel)[0].State)
	return env
}
