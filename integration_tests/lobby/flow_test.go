//go:build integration

package lobby_integration_tests

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	scoreservice "github.com/brett-phillips/ELO/app/modules/score/application"
	scoredb "github.com/brett-phillips/ELO/app/modules/score/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/observability"
	"github.com/brett-phillips/ELO/app/shared/observability/metrics"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const testGuild = sharedtypes.GuildID("guild-int")

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sharedtypes.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note sharedtypes.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
	return nil
}

type services struct {
	lobby    *lobbyservice.LobbyService
	score    *scoreservice.ScoreService
	players  scoredb.Repository
	notifier *recordingNotifier
}

func newServices(t *testing.T) services {
	t.Helper()
	require.NoError(t, testEnv.CleanupDatabase(testEnv.Ctx))

	tracer := noop.NewTracerProvider().Tracer("test")
	notifier := &recordingNotifier{}
	games := lobbydb.NewRepository(testEnv.DB)
	players := scoredb.NewRepository(testEnv.DB)

	return services{
		lobby: lobbyservice.NewLobbyService(
			games,
			notifier,
			lobbydomain.FixedSelector{Captain1: "A", Captain2: "B"},
			lobbyservice.NewCooldownCache(time.Hour),
			observability.NoOpLogger,
			metrics.NoOpMetrics{},
			tracer,
			testEnv.DB,
		),
		score:    scoreservice.NewScoreService(players, games, notifier, observability.NoOpLogger, metrics.NoOpMetrics{}, tracer, testEnv.DB),
		players:  players,
		notifier: notifier,
	}
}

func (s services) setup(t *testing.T, ctx context.Context, perTeam int, users ...sharedtypes.UserID) {
	t.Helper()
	registerScore := 100
	res, err := s.score.UpdateCompetition(ctx, testGuild, scoreservice.CompetitionUpdate{DefaultRegisterScore: &registerScore})
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	lobby := sharedtypes.NewLobby(testGuild, "chan-int")
	lobby.PlayersPerTeam = perTeam
	lobby.PickOrder = sharedtypes.PickOne
	lres, err := s.lobby.CreateLobby(ctx, lobby)
	require.NoError(t, err)
	require.True(t, lres.IsSuccess())

	for _, u := range users {
		pres, err := s.score.RegisterPlayer(ctx, testGuild, u, string(u))
		require.NoError(t, err)
		require.True(t, pres.IsSuccess())
	}
}

func TestQueueDraftAndReport(t *testing.T) {
	ctx := testEnv.Ctx
	s := newServices(t)
	s.setup(t, ctx, 2, "A", "B", "C", "D")

	var filled *lobbyservice.JoinResult
	for _, u := range []sharedtypes.UserID{"A", "B", "C", "D"} {
		res, err := s.lobby.Join(ctx, "chan-int", u)
		require.NoError(t, err)
		require.True(t, res.IsSuccess(), "join %s failed: %v", u, res.Failure)
		filled = *res.Success
	}
	require.True(t, filled.QueueFull)
	require.NotNil(t, filled.Draft)
	assert.Equal(t, sharedtypes.GameStatePicking, filled.Draft.Game.State)
	gameID := filled.Draft.Game.GameID

	pick, err := s.lobby.Pick(ctx, "chan-int", "A", []sharedtypes.UserID{"C"})
	require.NoError(t, err)
	require.True(t, pick.IsSuccess(), "pick failed: %v", pick.Failure)
	draft := (*pick.Success).Draft
	require.True(t, draft.Complete)
	assert.ElementsMatch(t, []sharedtypes.UserID{"A", "C"}, draft.Teams[sharedtypes.TeamOne])
	assert.ElementsMatch(t, []sharedtypes.UserID{"B", "D"}, draft.Teams[sharedtypes.TeamTwo])

	report, err := s.score.ReportResult(ctx, "chan-int", gameID, sharedtypes.TeamOne)
	require.NoError(t, err)
	require.True(t, report.IsSuccess(), "report failed: %v", report.Failure)

	want := map[sharedtypes.UserID]int{"A": 110, "C": 110, "B": 95, "D": 95}
	for u, points := range want {
		p, err := s.players.GetPlayer(ctx, testEnv.DB, testGuild, u)
		require.NoError(t, err)
		assert.Equal(t, points, p.Points, "points for %s", u)
	}

	s.notifier.mu.Lock()
	var kinds []sharedtypes.NotificationKind
	for _, n := range s.notifier.sent {
		kinds = append(kinds, n.Kind)
	}
	s.notifier.mu.Unlock()
	assert.Contains(t, kinds, sharedtypes.NotificationDraftStarted)
	assert.Contains(t, kinds, sharedtypes.NotificationGameReady)
	assert.Contains(t, kinds, sharedtypes.NotificationResultReported)

	again, err := s.score.ReportResult(ctx, "chan-int", gameID, sharedtypes.TeamTwo)
	require.NoError(t, err)
	require.True(t, again.IsFailure(), "a decided game cannot be reported twice")
}

func TestConcurrentJoinsNeverOverfill(t *testing.T) {
	ctx := testEnv.Ctx
	s := newServices(t)

	users := make([]sharedtypes.UserID, 12)
	for i := range users {
		users[i] = sharedtypes.UserID(fmt.Sprintf("u%02d", i))
	}
	s.setup(t, ctx, 2, users...)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		drafts    int
	)
	for _, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.lobby.Join(ctx, "chan-int", u)
			if !assert.NoError(t, err) || !res.IsSuccess() {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			successes++
			if (*res.Success).Draft != nil {
				drafts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, successes)
	assert.Equal(t, 1, drafts)

	count, err := testEnv.DB.NewSelect().Table("games").Where("channel_id = ?", "chan-int").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestConcurrentJoinsAcrossLobbiesWithoutMultiQueue(t *testing.T) {
	ctx := testEnv.Ctx
	s := newServices(t)
	s.setup(t, ctx, 5, "X")

	multi := false
	res, err := s.score.UpdateCompetition(ctx, testGuild, scoreservice.CompetitionUpdate{AllowMultiQueueing: &multi})
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	channels := []sharedtypes.ChannelID{"chan-int"}
	for i := range 4 {
		ch := sharedtypes.ChannelID(fmt.Sprintf("chan-extra-%d", i))
		lres, err := s.lobby.CreateLobby(ctx, sharedtypes.NewLobby(testGuild, ch))
		require.NoError(t, err)
		require.True(t, lres.IsSuccess())
		channels = append(channels, ch)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, ch := range channels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.lobby.Join(ctx, ch, "X")
			if !assert.NoError(t, err) || !res.IsSuccess() {
				return
			}
			mu.Lock()
			successes++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	count, err := testEnv.DB.NewSelect().Table("queued_players").Where("user_id = ?", "X").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
