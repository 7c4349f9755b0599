package lobbyservice

import (
	"context"
	"testing"
	"time"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobbyService_ForceJoin_BypassesJoinRestrictions(t *testing.T) {
	env := newTestEnv(t, nil)
	l := env.seedLobby(2, sharedtypes.PickOne, "A", "B")
	m := 5000
	l.MinimumPoints = &m
	env.repo.SeedLobby(l)
	env.repo.SeedBan(sharedtypes.Ban{GuildID: testGuild, UserID: "A", TimeOfBan: testNow, Length: time.Hour})

	res, err := env.svc.ForceJoin(context.Background(), testChannel, []sharedtypes.UserID{"A", "B", "A", "ghost"})
	require.NoError(t, err)
	got := successOf(t, res)

	assert.Equal(t, []sharedtypes.UserID{"A", "B"}, got.Added)
	assert.Equal(t, SkipNotRegistered, got.Skipped["ghost"])
	assert.Equal(t, SkipAlreadyQueued, got.Skipped["A"])
	assert.Equal(t, 2, got.Queued)
	assert.Nil(t, got.Draft)
}

func TestLobbyService_ForceJoin_FillsAndStartsDraft(t *testing.T) {
	env := newTestEnv(t, lobbydomain.FixedSelector{Captain1: "A", Captain2: "B"})
	env.seedLobby(2, sharedtypes.PickOne, "A", "B", "C", "D", "E")

	res, err := env.svc.ForceJoin(context.Background(), testChannel, []sharedtypes.UserID{"A", "B", "C", "D", "E"})
	require.NoError(t, err)
	got := successOf(t, res)

	assert.Len(t, got.Added, 4)
	assert.Equal(t, SkipQueueFull, got.Skipped["E"])
	require.NotNil(t, got.Draft)
	assert.Equal(t, []sharedtypes.UserID{"C", "D"}, got.Draft.Pool)
	assert.Contains(t, env.notifier.Kinds(), sharedtypes.NotificationDraftStarted)
}

func TestLobbyService_ForceJoin_Refusals(t *testing.T) {
	t.Run("draft in progress", func(t *testing.T) {
		env := pickingEnv(t, sharedtypes.PickOne)

		res, err := env.svc.ForceJoin(context.Background(), testChannel, []sharedtypes.UserID{"E"})
		require.NoError(t, err)
		assert.ErrorIs(t, failureOf(t, res), lobbydomain.ErrDraftInProgress)
	})

	t.Run("queue already full", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.seedLobby(1, sharedtypes.PickOne, "A")
		env.repo.SeedQueued(sharedtypes.QueuedPlayer{GuildID: testGuild, ChannelID: testChannel, UserID: "x", QueuedAt: testNow})
		env.repo.SeedQueued(sharedtypes.QueuedPlayer{GuildID: testGuild, ChannelID: testChannel, UserID: "y", QueuedAt: testNow})

		res, err := env.svc.ForceJoin(context.Background(), testChannel, []sharedtypes.UserID{"A"})
		require.NoError(t, err)
		assert.Equal(t, "capacity", apperrors.Kind(failureOf(t, res)))
	})

	t.Run("no users", func(t *testing.T) {
		env := newTestEnv(t, nil)

		res, err := env.svc.ForceJoin(context.Background(), testChannel, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, failureOf(t, res), ErrNoUsers)
	})
}
