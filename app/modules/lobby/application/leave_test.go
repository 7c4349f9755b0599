package lobbyservice

import (
	"context"
	"testing"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobbyService_Leave(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedLobby(2, sharedtypes.PickOne, "A", "B")
	successOf(t, env.join(t, "A"))
	successOf(t, env.join(t, "B"))

	res, err := env.svc.Leave(context.Background(), testChannel, "A")
	require.NoError(t, err)
	got := successOf(t, res)

	assert.Equal(t, 1, got.Queued)
	assert.Equal(t, []sharedtypes.UserID{"B"}, env.repo.QueuedIDs(testChannel))
}

func TestLobbyService_Leave_NotQueued(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedLobby(2, sharedtypes.PickOne, "A")

	res, err := env.svc.Leave(context.Background(), testChannel, "A")
	require.NoError(t, err)
	failure := failureOf(t, res)
	assert.ErrorIs(t, failure, lobbydomain.ErrNotQueued)
	assert.Equal(t, "not_found", apperrors.Kind(failure))
}

func TestLobbyService_Leave_RefusedWhilePicking(t *testing.T) {
	env := pickingEnv(t, sharedtypes.PickOne)
	before := env.repo.QueuedIDs(testChannel)

	res, err := env.svc.Leave(context.Background(), testChannel, "C")
	require.NoError(t, err)
	failure := failureOf(t, res)

	assert.ErrorIs(t, failure, lobbydomain.ErrDraftInProgress)
	assert.Equal(t, "state", apperrors.Kind(failure))
	assert.Equal(t, before, env.repo.QueuedIDs(testChannel))
	assert.Equal(t, []sharedtypes.UserID{"C", "D"}, before)
}

func TestLobbyService_ForceRemove(t *testing.T) {
	t.Run("removes a queued user", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.seedLobby(2, sharedtypes.PickOne, "A")
		successOf(t, env.join(t, "A"))

		res, err := env.svc.ForceRemove(context.Background(), testChannel, "A")
		require.NoError(t, err)
		assert.Equal(t, 0, successOf(t, res).Queued)
		assert.Empty(t, env.repo.QueuedIDs(testChannel))
	})

	t.Run("refused while picking", func(t *testing.T) {
		env := pickingEnv(t, sharedtypes.PickOne)

		res, err := env.svc.ForceRemove(context.Background(), testChannel, "D")
		require.NoError(t, err)
		assert.ErrorIs(t, failureOf(t, res), lobbydomain.ErrDraftInProgress)
	})

	t.Run("captain mid-draft reports the draft", func(t *testing.T) {
		env := pickingEnv(t, sharedtypes.PickOne)

		res, err := env.svc.ForceRemove(context.Background(), testChannel, "A")
		require.NoError(t, err)
		failure := failureOf(t, res)
		assert.ErrorIs(t, failure, lobbydomain.ErrDraftInProgress)
		assert.Equal(t, "state", apperrors.Kind(failure))
		assert.Equal(t, []sharedtypes.UserID{"C", "D"}, env.repo.QueuedIDs(testChannel))

		leave, err := env.svc.Leave(context.Background(), testChannel, "A")
		require.NoError(t, err)
		assert.ErrorIs(t, failureOf(t, leave), lobbydomain.ErrNotQueued, "Leave keeps its not-queued check first")
	})
}

func TestLobbyService_Leave_AfterGameReadyAllowsRequeue(t *testing.T) {
	env := pickingEnv(t, sharedtypes.PickOne)
	res, err := env.svc.Pick(context.Background(), testChannel, "A", []sharedtypes.UserID{"C"})
	require.NoError(t, err)
	require.True(t, successOf(t, res).Outcome.Complete)

	successOf(t, env.join(t, "E"))
	out, err := env.svc.Leave(context.Background(), testChannel, "E")
	require.NoError(t, err)
	successOf(t, out)
}
