package lobbyservice

import (
	"context"
	"testing"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobbyService_ClearQueue(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedLobby(2, sharedtypes.PickOne, "A", "B")
	successOf(t, env.join(t, "A"))
	successOf(t, env.join(t, "B"))

	res, err := env.svc.ClearQueue(context.Background(), testChannel)
	require.NoError(t, err)
	got := successOf(t, res)

	assert.Equal(t, 2, got.Removed)
	assert.Nil(t, got.CanceledGame)
	assert.Empty(t, env.repo.QueuedIDs(testChannel))
}

func TestLobbyService_ClearQueue_CancelsDraft(t *testing.T) {
	env := pickingEnv(t, sharedtypes.PickOne)

	res, err := env.svc.ClearQueue(context.Background(), testChannel)
	require.NoError(t, err)
	got := successOf(t, res)

	require.NotNil(t, got.CanceledGame)
	assert.Equal(t, sharedtypes.GameID(1), *got.CanceledGame)
	assert.Equal(t, sharedtypes.GameStateCanceled, env.repo.Games(testChannel)[0].State)
	assert.Empty(t, env.repo.QueuedIDs(testChannel))

	// The lobby accepts joins again.
	successOf(t, env.join(t, "E"))
}

func TestLobbyService_ClearQueue_LeavesUndecidedGame(t *testing.T) {
	env := pickingEnv(t, sharedtypes.PickOne)
	_, err := env.svc.Pick(context.Background(), testChannel, "A", []sharedtypes.UserID{"C"})
	require.NoError(t, err)

	res, err := env.svc.ClearQueue(context.Background(), testChannel)
	require.NoError(t, err)

	assert.Nil(t, successOf(t, res).CanceledGame)
	assert.Equal(t, sharedtypes.GameStateUndecided, env.repo.Games(testChannel)[0].State)
}
