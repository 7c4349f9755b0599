package lobbyservice

import (
	"slices"
	"sync"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/puzpuzpuz/xsync/v3"
)

// LobbyLocks hands out one mutex per lobby. Mutexes are never removed, so
// two callers can never hold different locks for the same channel.
type LobbyLocks struct {
	m *xsync.MapOf[sharedtypes.ChannelID, *sync.Mutex]
}

func NewLobbyLocks() *LobbyLocks {
	return &LobbyLocks{m: xsync.NewMapOf[sharedtypes.ChannelID, *sync.Mutex]()}
}

// Lock blocks until channelID's mutex is held and returns its unlock func.
func (l *LobbyLocks) Lock(channelID sharedtypes.ChannelID) func() {
	mu, _ := l.m.LoadOrCompute(channelID, func() *sync.Mutex { return &sync.Mutex{} })
	mu.Lock()
	return mu.Unlock
}

// LockAll locks several lobbies in channel order and returns one unlock func.
func (l *LobbyLocks) LockAll(channelIDs []sharedtypes.ChannelID) func() {
	ids := slices.Clone(channelIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	unlocks := make([]func(), 0, len(ids))
	for _, id := range ids {
		unlocks = append(unlocks, l.Lock(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}
