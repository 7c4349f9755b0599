package lobbyservice

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Lobby Repo
// ------------------------

type gameKey struct {
	channel sharedtypes.ChannelID
	game    sharedtypes.GameID
}

type playerKey struct {
	guild sharedtypes.GuildID
	user  sharedtypes.UserID
}

// FakeLobbyRepository is an in-memory lobbydb.Repository. Func fields
// override individual methods; otherwise the fake keeps real state so
// multi-step flows can be exercised end to end. Safe for concurrent use.
type FakeLobbyRepository struct {
	mu    sync.Mutex
	trace []string

	lobbies      map[sharedtypes.ChannelID]sharedtypes.Lobby
	queues       map[sharedtypes.ChannelID][]sharedtypes.QueuedPlayer
	games        map[sharedtypes.ChannelID][]sharedtypes.Game
	captains     map[gameKey][]sharedtypes.TeamCaptain
	teams        map[gameKey][]sharedtypes.TeamPlayer
	players      map[playerKey]sharedtypes.Player
	bans         []sharedtypes.Ban
	competitions map[sharedtypes.GuildID]sharedtypes.Competition

	LockLobbyFunc           func(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Lobby, error)
	AddQueuedPlayerFunc     func(ctx context.Context, db bun.IDB, player *sharedtypes.QueuedPlayer) error
	RemoveQueuedPlayersFunc func(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, userIDs []sharedtypes.UserID) (int, error)
	GetActiveBanFunc        func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID, now time.Time) (*sharedtypes.Ban, error)
	ListTimeoutLobbiesFunc  func(ctx context.Context, db bun.IDB) ([]lobbydb.TimeoutLobby, error)
}

// NewFakeLobbyRepository initializes an empty fake.
func NewFakeLobbyRepository() *FakeLobbyRepository {
	return &FakeLobbyRepository{
		trace:        []string{},
		lobbies:      map[sharedtypes.ChannelID]sharedtypes.Lobby{},
		queues:       map[sharedtypes.ChannelID][]sharedtypes.QueuedPlayer{},
		games:        map[sharedtypes.ChannelID][]sharedtypes.Game{},
		captains:     map[gameKey][]sharedtypes.TeamCaptain{},
		teams:        map[gameKey][]sharedtypes.TeamPlayer{},
		players:      map[playerKey]sharedtypes.Player{},
		competitions: map[sharedtypes.GuildID]sharedtypes.Competition{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeLobbyRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLobbyRepository) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

// --- Seeding helpers ---

func (f *FakeLobbyRepository) SeedLobby(l sharedtypes.Lobby) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lobbies[l.ChannelID] = l
}

func (f *FakeLobbyRepository) SeedPlayer(p sharedtypes.Player) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[playerKey{p.GuildID, p.UserID}] = p
}

func (f *FakeLobbyRepository) SeedBan(b sharedtypes.Ban) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bans = append(f.bans, b)
}

func (f *FakeLobbyRepository) SeedCompetition(c sharedtypes.Competition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.competitions[c.GuildID] = c
}

func (f *FakeLobbyRepository) SeedQueued(q sharedtypes.QueuedPlayer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues[q.ChannelID] = append(f.queues[q.ChannelID], q)
}

func (f *FakeLobbyRepository) SeedGame(g sharedtypes.Game) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[g.ChannelID] = append(f.games[g.ChannelID], g)
}

// --- Inspection helpers ---

func (f *FakeLobbyRepository) Queue(channelID sharedtypes.ChannelID) []sharedtypes.QueuedPlayer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.queues[channelID])
}

func (f *FakeLobbyRepository) QueuedIDs(channelID sharedtypes.ChannelID) []sharedtypes.UserID {
	return queueUserIDs(f.Queue(channelID))
}

func (f *FakeLobbyRepository) Games(channelID sharedtypes.ChannelID) []sharedtypes.Game {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.games[channelID])
}

func (f *FakeLobbyRepository) Team(channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, team sharedtypes.TeamNumber) []sharedtypes.UserID {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sharedtypes.UserID
	for _, tp := range f.teams[gameKey{channelID, gameID}] {
		if tp.TeamNumber == team {
			out = append(out, tp.UserID)
		}
	}
	return out
}

func (f *FakeLobbyRepository) Lobby(channelID sharedtypes.ChannelID) (sharedtypes.Lobby, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lobbies[channelID]
	return l, ok
}

// --- Repository Interface Implementation ---

func (f *FakeLobbyRepository) GetLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Lobby, error) {
	f.record("GetLobby")
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lobbies[channelID]
	if !ok {
		return nil, lobbydb.ErrNotFound
	}
	return &l, nil
}

func (f *FakeLobbyRepository) LockLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Lobby, error) {
	f.record("LockLobby")
	if f.LockLobbyFunc != nil {
		return f.LockLobbyFunc(ctx, db, channelID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lobbies[channelID]
	if !ok {
		return nil, lobbydb.ErrNotFound
	}
	return &l, nil
}

func (f *FakeLobbyRepository) CreateLobby(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) error {
	f.record("CreateLobby")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lobbies[lobby.ChannelID]; ok {
		return lobbydb.ErrAlreadyExists
	}
	f.lobbies[lobby.ChannelID] = *lobby
	return nil
}

func (f *FakeLobbyRepository) UpdateLobby(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) error {
	f.record("UpdateLobby")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lobbies[lobby.ChannelID]; !ok {
		return lobbydb.ErrNoRowsAffected
	}
	f.lobbies[lobby.ChannelID] = *lobby
	return nil
}

func (f *FakeLobbyRepository) DeleteLobby(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) error {
	f.record("DeleteLobby")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lobbies[channelID]; !ok {
		return lobbydb.ErrNoRowsAffected
	}
	delete(f.lobbies, channelID)
	delete(f.queues, channelID)
	for _, g := range f.games[channelID] {
		delete(f.captains, gameKey{channelID, g.GameID})
		delete(f.teams, gameKey{channelID, g.GameID})
	}
	delete(f.games, channelID)
	return nil
}

func (f *FakeLobbyRepository) ListTimeoutLobbies(ctx context.Context, db bun.IDB) ([]lobbydb.TimeoutLobby, error) {
	f.record("ListTimeoutLobbies")
	if f.ListTimeoutLobbiesFunc != nil {
		return f.ListTimeoutLobbiesFunc(ctx, db)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []lobbydb.TimeoutLobby
	for _, l := range f.lobbies {
		c, ok := f.competitions[l.GuildID]
		if !ok || c.QueueTimeout == nil || *c.QueueTimeout <= 0 {
			continue
		}
		out = append(out, lobbydb.TimeoutLobby{Lobby: l, Timeout: *c.QueueTimeout})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lobby.ChannelID < out[j].Lobby.ChannelID })
	return out, nil
}

func (f *FakeLobbyRepository) GetQueue(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) ([]sharedtypes.QueuedPlayer, error) {
	f.record("GetQueue")
	return f.Queue(channelID), nil
}

func (f *FakeLobbyRepository) GetQueues(ctx context.Context, db bun.IDB, channelIDs []sharedtypes.ChannelID) (map[sharedtypes.ChannelID][]sharedtypes.QueuedPlayer, error) {
	f.record("GetQueues")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[sharedtypes.ChannelID][]sharedtypes.QueuedPlayer, len(channelIDs))
	for _, id := range channelIDs {
		if q := f.queues[id]; len(q) > 0 {
			out[id] = slices.Clone(q)
		}
	}
	return out, nil
}

func (f *FakeLobbyRepository) LockQueueMembership(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID) error {
	f.record("LockQueueMembership")
	return nil
}

func (f *FakeLobbyRepository) IsQueuedElsewhere(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID, except sharedtypes.ChannelID) (bool, error) {
	f.record("IsQueuedElsewhere")
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch, q := range f.queues {
		if ch == except {
			continue
		}
		for _, e := range q {
			if e.GuildID == guildID && e.UserID == userID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *FakeLobbyRepository) AddQueuedPlayer(ctx context.Context, db bun.IDB, player *sharedtypes.QueuedPlayer) error {
	f.record("AddQueuedPlayer")
	if f.AddQueuedPlayerFunc != nil {
		return f.AddQueuedPlayerFunc(ctx, db, player)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.queues[player.ChannelID] {
		if e.UserID == player.UserID {
			return lobbydb.ErrAlreadyExists
		}
	}
	f.queues[player.ChannelID] = append(f.queues[player.ChannelID], *player)
	return nil
}

func (f *FakeLobbyRepository) RemoveQueuedPlayers(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, userIDs []sharedtypes.UserID) (int, error) {
	f.record("RemoveQueuedPlayers")
	if f.RemoveQueuedPlayersFunc != nil {
		return f.RemoveQueuedPlayersFunc(ctx, db, channelID, userIDs)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.queues[channelID])
	f.queues[channelID] = slices.DeleteFunc(f.queues[channelID], func(q sharedtypes.QueuedPlayer) bool {
		return slices.Contains(userIDs, q.UserID)
	})
	return before - len(f.queues[channelID]), nil
}

func (f *FakeLobbyRepository) ClearQueue(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (int, error) {
	f.record("ClearQueue")
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.queues[channelID])
	delete(f.queues, channelID)
	return n, nil
}

func (f *FakeLobbyRepository) ReplaceQueuedPlayer(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, oldUser, newUser sharedtypes.UserID) error {
	f.record("ReplaceQueuedPlayer")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, q := range f.queues[channelID] {
		if q.UserID == oldUser {
			f.queues[channelID][i].UserID = newUser
			return nil
		}
	}
	return lobbydb.ErrNoRowsAffected
}

func (f *FakeLobbyRepository) GetLatestGame(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Game, error) {
	f.record("GetLatestGame")
	f.mu.Lock()
	defer f.mu.Unlock()
	gs := f.games[channelID]
	if len(gs) == 0 {
		return nil, lobbydb.ErrNotFound
	}
	g := gs[len(gs)-1]
	return &g, nil
}

func (f *FakeLobbyRepository) GetLatestGames(ctx context.Context, db bun.IDB, channelIDs []sharedtypes.ChannelID) (map[sharedtypes.ChannelID]sharedtypes.Game, error) {
	f.record("GetLatestGames")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[sharedtypes.ChannelID]sharedtypes.Game{}
	for _, id := range channelIDs {
		if gs := f.games[id]; len(gs) > 0 {
			out[id] = gs[len(gs)-1]
		}
	}
	return out, nil
}

func (f *FakeLobbyRepository) GetGame(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) (*sharedtypes.Game, error) {
	f.record("GetGame")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.games[channelID] {
		if g.GameID == gameID {
			return &g, nil
		}
	}
	return nil, lobbydb.ErrNotFound
}

func (f *FakeLobbyRepository) CreateGame(ctx context.Context, db bun.IDB, game *sharedtypes.Game) error {
	f.record("CreateGame")
	f.mu.Lock()
	defer f.mu.Unlock()
	game.GameID = sharedtypes.GameID(len(f.games[game.ChannelID]) + 1)
	f.games[game.ChannelID] = append(f.games[game.ChannelID], *game)
	return nil
}

func (f *FakeLobbyRepository) UpdateGame(ctx context.Context, db bun.IDB, game *sharedtypes.Game) error {
	f.record("UpdateGame")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.games[game.ChannelID] {
		if g.GameID == game.GameID {
			f.games[game.ChannelID][i] = *game
			return nil
		}
	}
	return lobbydb.ErrNoRowsAffected
}

func (f *FakeLobbyRepository) GetCaptains(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) ([]sharedtypes.TeamCaptain, error) {
	f.record("GetCaptains")
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.captains[gameKey{channelID, gameID}]), nil
}

func (f *FakeLobbyRepository) AddCaptains(ctx context.Context, db bun.IDB, captains []sharedtypes.TeamCaptain) error {
	f.record("AddCaptains")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range captains {
		k := gameKey{c.ChannelID, c.GameID}
		f.captains[k] = append(f.captains[k], c)
	}
	return nil
}

func (f *FakeLobbyRepository) ReplaceCaptain(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, team sharedtypes.TeamNumber, userID sharedtypes.UserID) error {
	f.record("ReplaceCaptain")
	f.mu.Lock()
	defer f.mu.Unlock()
	k := gameKey{channelID, gameID}
	for i, c := range f.captains[k] {
		if c.TeamNumber == team {
			f.captains[k][i].UserID = userID
			return nil
		}
	}
	return lobbydb.ErrNoRowsAffected
}

func (f *FakeLobbyRepository) GetTeamPlayers(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) ([]sharedtypes.TeamPlayer, error) {
	f.record("GetTeamPlayers")
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.teams[gameKey{channelID, gameID}]), nil
}

func (f *FakeLobbyRepository) AddTeamPlayers(ctx context.Context, db bun.IDB, players []sharedtypes.TeamPlayer) error {
	f.record("AddTeamPlayers")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range players {
		k := gameKey{p.ChannelID, p.GameID}
		f.teams[k] = append(f.teams[k], p)
	}
	return nil
}

func (f *FakeLobbyRepository) ReplaceTeamPlayer(ctx context.Context, db bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID, oldUser, newUser sharedtypes.UserID) error {
	f.record("ReplaceTeamPlayer")
	f.mu.Lock()
	defer f.mu.Unlock()
	k := gameKey{channelID, gameID}
	for i, p := range f.teams[k] {
		if p.UserID == oldUser {
			f.teams[k][i].UserID = newUser
			return nil
		}
	}
	return lobbydb.ErrNoRowsAffected
}

func (f *FakeLobbyRepository) GetPlayer(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID) (*sharedtypes.Player, error) {
	f.record("GetPlayer")
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerKey{guildID, userID}]
	if !ok {
		return nil, lobbydb.ErrNotFound
	}
	return &p, nil
}

func (f *FakeLobbyRepository) GetPlayers(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userIDs []sharedtypes.UserID) (map[sharedtypes.UserID]sharedtypes.Player, error) {
	f.record("GetPlayers")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[sharedtypes.UserID]sharedtypes.Player{}
	for _, id := range userIDs {
		if p, ok := f.players[playerKey{guildID, id}]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *FakeLobbyRepository) GetActiveBan(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID, now time.Time) (*sharedtypes.Ban, error) {
	f.record("GetActiveBan")
	if f.GetActiveBanFunc != nil {
		return f.GetActiveBanFunc(ctx, db, guildID, userID, now)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bans {
		if b.GuildID == guildID && b.UserID == userID && b.IsActive(now) {
			return &b, nil
		}
	}
	return nil, lobbydb.ErrNotFound
}

func (f *FakeLobbyRepository) GetCompetition(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*sharedtypes.Competition, error) {
	f.record("GetCompetition")
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.competitions[guildID]
	if !ok {
		return nil, lobbydb.ErrNotFound
	}
	return &c, nil
}

// Ensure the fake actually satisfies the interface
var _ lobbydb.Repository = (*FakeLobbyRepository)(nil)

// ------------------------
// Fake Notifier
// ------------------------

// FakeNotifier records every attempted notification. Err fails every call;
// FailFirst fails only the first n calls.
type FakeNotifier struct {
	mu        sync.Mutex
	sent      []sharedtypes.Notification
	Err       error
	FailFirst int
}

func (n *FakeNotifier) Notify(_ context.Context, note sharedtypes.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
	if len(n.sent) <= n.FailFirst {
		return errors.New("notifier unavailable")
	}
	return n.Err
}

func (n *FakeNotifier) Sent() []sharedtypes.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.sent)
}

func (n *FakeNotifier) Kinds() []sharedtypes.NotificationKind {
	var out []sharedtypes.NotificationKind
	for _, s := range n.Sent() {
		out = append(out, s.Kind)
	}
	return out
}

var _ Notifier = (*FakeNotifier)(nil)
