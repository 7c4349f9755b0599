package scoreservice

import (
	"context"
	"slices"
	"sync"

	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	scoredb "github.com/brett-phillips/ELO/app/modules/score/infrastructure/repositories"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

type playerKey struct {
	guild sharedtypes.GuildID
	user  sharedtypes.UserID
}

// FakeScoreRepository is an in-memory scoredb.Repository. Func fields
// override individual methods.
type FakeScoreRepository struct {
	mu    sync.Mutex
	trace []string

	players      map[playerKey]sharedtypes.Player
	ranks        map[sharedtypes.GuildID][]sharedtypes.Rank
	competitions map[sharedtypes.GuildID]sharedtypes.Competition

	UpdatePlayersFunc  func(ctx context.Context, db bun.IDB, players []sharedtypes.Player) error
	GetCompetitionFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*sharedtypes.Competition, error)
}

// NewFakeScoreRepository initializes an empty fake.
func NewFakeScoreRepository() *FakeScoreRepository {
	return &FakeScoreRepository{
		trace:        []string{},
		players:      map[playerKey]sharedtypes.Player{},
		ranks:        map[sharedtypes.GuildID][]sharedtypes.Rank{},
		competitions: map[sharedtypes.GuildID]sharedtypes.Competition{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeScoreRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.trace)
}

func (f *FakeScoreRepository) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

func (f *FakeScoreRepository) SeedPlayer(p sharedtypes.Player) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[playerKey{p.GuildID, p.UserID}] = p
}

func (f *FakeScoreRepository) SeedRank(r sharedtypes.Rank) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranks[r.GuildID] = append(f.ranks[r.GuildID], r)
}

func (f *FakeScoreRepository) SeedCompetition(c sharedtypes.Competition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.competitions[c.GuildID] = c
}

// Player returns the stored player and whether it exists.
func (f *FakeScoreRepository) Player(guildID sharedtypes.GuildID, userID sharedtypes.UserID) (sharedtypes.Player, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerKey{guildID, userID}]
	return p, ok
}

func (f *FakeScoreRepository) Ranks(guildID sharedtypes.GuildID) []sharedtypes.Rank {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.ranks[guildID])
}

// --- Repository Interface Implementation ---

func (f *FakeScoreRepository) GetPlayer(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, userID sharedtypes.UserID) (*sharedtypes.Player, error) {
	f.record("GetPlayer")
	p, ok := f.Player(guildID, userID)
	if !ok {
		return nil, scoredb.ErrNotFound
	}
	return &p, nil
}

func (f *FakeScoreRepository) GetPlayers(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, userIDs []sharedtypes.UserID) (map[sharedtypes.UserID]sharedtypes.Player, error) {
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

func (f *FakeScoreRepository) CreatePlayer(_ context.Context, _ bun.IDB, player *sharedtypes.Player) error {
	f.record("CreatePlayer")
	f.mu.Lock()
	defer f.mu.Unlock()
	key := playerKey{player.GuildID, player.UserID}
	if _, ok := f.players[key]; ok {
		return scoredb.ErrAlreadyExists
	}
	f.players[key] = *player
	return nil
}

func (f *FakeScoreRepository) UpdatePlayers(ctx context.Context, db bun.IDB, players []sharedtypes.Player) error {
	f.record("UpdatePlayers")
	if f.UpdatePlayersFunc != nil {
		return f.UpdatePlayersFunc(ctx, db, players)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range players {
		f.players[playerKey{p.GuildID, p.UserID}] = p
	}
	return nil
}

func (f *FakeScoreRepository) ResetPlayers(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, points int) (int, error) {
	f.record("ResetPlayers")
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k, p := range f.players {
		if k.guild != guildID {
			continue
		}
		p.Points = points
		p.Wins, p.Losses, p.Draws, p.Kills, p.Deaths = 0, 0, 0, 0, 0
		f.players[k] = p
		n++
	}
	return n, nil
}

func (f *FakeScoreRepository) GetRanks(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID) ([]sharedtypes.Rank, error) {
	f.record("GetRanks")
	return f.Ranks(guildID), nil
}

func (f *FakeScoreRepository) UpsertRank(_ context.Context, _ bun.IDB, rank *sharedtypes.Rank) error {
	f.record("UpsertRank")
	f.mu.Lock()
	defer f.mu.Unlock()
	ranks := f.ranks[rank.GuildID]
	for i := range ranks {
		if ranks[i].RoleID == rank.RoleID {
			ranks[i] = *rank
			return nil
		}
	}
	f.ranks[rank.GuildID] = append(ranks, *rank)
	return nil
}

func (f *FakeScoreRepository) DeleteRank(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) error {
	f.record("DeleteRank")
	f.mu.Lock()
	defer f.mu.Unlock()
	ranks := f.ranks[guildID]
	i := slices.IndexFunc(ranks, func(r sharedtypes.Rank) bool { return r.RoleID == roleID })
	if i < 0 {
		return scoredb.ErrNoRowsAffected
	}
	f.ranks[guildID] = slices.Delete(ranks, i, i+1)
	return nil
}

func (f *FakeScoreRepository) GetCompetition(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*sharedtypes.Competition, error) {
	f.record("GetCompetition")
	if f.GetCompetitionFunc != nil {
		return f.GetCompetitionFunc(ctx, db, guildID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.competitions[guildID]
	if !ok {
		return nil, scoredb.ErrNotFound
	}
	return &c, nil
}

func (f *FakeScoreRepository) SaveCompetition(_ context.Context, _ bun.IDB, competition *sharedtypes.Competition) error {
	f.record("SaveCompetition")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.competitions[competition.GuildID] = *competition
	return nil
}

var _ scoredb.Repository = (*FakeScoreRepository)(nil)

// ------------------------
// Fake Game Store
// ------------------------

type gameKey struct {
	channel sharedtypes.ChannelID
	game    sharedtypes.GameID
}

type FakeGameStore struct {
	mu      sync.Mutex
	lobbies map[sharedtypes.ChannelID]sharedtypes.Lobby
	games   map[gameKey]sharedtypes.Game
	teams   map[gameKey][]sharedtypes.TeamPlayer

	UpdateGameFunc func(ctx context.Context, db bun.IDB, game *sharedtypes.Game) error
}

func NewFakeGameStore() *FakeGameStore {
	return &FakeGameStore{
		lobbies: map[sharedtypes.ChannelID]sharedtypes.Lobby{},
		games:   map[gameKey]sharedtypes.Game{},
		teams:   map[gameKey][]sharedtypes.TeamPlayer{},
	}
}

func (f *FakeGameStore) SeedLobby(l sharedtypes.Lobby) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lobbies[l.ChannelID] = l
}

// SeedGame stores g with team1 and team2 as its rosters.
func (f *FakeGameStore) SeedGame(g sharedtypes.Game, team1, team2 []sharedtypes.UserID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := gameKey{g.ChannelID, g.GameID}
	f.games[key] = g
	for team, users := range map[sharedtypes.TeamNumber][]sharedtypes.UserID{sharedtypes.TeamOne: team1, sharedtypes.TeamTwo: team2} {
		for _, u := range users {
			f.teams[key] = append(f.teams[key], sharedtypes.TeamPlayer{
				GuildID: g.GuildID, ChannelID: g.ChannelID, GameID: g.GameID, UserID: u, TeamNumber: team,
			})
		}
	}
}

func (f *FakeGameStore) Game(channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) sharedtypes.Game {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.games[gameKey{channelID, gameID}]
}

func (f *FakeGameStore) LockLobby(_ context.Context, _ bun.IDB, channelID sharedtypes.ChannelID) (*sharedtypes.Lobby, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lobbies[channelID]
	if !ok {
		return nil, lobbydb.ErrNotFound
	}
	return &l, nil
}

func (f *FakeGameStore) GetGame(_ context.Context, _ bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) (*sharedtypes.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameKey{channelID, gameID}]
	if !ok {
		return nil, lobbydb.ErrNotFound
	}
	return &g, nil
}

func (f *FakeGameStore) GetTeamPlayers(_ context.Context, _ bun.IDB, channelID sharedtypes.ChannelID, gameID sharedtypes.GameID) ([]sharedtypes.TeamPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.teams[gameKey{channelID, gameID}]), nil
}

func (f *FakeGameStore) UpdateGame(ctx context.Context, db bun.IDB, game *sharedtypes.Game) error {
	if f.UpdateGameFunc != nil {
		return f.UpdateGameFunc(ctx, db, game)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[gameKey{game.ChannelID, game.GameID}] = *game
	return nil
}

var (
	_ GameStore = (*FakeGameStore)(nil)
	_ GameStore = lobbydb.Repository(nil)
)

// ------------------------
// Fake Notifier
// ------------------------

type FakeNotifier struct {
	mu   sync.Mutex
	sent []sharedtypes.Notification
	Err  error
}

func (n *FakeNotifier) Notify(_ context.Context, note sharedtypes.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
	return n.Err
}

func (n *FakeNotifier) Sent() []sharedtypes.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.sent)
}
