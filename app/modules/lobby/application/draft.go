package lobbyservice

import (
	"context"
	"fmt"
	"maps"
	"slices"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// StartDraft starts a draft for a lobby whose queue is already full. Join
// and ForceJoin start drafts on their own; this covers a lobby left full,
// for example after its capacity was lowered.
func (s *LobbyService) StartDraft(ctx context.Context, channelID sharedtypes.ChannelID) (DraftOutcome, error) {
	if channelID == "" {
		return fail[*DraftView](apperrors.Validation(ErrMissingChannel, ""))
	}

	var notes []sharedtypes.Notification
	result, err := withTelemetry(s, ctx, "StartDraft", channelID, func(ctx context.Context) (DraftOutcome, error) {
		return inLobby(s, ctx, channelID, func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (DraftOutcome, error) {
			latest, err := s.latestGame(ctx, db, channelID)
			if err != nil {
				return DraftOutcome{}, err
			}
			if isPicking(latest) {
				return fail[*DraftView](apperrors.State(lobbydomain.ErrDraftInProgress, fmt.Sprintf("game %d", latest.GameID)))
			}
			queue, err := s.repo.GetQueue(ctx, db, channelID)
			if err != nil {
				return DraftOutcome{}, err
			}
			if len(queue) < lobby.Capacity() {
				return fail[*DraftView](apperrors.State(lobbydomain.ErrNotEnoughQueued, fmt.Sprintf("%d of %d queued", len(queue), lobby.Capacity())))
			}
			view, n, err := s.startDraft(ctx, db, lobby, queue[:lobby.Capacity()])
			if err != nil {
				return DraftOutcome{}, err
			}
			notes = n
			return results.SuccessResult[*DraftView, error](view), nil
		})
	})
	if err == nil && result.IsSuccess() {
		s.dispatch(ctx, notes)
	}
	return result, err
}

// startDraft turns a full queue into a Picking game. The caller holds the
// lobby lock inside a transaction. Captains leave the queue and are placed
// on their teams; the rest of the queue forms the pool.
func (s *LobbyService) startDraft(
	ctx context.Context,
	db bun.IDB,
	lobby *sharedtypes.Lobby,
	queue []sharedtypes.QueuedPlayer,
) (*DraftView, []sharedtypes.Notification, error) {
	ids := queueUserIDs(queue)
	players, err := s.repo.GetPlayers(ctx, db, lobby.GuildID, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load players: %w", err)
	}
	c1, c2, err := s.selector.SelectCaptains(lobby.PickMode, queue, players)
	if err != nil {
		return nil, nil, fmt.Errorf("select captains: %w", err)
	}

	if _, err := s.repo.RemoveQueuedPlayers(ctx, db, lobby.ChannelID, []sharedtypes.UserID{c1, c2}); err != nil {
		return nil, nil, fmt.Errorf("remove captains from queue: %w", err)
	}

	game := &sharedtypes.Game{
		GuildID:   lobby.GuildID,
		ChannelID: lobby.ChannelID,
		State:     sharedtypes.GameStatePicking,
		PickOrder: lobby.PickOrder,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateGame(ctx, db, game); err != nil {
		return nil, nil, fmt.Errorf("create game: %w", err)
	}

	captains := []sharedtypes.TeamCaptain{
		{GuildID: lobby.GuildID, ChannelID: lobby.ChannelID, GameID: game.GameID, UserID: c1, TeamNumber: sharedtypes.TeamOne},
		{GuildID: lobby.GuildID, ChannelID: lobby.ChannelID, GameID: game.GameID, UserID: c2, TeamNumber: sharedtypes.TeamTwo},
	}
	if err := s.repo.AddCaptains(ctx, db, captains); err != nil {
		return nil, nil, fmt.Errorf("add captains: %w", err)
	}
	teamPlayers := []sharedtypes.TeamPlayer{
		{GuildID: lobby.GuildID, ChannelID: lobby.ChannelID, GameID: game.GameID, UserID: c1, TeamNumber: sharedtypes.TeamOne},
		{GuildID: lobby.GuildID, ChannelID: lobby.ChannelID, GameID: game.GameID, UserID: c2, TeamNumber: sharedtypes.TeamTwo},
	}
	if err := s.repo.AddTeamPlayers(ctx, db, teamPlayers); err != nil {
		return nil, nil, fmt.Errorf("add captain team rows: %w", err)
	}

	draft := lobbydomain.NewDraft(*game, lobby.PlayersPerTeam, captains, teamPlayers, queue)
	s.metrics.RecordDraftStarted(ctx, string(lobby.ChannelID))

	view := newDraftView(draft)
	notes := []sharedtypes.Notification{draftStartedNotification(lobby, view)}

	// One player per team: captains alone fill the game.
	if draft.Complete() {
		ready, err := s.completeDraft(ctx, db, lobby, draft)
		if err != nil {
			return nil, nil, err
		}
		view = newDraftView(draft)
		notes = append(notes, ready...)
	}
	return view, notes, nil
}

// completeDraft moves a fully picked game to Undecided and empties the queue.
func (s *LobbyService) completeDraft(
	ctx context.Context,
	db bun.IDB,
	lobby *sharedtypes.Lobby,
	draft *lobbydomain.Draft,
) ([]sharedtypes.Notification, error) {
	if err := draft.Game.Transition(sharedtypes.GameStateUndecided); err != nil {
		return nil, apperrors.State(lobbydomain.ErrInvalidTransition, err.Error())
	}
	if err := s.repo.UpdateGame(ctx, db, &draft.Game); err != nil {
		return nil, fmt.Errorf("mark game undecided: %w", err)
	}
	if _, err := s.repo.ClearQueue(ctx, db, lobby.ChannelID); err != nil {
		return nil, fmt.Errorf("clear queue: %w", err)
	}
	s.metrics.RecordQueueLength(ctx, string(lobby.ChannelID), 0)
	return gameReadyNotifications(lobby, newDraftView(draft)), nil
}

// loadDraft rebuilds the in-memory draft for game.
func (s *LobbyService) loadDraft(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby, game *sharedtypes.Game) (*lobbydomain.Draft, error) {
	captains, err := s.repo.GetCaptains(ctx, db, lobby.ChannelID, game.GameID)
	if err != nil {
		return nil, err
	}
	teamPlayers, err := s.repo.GetTeamPlayers(ctx, db, lobby.ChannelID, game.GameID)
	if err != nil {
		return nil, err
	}
	var queue []sharedtypes.QueuedPlayer
	if game.State == sharedtypes.GameStatePicking {
		if queue, err = s.repo.GetQueue(ctx, db, lobby.ChannelID); err != nil {
			return nil, err
		}
	}
	return lobbydomain.NewDraft(*game, lobby.PlayersPerTeam, captains, teamPlayers, queue), nil
}

func newDraftView(d *lobbydomain.Draft) *DraftView {
	v := &DraftView{
		Game:     d.Game,
		Captains: maps.Clone(d.Captains),
		Teams:    make(map[sharedtypes.TeamNumber][]sharedtypes.UserID, 2),
		Pool:     slices.Clone(d.Pool),
		Complete: d.Complete(),
	}
	for team, users := range d.Teams {
		v.Teams[team] = slices.Clone(users)
	}
	if d.Game.State == sharedtypes.GameStatePicking {
		v.Turn = d.Turn()
		v.RequiredPicks = d.RequiredPicks()
	}
	return v
}
