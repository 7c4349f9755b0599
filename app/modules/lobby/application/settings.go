package lobbyservice

import (
	"context"
	"errors"
	"fmt"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// CreateLobby turns a channel into a lobby. Zero-valued settings take the
// lobby defaults.
func (s *LobbyService) CreateLobby(ctx context.Context, lobby *sharedtypes.Lobby) (LobbyOutcome, error) {
	if lobby == nil {
		return fail[*sharedtypes.Lobby](apperrors.Validation(ErrNilLobby, ""))
	}
	if lobby.ChannelID == "" {
		return fail[*sharedtypes.Lobby](apperrors.Validation(ErrMissingChannel, ""))
	}

	return withTelemetry(s, ctx, "CreateLobby", lobby.ChannelID, func(ctx context.Context) (LobbyOutcome, error) {
		l := withDefaults(lobby)
		if err := validateLobby(l); err != nil {
			return fail[*sharedtypes.Lobby](err)
		}
		if err := s.repo.CreateLobby(ctx, nil, l); err != nil {
			if errors.Is(err, lobbydb.ErrAlreadyExists) {
				return fail[*sharedtypes.Lobby](apperrors.State(lobbydomain.ErrLobbyExists, string(l.ChannelID)))
			}
			return LobbyOutcome{}, err
		}
		return results.SuccessResult[*sharedtypes.Lobby, error](l), nil
	})
}

// UpdateLobbySettings applies a partial update. Capacity cannot change while
// picking or drop below the current queue length.
func (s *LobbyService) UpdateLobbySettings(ctx context.Context, channelID sharedtypes.ChannelID, update LobbySettingsUpdate) (LobbyOutcome, error) {
	if channelID == "" {
		return fail[*sharedtypes.Lobby](apperrors.Validation(ErrMissingChannel, ""))
	}

	return withTelemetry(s, ctx, "UpdateLobbySettings", channelID, func(ctx context.Context) (LobbyOutcome, error) {
		return inLobby(s, ctx, channelID, func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (LobbyOutcome, error) {
			next := applyUpdate(*lobby, update)
			if err := validateLobby(&next); err != nil {
				return fail[*sharedtypes.Lobby](err)
			}

			if next.PlayersPerTeam != lobby.PlayersPerTeam {
				latest, err := s.latestGame(ctx, db, channelID)
				if err != nil {
					return LobbyOutcome{}, err
				}
				if isPicking(latest) {
					return fail[*sharedtypes.Lobby](apperrors.State(lobbydomain.ErrDraftInProgress, fmt.Sprintf("game %d", latest.GameID)))
				}
				queue, err := s.repo.GetQueue(ctx, db, channelID)
				if err != nil {
					return LobbyOutcome{}, err
				}
				if len(queue) > next.Capacity() {
					return fail[*sharedtypes.Lobby](apperrors.Validation(lobbydomain.ErrInvalidSettings,
						fmt.Sprintf("%d players queued, new capacity %d", len(queue), next.Capacity())))
				}
			}

			if err := s.repo.UpdateLobby(ctx, db, &next); err != nil {
				return LobbyOutcome{}, err
			}
			return results.SuccessResult[*sharedtypes.Lobby, error](&next), nil
		})
	})
}

// DeleteLobby removes the lobby with its queue and game history.
func (s *LobbyService) DeleteLobby(ctx context.Context, channelID sharedtypes.ChannelID) (LobbyOutcome, error) {
	if channelID == "" {
		return fail[*sharedtypes.Lobby](apperrors.Validation(ErrMissingChannel, ""))
	}

	return withTelemetry(s, ctx, "DeleteLobby", channelID, func(ctx context.Context) (LobbyOutcome, error) {
		return inLobby(s, ctx, channelID, func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (LobbyOutcome, error) {
			if err := s.repo.DeleteLobby(ctx, db, channelID); err != nil {
				return LobbyOutcome{}, err
			}
			s.metrics.RecordQueueLength(ctx, string(channelID), 0)
			return results.SuccessResult[*sharedtypes.Lobby, error](lobby), nil
		})
	})
}

func withDefaults(in *sharedtypes.Lobby) *sharedtypes.Lobby {
	l := *in
	def := sharedtypes.NewLobby(l.GuildID, l.ChannelID)
	if l.PlayersPerTeam == 0 {
		l.PlayersPerTeam = def.PlayersPerTeam
	}
	if l.PickMode == "" {
		l.PickMode = def.PickMode
	}
	if l.PickOrder == "" {
		l.PickOrder = def.PickOrder
	}
	if l.LobbyMultiplier == 0 {
		l.LobbyMultiplier = def.LobbyMultiplier
	}
	if l.ReductionPercent == 0 {
		l.ReductionPercent = def.ReductionPercent
	}
	return &l
}

func applyUpdate(l sharedtypes.Lobby, u LobbySettingsUpdate) sharedtypes.Lobby {
	if u.Description != nil {
		l.Description = *u.Description
	}
	if u.PlayersPerTeam != nil {
		l.PlayersPerTeam = *u.PlayersPerTeam
	}
	if u.PickMode != nil {
		l.PickMode = *u.PickMode
	}
	if u.PickOrder != nil {
		l.PickOrder = *u.PickOrder
	}
	if u.MinimumPoints != nil {
		v := *u.MinimumPoints
		l.MinimumPoints = &v
	}
	if u.ClearMinimumPoints {
		l.MinimumPoints = nil
	}
	if u.LobbyMultiplier != nil {
		l.LobbyMultiplier = *u.LobbyMultiplier
	}
	if u.MultiplyLossValue != nil {
		l.MultiplyLossValue = *u.MultiplyLossValue
	}
	if u.HighLimit != nil {
		v := *u.HighLimit
		l.HighLimit = &v
	}
	if u.ClearHighLimit {
		l.HighLimit = nil
	}
	if u.ReductionPercent != nil {
		l.ReductionPercent = *u.ReductionPercent
	}
	if u.HideQueue != nil {
		l.HideQueue = *u.HideQueue
	}
	if u.DMUsersOnGameReady != nil {
		l.DMUsersOnGameReady = *u.DMUsersOnGameReady
	}
	if u.MentionUsersInReadyAnno != nil {
		l.MentionUsersInReadyAnno = *u.MentionUsersInReadyAnno
	}
	if u.ReadyChannelID != nil {
		v := *u.ReadyChannelID
		l.ReadyChannelID = &v
	}
	if u.ClearReadyChannel {
		l.ReadyChannelID = nil
	}
	if u.ResultChannelID != nil {
		v := *u.ResultChannelID
		l.ResultChannelID = &v
	}
	if u.ClearResultChannel {
		l.ResultChannelID = nil
	}
	return l
}

func validateLobby(l *sharedtypes.Lobby) error {
	invalid := func(detail string) error {
		return apperrors.Validation(lobbydomain.ErrInvalidSettings, detail)
	}
	if l.GuildID == "" {
		return invalid("guild id is required")
	}
	if l.PlayersPerTeam < 1 {
		return invalid("players per team must be at least 1")
	}
	if _, err := sharedtypes.ParsePickMode(string(l.PickMode)); err != nil {
		return invalid(err.Error())
	}
	if _, err := sharedtypes.ParsePickOrder(string(l.PickOrder)); err != nil {
		return invalid(err.Error())
	}
	if l.LobbyMultiplier <= 0 {
		return invalid("lobby multiplier must be positive")
	}
	if l.ReductionPercent <= 0 || l.ReductionPercent > 1 {
		return invalid("reduction percent must be in (0, 1]")
	}
	return nil
}
