package lobbyservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	lobbydomain "github.com/brett-phillips/ELO/app/modules/lobby/domain"
	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/apperrors"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// Join adds a user to a lobby queue. Admission checks run in a fixed order
// and the first failure is returned. Joining when already queued succeeds
// without changes. The join that fills the queue starts the draft in the
// same transaction.
func (s *LobbyService) Join(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (JoinOutcome, error) {
	if channelID == "" {
		return fail[*JoinResult](apperrors.Validation(ErrMissingChannel, ""))
	}
	if userID == "" {
		return fail[*JoinResult](apperrors.Validation(ErrMissingUser, ""))
	}

	var (
		notes   []sharedtypes.Notification
		touched *sharedtypes.QueuedPlayer
	)
	result, err := withTelemetry(s, ctx, "Join", channelID, func(ctx context.Context) (JoinOutcome, error) {
		return inLobby(s, ctx, channelID, func(ctx context.Context, db bun.IDB, lobby *sharedtypes.Lobby) (JoinOutcome, error) {
			player, err := s.repo.GetPlayer(ctx, db, lobby.GuildID, userID)
			if err != nil {
				if errors.Is(err, lobbydb.ErrNotFound) {
					return fail[*JoinResult](apperrors.NotFound(lobbydomain.ErrNotRegistered, string(userID)))
				}
				return JoinOutcome{}, err
			}
			comp, err := s.competition(ctx, db, lobby.GuildID)
			if err != nil {
				return JoinOutcome{}, err
			}
			queue, err := s.repo.GetQueue(ctx, db, channelID)
			if err != nil {
				return JoinOutcome{}, err
			}
			latest, err := s.latestGame(ctx, db, channelID)
			if err != nil {
				return JoinOutcome{}, err
			}

			now := s.now()
			if err := s.admit(ctx, db, lobby, comp, player, queue, latest, now); err != nil {
				if apperrors.IsDomain(err) {
					return fail[*JoinResult](err)
				}
				return JoinOutcome{}, err
			}

			res := &JoinResult{ChannelID: channelID, UserID: userID, Capacity: lobby.Capacity()}
			if queuedIndex(queue, userID) >= 0 {
				res.AlreadyQueued = true
				res.Queued = len(queue)
				return results.SuccessResult[*JoinResult, error](res), nil
			}
			if comp.RequeueDelay != nil && s.cooldowns != nil {
				if left := s.cooldowns.Remaining(lobby.GuildID, userID, *comp.RequeueDelay, now); left > 0 {
					return fail[*JoinResult](apperrors.Cooldown(lobbydomain.ErrCooldownActive, left))
				}
			}

			entry := sharedtypes.QueuedPlayer{GuildID: lobby.GuildID, ChannelID: channelID, UserID: userID, QueuedAt: now}
			if err := s.repo.AddQueuedPlayer(ctx, db, &entry); err != nil {
				return JoinOutcome{}, err
			}
			touched = &entry
			queue = append(queue, entry)
			res.Queued = len(queue)
			s.metrics.RecordQueueLength(ctx, string(channelID), len(queue))

			if len(queue) >= lobby.Capacity() {
				view, n, err := s.startDraft(ctx, db, lobby, queue)
				if err != nil {
					return JoinOutcome{}, err
				}
				res.QueueFull = true
				res.Draft = view
				notes = n
			}
			return results.SuccessResult[*JoinResult, error](res), nil
		})
	})
	if err == nil && result.IsSuccess() {
		if touched != nil && s.cooldowns != nil {
			s.cooldowns.Touch(touched.GuildID, touched.UserID, touched.QueuedAt)
		}
		s.dispatch(ctx, notes)
	}
	return result, err
}

// admit runs the admission checks in order: ban, capacity, multi-queue,
// minimum points, draft in progress. Refusals are apperrors; anything else
// is a persistence failure.
func (s *LobbyService) admit(
	ctx context.Context,
	db bun.IDB,
	lobby *sharedtypes.Lobby,
	comp *sharedtypes.Competition,
	player *sharedtypes.Player,
	queue []sharedtypes.QueuedPlayer,
	latest *sharedtypes.Game,
	now time.Time,
) error {
	ban, err := s.repo.GetActiveBan(ctx, db, lobby.GuildID, player.UserID, now)
	switch {
	case err == nil && ban.IsActive(now):
		return apperrors.Permission(lobbydomain.ErrBanned, "until "+ban.ExpiresAt().UTC().Format(time.RFC3339))
	case err != nil && !errors.Is(err, lobbydb.ErrNotFound):
		return err
	}

	if len(queue) >= lobby.Capacity() {
		return apperrors.Capacity(lobbydomain.ErrQueueFull, lobby.Capacity())
	}

	if !comp.AllowMultiQueueing {
		if err := s.repo.LockQueueMembership(ctx, db, lobby.GuildID, player.UserID); err != nil {
			return err
		}
		elsewhere, err := s.repo.IsQueuedElsewhere(ctx, db, lobby.GuildID, player.UserID, lobby.ChannelID)
		if err != nil {
			return err
		}
		if elsewhere {
			return apperrors.State(lobbydomain.ErrMultiQueueDisallowed, "")
		}
	}

	if lobby.MinimumPoints != nil && player.Points < *lobby.MinimumPoints {
		return apperrors.Permission(lobbydomain.ErrBelowMinimum, fmt.Sprintf("%d < %d", player.Points, *lobby.MinimumPoints))
	}

	if isPicking(latest) {
		return apperrors.State(lobbydomain.ErrDraftInProgress, fmt.Sprintf("game %d", latest.GameID))
	}
	return nil
}
