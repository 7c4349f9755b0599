package lobbyservice

import (
	"context"
	"errors"
	"time"

	lobbydb "github.com/brett-phillips/ELO/app/modules/lobby/infrastructure/repositories"
	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// SweepQueueTimeouts evicts players queued longer than their competition's
// queue timeout. Lobbies that are picking are left alone. Candidates come
// from one batched read; each is re-checked under its lobby lock and all
// evictions commit in one transaction. Overlapping calls return Skipped.
func (s *LobbyService) SweepQueueTimeouts(ctx context.Context, now time.Time) (SweepOutcome, error) {
	if !s.sweeping.CompareAndSwap(false, true) {
		s.logger.InfoContext(ctx, "Queue timeout sweep already running, skipping")
		return results.SuccessResult[*SweepResult, error](&SweepResult{Skipped: true}), nil
	}
	defer s.sweeping.Store(false)

	var notes []sharedtypes.Notification
	result, err := withTelemetry(s, ctx, "SweepQueueTimeouts", "", func(ctx context.Context) (SweepOutcome, error) {
		lobbies, err := s.repo.ListTimeoutLobbies(ctx, nil)
		if err != nil {
			return SweepOutcome{}, err
		}
		res := &SweepResult{LobbiesChecked: len(lobbies)}
		if len(lobbies) == 0 {
			return results.SuccessResult[*SweepResult, error](res), nil
		}

		ids := make([]sharedtypes.ChannelID, len(lobbies))
		for i, tl := range lobbies {
			ids[i] = tl.Lobby.ChannelID
		}
		queues, err := s.repo.GetQueues(ctx, nil, ids)
		if err != nil {
			return SweepOutcome{}, err
		}
		games, err := s.repo.GetLatestGames(ctx, nil, ids)
		if err != nil {
			return SweepOutcome{}, err
		}

		var candidates []lobbydb.TimeoutLobby
		for _, tl := range lobbies {
			if g, ok := games[tl.Lobby.ChannelID]; ok && isPicking(&g) {
				continue
			}
			if len(expired(queues[tl.Lobby.ChannelID], tl.Timeout, now)) > 0 {
				candidates = append(candidates, tl)
			}
		}
		if len(candidates) == 0 {
			return results.SuccessResult[*SweepResult, error](res), nil
		}

		lockIDs := make([]sharedtypes.ChannelID, len(candidates))
		for i, c := range candidates {
			lockIDs[i] = c.Lobby.ChannelID
		}
		unlock := s.locks.LockAll(lockIDs)
		defer unlock()

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SweepOutcome, error) {
			for _, c := range candidates {
				lobby, err := s.repo.LockLobby(ctx, db, c.Lobby.ChannelID)
				if errors.Is(err, lobbydb.ErrNotFound) {
					continue
				}
				if err != nil {
					return SweepOutcome{}, err
				}
				game, err := s.latestGame(ctx, db, lobby.ChannelID)
				if err != nil {
					return SweepOutcome{}, err
				}
				if isPicking(game) {
					continue
				}
				queue, err := s.repo.GetQueue(ctx, db, lobby.ChannelID)
				if err != nil {
					return SweepOutcome{}, err
				}
				gone := expired(queue, c.Timeout, now)
				if len(gone) == 0 {
					continue
				}
				if _, err := s.repo.RemoveQueuedPlayers(ctx, db, lobby.ChannelID, queueUserIDs(gone)); err != nil {
					return SweepOutcome{}, err
				}
				s.metrics.RecordQueueLength(ctx, string(lobby.ChannelID), len(queue)-len(gone))
				for _, q := range gone {
					s.logger.InfoContext(ctx, "Evicting timed out player",
						attr.ChannelID(lobby.ChannelID),
						attr.UserID(q.UserID),
						attr.Time("queued_at", q.QueuedAt),
					)
					notes = append(notes, queueTimeoutNotification(lobby, q))
				}
				res.Evicted = append(res.Evicted, gone...)
			}
			return results.SuccessResult[*SweepResult, error](res), nil
		})
	})
	if err == nil && result.IsSuccess() {
		s.metrics.RecordPlayersEvicted(ctx, len((*result.Success).Evicted))
		s.dispatch(ctx, notes)
	}
	return result, err
}

// expired returns the entries whose queuedAt+timeout is before now.
func expired(queue []sharedtypes.QueuedPlayer, timeout time.Duration, now time.Time) []sharedtypes.QueuedPlayer {
	var out []sharedtypes.QueuedPlayer
	for _, q := range queue {
		if q.QueuedAt.Add(timeout).Before(now) {
			out = append(out, q)
		}
	}
	return out
}
