package lobbyservice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brett-phillips/ELO/app/shared/observability/attr"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// dispatch sends notifications after commit. Delivery is best effort.
func (s *LobbyService) dispatch(ctx context.Context, notes []sharedtypes.Notification) {
	if s.notifier == nil {
		return
	}
	for _, n := range notes {
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.WarnContext(ctx, "Failed to deliver notification",
				attr.ExtractCorrelationID(ctx),
				attr.String("kind", string(n.Kind)),
				attr.ChannelID(n.ChannelID),
				attr.UserID(n.UserID),
				attr.Error(err),
			)
		}
	}
}

func draftStartedNotification(lobby *sharedtypes.Lobby, v *DraftView) sharedtypes.Notification {
	c1, c2 := v.Captains[sharedtypes.TeamOne], v.Captains[sharedtypes.TeamTwo]
	return sharedtypes.Notification{
		Kind:      sharedtypes.NotificationDraftStarted,
		GuildID:   lobby.GuildID,
		ChannelID: lobby.ChannelID,
		Text:      fmt.Sprintf("Game #%d: queue is full, picking teams", v.Game.GameID),
		Fields: map[string]string{
			"game_id":   strconv.FormatInt(int64(v.Game.GameID), 10),
			"captain_1": string(c1),
			"captain_2": string(c2),
			"pick_mode": string(lobby.PickMode),
		},
		Mentions: []sharedtypes.UserID{c1, c2},
	}
}

// gameReadyNotifications targets the lobby channel, the ready announcement
// channel when set and, with DM-on-ready, every player in the game.
func gameReadyNotifications(lobby *sharedtypes.Lobby, v *DraftView) []sharedtypes.Notification {
	var players []sharedtypes.UserID
	players = append(players, v.Teams[sharedtypes.TeamOne]...)
	players = append(players, v.Teams[sharedtypes.TeamTwo]...)

	fields := map[string]string{
		"game_id": strconv.FormatInt(int64(v.Game.GameID), 10),
		"team_1":  joinIDs(v.Teams[sharedtypes.TeamOne]),
		"team_2":  joinIDs(v.Teams[sharedtypes.TeamTwo]),
	}
	text := fmt.Sprintf("Game #%d is ready", v.Game.GameID)

	base := sharedtypes.Notification{
		Kind:    sharedtypes.NotificationGameReady,
		GuildID: lobby.GuildID,
		Text:    text,
		Fields:  fields,
	}
	if lobby.MentionUsersInReadyAnno {
		base.Mentions = players
	}

	var out []sharedtypes.Notification
	channel := base
	channel.ChannelID = lobby.ChannelID
	out = append(out, channel)

	if lobby.ReadyChannelID != nil && *lobby.ReadyChannelID != lobby.ChannelID {
		ready := base
		ready.ChannelID = *lobby.ReadyChannelID
		out = append(out, ready)
	}
	if lobby.DMUsersOnGameReady {
		for _, u := range players {
			dm := base
			dm.Mentions = nil
			dm.UserID = u
			out = append(out, dm)
		}
	}
	return out
}

func queueTimeoutNotification(lobby *sharedtypes.Lobby, q sharedtypes.QueuedPlayer) sharedtypes.Notification {
	return sharedtypes.Notification{
		Kind:      sharedtypes.NotificationQueueTimeout,
		GuildID:   lobby.GuildID,
		ChannelID: lobby.ChannelID,
		Text:      "Removed from the queue after timing out",
		Fields:    map[string]string{"queued_at": q.QueuedAt.UTC().Format(time.RFC3339)},
		Mentions:  []sharedtypes.UserID{q.UserID},
	}
}

func joinIDs(ids []sharedtypes.UserID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}
