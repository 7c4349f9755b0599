package lobbyhandlers

import (
	"context"
	"time"

	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// ------------------------
// Fake Lobby Service
// ------------------------

type FakeLobbyService struct {
	trace []string

	JoinFunc                func(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (lobbyservice.JoinOutcome, error)
	LeaveFunc               func(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (lobbyservice.LeaveOutcome, error)
	ForceJoinFunc           func(ctx context.Context, channelID sharedtypes.ChannelID, userIDs []sharedtypes.UserID) (lobbyservice.ForceJoinOutcome, error)
	ForceRemoveFunc         func(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (lobbyservice.LeaveOutcome, error)
	ClearQueueFunc          func(ctx context.Context, channelID sharedtypes.ChannelID) (lobbyservice.ClearOutcome, error)
	StartDraftFunc          func(ctx context.Context, channelID sharedtypes.ChannelID) (lobbyservice.DraftOutcome, error)
	PickFunc                func(ctx context.Context, channelID sharedtypes.ChannelID, captain sharedtypes.UserID, userIDs []sharedtypes.UserID) (lobbyservice.PickOutcome, error)
	SubFunc                 func(ctx context.Context, channelID sharedtypes.ChannelID, userID, replacement sharedtypes.UserID) (lobbyservice.SubOutcome, error)
	GetQueueFunc            func(ctx context.Context, channelID sharedtypes.ChannelID) (lobbyservice.QueueOutcome, error)
	CreateLobbyFunc         func(ctx context.Context, lobby *sharedtypes.Lobby) (lobbyservice.LobbyOutcome, error)
	UpdateLobbySettingsFunc func(ctx context.Context, channelID sharedtypes.ChannelID, update lobbyservice.LobbySettingsUpdate) (lobbyservice.LobbyOutcome, error)
	DeleteLobbyFunc         func(ctx context.Context, channelID sharedtypes.ChannelID) (lobbyservice.LobbyOutcome, error)
	SweepQueueTimeoutsFunc  func(ctx context.Context, now time.Time) (lobbyservice.SweepOutcome, error)
}

func NewFakeLobbyService() *FakeLobbyService {
	return &FakeLobbyService{trace: []string{}}
}

func (f *FakeLobbyService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLobbyService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Service Interface Implementation ---

func (f *FakeLobbyService) Join(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (lobbyservice.JoinOutcome, error) {
	f.record("Join")
	if f.JoinFunc != nil {
		return f.JoinFunc(ctx, channelID, userID)
	}
	return lobbyservice.JoinOutcome{}, nil
}

func (f *FakeLobbyService) Leave(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (lobbyservice.LeaveOutcome, error) {
	f.record("Leave")
	if f.LeaveFunc != nil {
		return f.LeaveFunc(ctx, channelID, userID)
	}
	return lobbyservice.LeaveOutcome{}, nil
}

func (f *FakeLobbyService) ForceJoin(ctx context.Context, channelID sharedtypes.ChannelID, userIDs []sharedtypes.UserID) (lobbyservice.ForceJoinOutcome, error) {
	f.record("ForceJoin")
	if f.ForceJoinFunc != nil {
		return f.ForceJoinFunc(ctx, channelID, userIDs)
	}
	return lobbyservice.ForceJoinOutcome{}, nil
}

func (f *FakeLobbyService) ForceRemove(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.UserID) (lobbyservice.LeaveOutcome, error) {
	f.record("ForceRemove")
	if f.ForceRemoveFunc != nil {
		return f.ForceRemoveFunc(ctx, channelID, userID)
	}
	return lobbyservice.LeaveOutcome{}, nil
}

func (f *FakeLobbyService) ClearQueue(ctx context.Context, channelID sharedtypes.ChannelID) (lobbyservice.ClearOutcome, error) {
	f.record("ClearQueue")
	if f.ClearQueueFunc != nil {
		return f.ClearQueueFunc(ctx, channelID)
	}
	return lobbyservice.ClearOutcome{}, nil
}

func (f *FakeLobbyService) StartDraft(ctx context.Context, channelID sharedtypes.ChannelID) (lobbyservice.DraftOutcome, error) {
	f.record("StartDraft")
	if f.StartDraftFunc != nil {
		return f.StartDraftFunc(ctx, channelID)
	}
	return lobbyservice.DraftOutcome{}, nil
}

func (f *FakeLobbyService) Pick(ctx context.Context, channelID sharedtypes.ChannelID, captain sharedtypes.UserID, userIDs []sharedtypes.UserID) (lobbyservice.PickOutcome, error) {
	f.record("Pick")
	if f.PickFunc != nil {
		return f.PickFunc(ctx, channelID, captain, userIDs)
	}
	return lobbyservice.PickOutcome{}, nil
}

func (f *FakeLobbyService) Sub(ctx context.Context, channelID sharedtypes.ChannelID, userID, replacement sharedtypes.UserID) (lobbyservice.SubOutcome, error) {
	f.record("Sub")
	if f.SubFunc != nil {
		return f.SubFunc(ctx, channelID, userID, replacement)
	}
	return lobbyservice.SubOutcome{}, nil
}

func (f *FakeLobbyService) GetQueue(ctx context.Context, channelID sharedtypes.ChannelID) (lobbyservice.QueueOutcome, error) {
	f.record("GetQueue")
	if f.GetQueueFunc != nil {
		return f.GetQueueFunc(ctx, channelID)
	}
	return lobbyservice.QueueOutcome{}, nil
}

func (f *FakeLobbyService) CreateLobby(ctx context.Context, lobby *sharedtypes.Lobby) (lobbyservice.LobbyOutcome, error) {
	f.record("CreateLobby")
	if f.CreateLobbyFunc != nil {
		return f.CreateLobbyFunc(ctx, lobby)
	}
	return lobbyservice.LobbyOutcome{}, nil
}

func (f *FakeLobbyService) UpdateLobbySettings(ctx context.Context, channelID sharedtypes.ChannelID, update lobbyservice.LobbySettingsUpdate) (lobbyservice.LobbyOutcome, error) {
	f.record("UpdateLobbySettings")
	if f.UpdateLobbySettingsFunc != nil {
		return f.UpdateLobbySettingsFunc(ctx, channelID, update)
	}
	return lobbyservice.LobbyOutcome{}, nil
}

func (f *FakeLobbyService) DeleteLobby(ctx context.Context, channelID sharedtypes.ChannelID) (lobbyservice.LobbyOutcome, error) {
	f.record("DeleteLobby")
	if f.DeleteLobbyFunc != nil {
		return f.DeleteLobbyFunc(ctx, channelID)
	}
	return lobbyservice.LobbyOutcome{}, nil
}

func (f *FakeLobbyService) SweepQueueTimeouts(ctx context.Context, now time.Time) (lobbyservice.SweepOutcome, error) {
	f.record("SweepQueueTimeouts")
	if f.SweepQueueTimeoutsFunc != nil {
		return f.SweepQueueTimeoutsFunc(ctx, now)
	}
	return lobbyservice.SweepOutcome{}, nil
}

// Ensure the fake actually satisfies the interface
var _ lobbyservice.Service = (*FakeLobbyService)(nil)
