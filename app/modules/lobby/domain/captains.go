package lobbydomain

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/brett-phillips/ELO/app/shared/apperrors"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

// CaptainSelector picks two distinct captains from a full queue.
type CaptainSelector interface {
	SelectCaptains(
		mode sharedtypes.PickMode,
		queue []sharedtypes.QueuedPlayer,
		players map[sharedtypes.UserID]sharedtypes.Player,
	) (sharedtypes.UserID, sharedtypes.UserID, error)
}

// topRankedPool is how many of the highest-point players
// Captains_RandomHighestRanked draws from.
const topRankedPool = 4

// ModeSelector implements every captain pick mode. Output is deterministic
// for a given seed and sequence of calls.
type ModeSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewModeSelector seeds the selector's random source.
func NewModeSelector(seed int64) *ModeSelector {
	return &ModeSelector{rng: rand.New(rand.NewSource(seed))}
}

func (s *ModeSelector) SelectCaptains(
	mode sharedtypes.PickMode,
	queue []sharedtypes.QueuedPlayer,
	players map[sharedtypes.UserID]sharedtypes.Player,
) (sharedtypes.UserID, sharedtypes.UserID, error) {
	if len(queue) < 2 {
		return "", "", apperrors.State(ErrNotEnoughQueued, fmt.Sprintf("%d queued", len(queue)))
	}

	switch mode {
	case sharedtypes.PickModeCaptainsHighestRanked:
		ranked := byPoints(queue, players)
		return ranked[0], ranked[1], nil
	case sharedtypes.PickModeCaptainsRandomHighestRanked:
		ranked := byPoints(queue, players)
		return s.pickTwo(ranked[:min(topRankedPool, len(ranked))])
	case sharedtypes.PickModeCaptainsRandom:
		ids := make([]sharedtypes.UserID, len(queue))
		for i, q := range queue {
			ids[i] = q.UserID
		}
		return s.pickTwo(ids)
	}
	return "", "", apperrors.Validation(ErrInvalidSettings, fmt.Sprintf("pick mode %q", mode))
}

func (s *ModeSelector) pickTwo(ids []sharedtypes.UserID) (sharedtypes.UserID, sharedtypes.UserID, error) {
	s.mu.Lock()
	perm := s.rng.Perm(len(ids))
	s.mu.Unlock()
	return ids[perm[0]], ids[perm[1]], nil
}

// byPoints orders queued users by points, highest first. Ties keep queue order.
func byPoints(queue []sharedtypes.QueuedPlayer, players map[sharedtypes.UserID]sharedtypes.Player) []sharedtypes.UserID {
	ids := make([]sharedtypes.UserID, len(queue))
	for i, q := range queue {
		ids[i] = q.UserID
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return players[ids[i]].Points > players[ids[j]].Points
	})
	return ids
}

// FixedSelector always returns the same two captains. Useful for tests and
// for admin-forced drafts.
type FixedSelector struct {
	Captain1, Captain2 sharedtypes.UserID
}

func (f FixedSelector) SelectCaptains(
	_ sharedtypes.PickMode,
	queue []sharedtypes.QueuedPlayer,
	_ map[sharedtypes.UserID]sharedtypes.Player,
) (sharedtypes.UserID, sharedtypes.UserID, error) {
	var found1, found2 bool
	for _, q := range queue {
		found1 = found1 || q.UserID == f.Captain1
		found2 = found2 || q.UserID == f.Captain2
	}
	if !found1 || !found2 || f.Captain1 == f.Captain2 {
		return "", "", apperrors.State(ErrNotEnoughQueued, "fixed captains are not both queued")
	}
	return f.Captain1, f.Captain2, nil
}
