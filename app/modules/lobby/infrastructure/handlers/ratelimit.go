package lobbyhandlers

import (
	"sync"
	"time"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle user entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type userEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter limits commands per user and prunes stale entries inline.
type UserRateLimiter struct {
	users map[sharedtypes.UserID]*userEntry
	mu    sync.Mutex
	r     rate.Limit
	b     int
}

// NewUserRateLimiter allows one command per interval per user.
func NewUserRateLimiter(interval time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		users: make(map[sharedtypes.UserID]*userEntry),
		r:     rate.Every(interval),
		b:     1,
	}
}

// Allow reports whether userID may run a command now. A nil limiter allows everything.
func (l *UserRateLimiter) Allow(userID sharedtypes.UserID) bool {
	if l == nil {
		return true
	}
	return l.getLimiter(userID).Allow()
}

func (l *UserRateLimiter) getLimiter(userID sharedtypes.UserID) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if len(l.users) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range l.users {
			if e.lastSeen.Before(cutoff) {
				delete(l.users, k)
			}
		}
	}

	e, exists := l.users[userID]
	if !exists {
		e = &userEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.users[userID] = e
	}
	e.lastSeen = now

	return e.limiter
}

// Len is the number of tracked users.
func (l *UserRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}
