package lobbyservice

import (
	"sync/atomic"
	"time"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/puzpuzpuz/xsync/v3"
)

type cooldownKey struct {
	guild sharedtypes.GuildID
	user  sharedtypes.UserID
}

// CooldownCache remembers each user's last successful join per guild.
// Entries idle longer than both the TTL and the longest delay asked about
// are pruned lazily on writes.
type CooldownCache struct {
	entries   *xsync.MapOf[cooldownKey, time.Time]
	ttl       time.Duration
	maxDelay  atomic.Int64
	lastPrune atomic.Int64
}

// NewCooldownCache creates a cache whose idle entries are dropped after ttl.
func NewCooldownCache(ttl time.Duration) *CooldownCache {
	return &CooldownCache{
		entries: xsync.NewMapOf[cooldownKey, time.Time](),
		ttl:     ttl,
	}
}

// Touch records a join at the given time.
func (c *CooldownCache) Touch(guildID sharedtypes.GuildID, userID sharedtypes.UserID, at time.Time) {
	c.entries.Store(cooldownKey{guildID, userID}, at)
	c.maybePrune(at)
}

// Remaining returns how long the user must still wait for delay to pass
// since their last join, or zero.
func (c *CooldownCache) Remaining(guildID sharedtypes.GuildID, userID sharedtypes.UserID, delay time.Duration, now time.Time) time.Duration {
	c.observeDelay(delay)
	last, ok := c.entries.Load(cooldownKey{guildID, userID})
	if !ok {
		return 0
	}
	if left := last.Add(delay).Sub(now); left > 0 {
		return left
	}
	return 0
}

// Len reports the number of cached entries.
func (c *CooldownCache) Len() int {
	return c.entries.Size()
}

func (c *CooldownCache) observeDelay(delay time.Duration) {
	for {
		cur := c.maxDelay.Load()
		if int64(delay) <= cur || c.maxDelay.CompareAndSwap(cur, int64(delay)) {
			return
		}
	}
}

// retention is how long an idle entry can still block a join.
func (c *CooldownCache) retention() time.Duration {
	return max(c.ttl, time.Duration(c.maxDelay.Load()))
}

func (c *CooldownCache) maybePrune(now time.Time) {
	keep := c.retention()
	last := c.lastPrune.Load()
	if now.UnixNano()-last < int64(keep) {
		return
	}
	if !c.lastPrune.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-keep)
	c.entries.Range(func(k cooldownKey, at time.Time) bool {
		if at.Before(cutoff) {
			c.entries.Delete(k)
		}
		return true
	})
}
