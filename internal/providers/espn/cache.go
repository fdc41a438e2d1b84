package espn

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a scoreboard is reused.
const DefaultCacheTTL = time.Hour

// ScoreboardCache holds scoreboards by date with a TTL. It is safe for
// concurrent use.
type ScoreboardCache struct {
	mu       sync.Mutex
	games    map[string][]Game
	cachedAt map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewScoreboardCache creates a cache. A non-positive ttl selects
// DefaultCacheTTL.
func NewScoreboardCache(ttl time.Duration) *ScoreboardCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ScoreboardCache{
		games:    make(map[string][]Game),
		cachedAt: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the scoreboard of date if present and not expired.
func (c *ScoreboardCache) Get(date time.Time) ([]Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(date)
	games, ok := c.games[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(c.cachedAt[key]) > c.ttl {
		delete(c.games, key)
		delete(c.cachedAt, key)
		return nil, false
	}
	return games, true
}

// Set stores the scoreboard of date and evicts every expired date, so a long
// backfill never holds more than one TTL's worth of scoreboards.
func (c *ScoreboardCache) Set(date time.Time, games []Game) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, at := range c.cachedAt {
		if now.Sub(at) > c.ttl {
			delete(c.games, key)
			delete(c.cachedAt, key)
		}
	}
	key := cacheKey(date)
	c.games[key] = games
	c.cachedAt[key] = now
}

func cacheKey(date time.Time) string {
	return date.Format("20060102")
}
