package cache

// StatsSnapshot is a point-in-time view of a cache's counters
type StatsSnapshot struct {
	Name      string  `json:"name"`
	Entries   int     `json:"entries"`
	Version   int     `json:"version"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Sets      uint64  `json:"sets"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// Stats returns a snapshot of the counters
func (c *ResponseCache) Stats() StatsSnapshot {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	c.mu.Lock()
	entries := len(c.entries)
	version := c.version
	c.mu.Unlock()

	return StatsSnapshot{
		Name:      c.name,
		Entries:   entries,
		Version:   version,
		Hits:      hits,
		Misses:    misses,
		Sets:      c.sets.Load(),
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}
