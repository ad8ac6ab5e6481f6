package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hiredesk/hiredesk/internal/domain"
)

// OfferOpenCache is a simple in-memory cache for offer availability checks.
// avoids hitting the database on every application submission.
// uses a simple TTL-based expiration strategy.
type OfferOpenCache struct {
	entries map[string]*offerEntry
	mu      sync.RWMutex
	ttl     time.Duration
	repo    domain.JobOfferRepository
}

type offerEntry struct {
	exists    bool
	isOpen    bool
	expiresAt time.Time
}

// NewOfferOpenCache creates a new offer availability cache.
func NewOfferOpenCache(repo domain.JobOfferRepository, ttl time.Duration) *OfferOpenCache {
	return &OfferOpenCache{
		entries: make(map[string]*offerEntry),
		ttl:     ttl,
		repo:    repo,
	}
}

// CheckOpen checks if an offer exists and accepts applications.
// returns (exists, isOpen, error).
// uses cache if available, otherwise queries the database.
func (c *OfferOpenCache) CheckOpen(ctx context.Context, id domain.OfferID) (exists, isOpen bool, err error) {
	idStr := id.String()

	// fast path: check cache
	c.mu.RLock()
	entry, ok := c.entries[idStr]
	if ok && time.Now().Before(entry.expiresAt) {
		c.mu.RUnlock()
		return entry.exists, entry.isOpen, nil
	}
	c.mu.RUnlock()

	// slow path: query database
	offer, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			// cache negative result
			c.mu.Lock()
			c.entries[idStr] = &offerEntry{
				exists:    false,
				isOpen:    false,
				expiresAt: time.Now().Add(c.ttl),
			}
			c.mu.Unlock()
			return false, false, nil
		}
		return false, false, err
	}

	// cache positive result
	c.mu.Lock()
	c.entries[idStr] = &offerEntry{
		exists:    true,
		isOpen:    offer.IsPublished(),
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()

	return true, offer.IsPublished(), nil
}

// Invalidate removes an offer from the cache.
// call this when an offer is published or closed.
func (c *OfferOpenCache) Invalidate(id domain.OfferID) {
	c.mu.Lock()
	delete(c.entries, id.String())
	c.mu.Unlock()
}

// Size returns the current number of cached entries.
func (c *OfferOpenCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries.
// call this periodically to prevent memory growth.
func (c *OfferOpenCache) Cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}
