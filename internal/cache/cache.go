package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/pacelink/internal/telemetry/metrics"
	"github.com/2beens/pacelink/internal/workout"
)

const (
	megabyte = 1024 * 1024

	DefaultSizeMB = 32
	DefaultTTL    = 5 * time.Minute

	keyPrefix = "public-workout::"
)

// PublicWorkouts caches workouts behind share slugs. Shared workouts change
// rarely, so a short TTL is enough to stay fresh after an edit.
type PublicWorkouts struct {
	cache          *freecache.Cache
	ttlSeconds     int
	metricsManager *metrics.Manager
}

func NewPublicWorkouts(sizeMB int, ttl time.Duration, metricsManager *metrics.Manager) *PublicWorkouts {
	if sizeMB <= 0 {
		sizeMB = DefaultSizeMB
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PublicWorkouts{
		cache:          freecache.NewCache(sizeMB * megabyte),
		ttlSeconds:     int(ttl.Seconds()),
		metricsManager: metricsManager,
	}
}

func cacheKey(shareSlug string) []byte {
	return []byte(keyPrefix + shareSlug)
}

func (c *PublicWorkouts) Get(shareSlug string) (*workout.Public, bool) {
	raw, err := c.cache.Get(cacheKey(shareSlug))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("get public workout [%s] from cache: %s", shareSlug, err)
		}
		c.metricsManager.CounterPublicCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	var w workout.Public
	if err := json.Unmarshal(raw, &w); err != nil {
		log.Errorf("unmarshal cached public workout [%s]: %s", shareSlug, err)
		c.cache.Del(cacheKey(shareSlug))
		c.metricsManager.CounterPublicCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	c.metricsManager.CounterPublicCache.WithLabelValues("hit").Inc()
	return &w, true
}

func (c *PublicWorkouts) Set(w *workout.Public) error {
	if w == nil || w.ShareSlug == "" {
		return errors.New("public workout without share slug")
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal public workout: %w", err)
	}
	return c.cache.Set(cacheKey(w.ShareSlug), raw, c.ttlSeconds)
}

func (c *PublicWorkouts) Invalidate(shareSlug string) {
	c.cache.Del(cacheKey(shareSlug))
}
