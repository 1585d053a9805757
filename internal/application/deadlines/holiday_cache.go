package deadlines

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/prometheus"
)

// CachePort abstracts the cache backend so the application layer stays free
// of redis specifics.
type CachePort interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachedHolidayProvider decorates a holiday provider with a cache.  Holiday
// sets are pure functions of (jurisdiction, year), so cached entries never go
// stale within their TTL; the TTL only bounds memory in the cache backend.
type CachedHolidayProvider struct {
	src     calendar.Provider
	cache   CachePort
	ttl     time.Duration
	log     logging.Logger
	metrics *prometheus.EngineMetrics
}

// NewCachedHolidayProvider wraps src with the cache.
func NewCachedHolidayProvider(src calendar.Provider, cache CachePort, ttl time.Duration,
	log logging.Logger, metrics *prometheus.EngineMetrics) *CachedHolidayProvider {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopEngineMetrics()
	}
	return &CachedHolidayProvider{src: src, cache: cache, ttl: ttl, log: log.Named("holiday_cache"), metrics: metrics}
}

func (p *CachedHolidayProvider) HolidaysFor(jurisdiction string, year int) []calendar.Holiday {
	ctx := context.Background()
	key := fmt.Sprintf("holidays:%s:%d", jurisdiction, year)

	var cached []calendar.Holiday
	hit, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.log.Warn("holiday cache read failed", logging.String("key", key), logging.Err(err))
	}
	if hit {
		p.metrics.HolidayCacheHits.Inc()
		return cached
	}
	p.metrics.HolidayCacheMisses.Inc()

	holidays := p.src.HolidaysFor(jurisdiction, year)
	if err := p.cache.Set(ctx, key, holidays, p.ttl); err != nil {
		p.log.Warn("holiday cache write failed", logging.String("key", key), logging.Err(err))
	}
	return holidays
}

func (p *CachedHolidayProvider) Known(jurisdiction string) bool {
	return p.src.Known(jurisdiction)
}

// Jurisdictions passes through to the source provider when it supports
// enumeration.
func (p *CachedHolidayProvider) Jurisdictions() []string {
	if lister, ok := p.src.(JurisdictionLister); ok {
		return lister.Jurisdictions()
	}
	return nil
}
