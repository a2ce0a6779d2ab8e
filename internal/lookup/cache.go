package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/observability"
	"github.com/sirupsen/logrus"
)

const geocodeKeyPrefix = "geocode:"

// Geocoder - то, что оборачивает кэш
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// CacheClient - подмножество *redis.Client, нужное кэшу
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedGeocoder кэширует результаты геокодирования в Redis
type CachedGeocoder struct {
	inner   Geocoder
	client  CacheClient
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *logrus.Logger
}

func NewCachedGeocoder(inner Geocoder, client CacheClient, ttl time.Duration, metrics *observability.Metrics, logger *logrus.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode отдаёт координаты из кэша или запрашивает их у обёрнутого геокодера.
// Сбой Redis не ломает геокодирование.
func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	log := c.logger.WithField("address", address)
	key := geocodeKeyPrefix + address

	coords, err := c.get(ctx, key)
	switch {
	case err == nil:
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return coords, nil
	case errors.Is(err, redis.Nil):
		c.metrics.GeocodeCache.WithLabelValues("miss").Inc()
	default:
		c.metrics.GeocodeCache.WithLabelValues("error").Inc()
		log.WithError(err).Warn("Failed to read geocode cache")
	}

	coords, err = c.inner.Geocode(ctx, address)
	if err != nil {
		return models.Coordinates{}, err
	}

	if err := c.set(ctx, key, coords); err != nil {
		log.WithError(err).Warn("Failed to write geocode cache")
	}
	return coords, nil
}

func (c *CachedGeocoder) get(ctx context.Context, key string) (models.Coordinates, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return models.Coordinates{}, err
	}
	var coords models.Coordinates
	if err := json.Unmarshal(val, &coords); err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to unmarshal cached coordinates: %w", err)
	}
	return coords, nil
}

func (c *CachedGeocoder) set(ctx context.Context, key string, coords models.Coordinates) error {
	val, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("failed to marshal coordinates for cache: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set geocode cache: %w", err)
	}
	return nil
}
