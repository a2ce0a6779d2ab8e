package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/observability"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func TestMockGeocoder_WithinFullertonBox(t *testing.T) {
	g := NewMockGeocoder(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		c, err := g.Geocode(context.Background(), "Harbor Blvd")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c.Lat, mockMinLat)
		assert.LessOrEqual(t, c.Lat, mockMaxLat)
		assert.GreaterOrEqual(t, c.Lng, mockMinLng)
		assert.LessOrEqual(t, c.Lng, mockMaxLng)
		assert.Equal(t, c.Lat, round6(c.Lat), "six decimal places")
	}
}

func TestMockGeocoder_Deterministic(t *testing.T) {
	a, _ := NewMockGeocoder(rand.NewPCG(7, 7)).Geocode(context.Background(), "x")
	b, _ := NewMockGeocoder(rand.NewPCG(7, 7)).Geocode(context.Background(), "x")

	assert.Equal(t, a, b)
}

func TestMockGeocoder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockGeocoder(nil).Geocode(ctx, "x")

	var lerr *models.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockWeather_Ranges(t *testing.T) {
	w := NewMockWeather(rand.NewPCG(3, 4))

	for i := 0; i < 200; i++ {
		got, err := w.GetWeather(context.Background(), "Downtown Fullerton")
		require.NoError(t, err)
		assert.Equal(t, "Downtown Fullerton", got.Location)
		assert.GreaterOrEqual(t, got.Temperature, -10)
		assert.LessOrEqual(t, got.Temperature, 35)
		assert.Contains(t, WeatherConditions, got.Condition)
		assert.GreaterOrEqual(t, got.WindSpeed, 0)
		assert.LessOrEqual(t, got.WindSpeed, 50)
		assert.GreaterOrEqual(t, got.Visibility, 1)
		assert.LessOrEqual(t, got.Visibility, 10)
	}
}

func testMapbox(baseURL string, m *observability.Metrics) *MapboxGeocoder {
	g := NewMapboxGeocoder("test-token", 5*time.Second, m, testLogger())
	g.baseURL = baseURL
	return g
}

func TestMapboxGeocoder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "Harbor Blvd")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-token", r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(mapboxResponse{
			Features: []mapboxFeature{{Center: []float64{-117.9242, 33.8703}, PlaceName: "Harbor Blvd, Fullerton"}},
		}))
	}))
	defer srv.Close()
	m := observability.NewMetricsForTesting()

	c, err := testMapbox(srv.URL, m).Geocode(context.Background(), "Harbor Blvd")

	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Lat: 33.8703, Lng: -117.9242}, c)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("mapbox", "success")), 0)
}

func TestMapboxGeocoder_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()
	m := observability.NewMetricsForTesting()

	_, err := testMapbox(srv.URL, m).Geocode(context.Background(), "nowhere")

	var lerr *models.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, err, ErrNoResults)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("mapbox", "empty")), 0)
}

func TestMapboxGeocoder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()
	m := observability.NewMetricsForTesting()

	_, err := testMapbox(srv.URL, m).Geocode(context.Background(), "Harbor Blvd")

	var lerr *models.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Contains(t, err.Error(), "status 401")
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("mapbox", "error")), 0)
}

// fakeCache - CacheClient поверх map
type fakeCache struct {
	data   map[string]string
	getErr error
	setErr error
	ttl    time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

type countingGeocoder struct {
	calls  int
	coords models.Coordinates
	err    error
}

func (c *countingGeocoder) Geocode(context.Context, string) (models.Coordinates, error) {
	c.calls++
	return c.coords, c.err
}

func TestCachedGeocoder_MissThenHit(t *testing.T) {
	inner := &countingGeocoder{coords: models.Coordinates{Lat: 33.9, Lng: -117.8}}
	cache := newFakeCache()
	m := observability.NewMetricsForTesting()
	g := NewCachedGeocoder(inner, cache, time.Hour, m, testLogger())

	first, err := g.Geocode(context.Background(), "Downtown Fullerton")
	require.NoError(t, err)
	second, err := g.Geocode(context.Background(), "Downtown Fullerton")
	require.NoError(t, err)

	assert.Equal(t, inner.coords, first)
	assert.Equal(t, inner.coords, second)
	assert.Equal(t, 1, inner.calls)
	assert.Contains(t, cache.data, "geocode:Downtown Fullerton")
	assert.Equal(t, time.Hour, cache.ttl)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("hit")), 0)
}

func TestCachedGeocoder_RedisDownFallsThrough(t *testing.T) {
	inner := &countingGeocoder{coords: models.Coordinates{Lat: 34, Lng: -118}}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	m := observability.NewMetricsForTesting()

	c, err := NewCachedGeocoder(inner, cache, time.Hour, m, testLogger()).Geocode(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, inner.coords, c)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("error")), 0)
}

func TestCachedGeocoder_InnerErrorNotCached(t *testing.T) {
	inner := &countingGeocoder{err: &models.LookupError{Op: "geocode", Err: ErrNoResults}}
	cache := newFakeCache()

	_, err := NewCachedGeocoder(inner, cache, time.Hour, observability.NewMetricsForTesting(), testLogger()).
		Geocode(context.Background(), "x")

	require.Error(t, err)
	assert.Empty(t, cache.data)
}
