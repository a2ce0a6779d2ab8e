package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/observability"
	"github.com/sirupsen/logrus"
)

const mapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// ErrNoResults - геокодер не нашёл ни одного совпадения
var ErrNoResults = errors.New("no geocoding results")

// MapboxGeocoder - прямое геокодирование адреса через Mapbox Geocoding API
type MapboxGeocoder struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *logrus.Logger
}

func NewMapboxGeocoder(token string, timeout time.Duration, metrics *observability.Metrics, logger *logrus.Logger) *MapboxGeocoder {
	return &MapboxGeocoder{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: mapboxBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode возвращает координаты первого совпадения для адреса
func (g *MapboxGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	coords, err := g.forward(ctx, address)
	switch {
	case errors.Is(err, ErrNoResults):
		g.metrics.GeocodeRequests.WithLabelValues("mapbox", "empty").Inc()
	case err != nil:
		g.metrics.GeocodeRequests.WithLabelValues("mapbox", "error").Inc()
	default:
		g.metrics.GeocodeRequests.WithLabelValues("mapbox", "success").Inc()
		return coords, nil
	}

	g.logger.WithFields(logrus.Fields{
		"provider": "mapbox",
		"address":  address,
	}).WithError(err).Warn("Geocoding failed")
	return models.Coordinates{}, &models.LookupError{Op: "geocode", Err: err}
}

func (g *MapboxGeocoder) forward(ctx context.Context, address string) (models.Coordinates, error) {
	u := fmt.Sprintf("%s/%s.json", g.baseURL, url.PathEscape(address))
	params := url.Values{
		"access_token": {g.token},
		"limit":        {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return models.Coordinates{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mr mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return models.Coordinates{}, fmt.Errorf("decode response: %w", err)
	}

	// center приходит в порядке [lng, lat]
	if len(mr.Features) == 0 || len(mr.Features[0].Center) != 2 {
		return models.Coordinates{}, ErrNoResults
	}
	c := mr.Features[0].Center
	return models.Coordinates{Lat: round6(c[1]), Lng: round6(c[0])}, nil
}

type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	Center    []float64 `json:"center"`
	PlaceName string    `json:"place_name"`
}
