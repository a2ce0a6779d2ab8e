// Package lookup содержит реализации геокодера и погодного сервиса.
package lookup

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/shenikar/activity_tracker/internal/models"
)

// Границы района Fullerton, CA для заглушки геокодера
const (
	mockMinLat = 33.8
	mockMaxLat = 34.2
	mockMinLng = -118.0
	mockMaxLng = -117.5
)

// WeatherConditions - возможные состояния погоды заглушки
var WeatherConditions = []string{"Clear", "Cloudy", "Rainy", "Stormy", "Snowy"}

// lockedRand - *rand.Rand не потокобезопасен
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(src rand.Source) *lockedRand {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &lockedRand{r: rand.New(src)}
}

func (l *lockedRand) uniform(lo, hi float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lo + l.r.Float64()*(hi-lo)
}

// intn возвращает целое из [lo, hi] включительно
func (l *lockedRand) intn(lo, hi int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lo + l.r.IntN(hi-lo+1)
}

// MockGeocoder возвращает случайную точку в районе Fullerton
type MockGeocoder struct {
	rnd *lockedRand
}

// NewMockGeocoder создаёт заглушку; src == nil - случайный источник
func NewMockGeocoder(src rand.Source) *MockGeocoder {
	return &MockGeocoder{rnd: newLockedRand(src)}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, &models.LookupError{Op: "geocode", Err: err}
	}
	return models.Coordinates{
		Lat: round6(g.rnd.uniform(mockMinLat, mockMaxLat)),
		Lng: round6(g.rnd.uniform(mockMinLng, mockMaxLng)),
	}, nil
}

// MockWeather возвращает случайную погоду
type MockWeather struct {
	rnd *lockedRand
}

func NewMockWeather(src rand.Source) *MockWeather {
	return &MockWeather{rnd: newLockedRand(src)}
}

func (w *MockWeather) GetWeather(ctx context.Context, location string) (models.Weather, error) {
	if err := ctx.Err(); err != nil {
		return models.Weather{}, &models.LookupError{Op: "weather", Err: err}
	}
	return models.Weather{
		Location:    location,
		Temperature: w.rnd.intn(-10, 35),
		Condition:   WeatherConditions[w.rnd.intn(0, len(WeatherConditions)-1)],
		WindSpeed:   w.rnd.intn(0, 50),
		Visibility:  w.rnd.intn(1, 10),
	}, nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
