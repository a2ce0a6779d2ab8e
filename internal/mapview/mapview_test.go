package mapview

import (
	"bytes"
	"testing"
	"time"

	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activity(id string, p models.Priority, s models.Status, lat, lng float64) models.Activity {
	return models.Activity{
		ID:           id,
		CreatedAt:    time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
		ActivityType: "Hazmat Incident",
		Location:     "Orangethorpe Ave",
		Priority:     p,
		Status:       s,
		Coordinates:  models.Coordinates{Lat: lat, Lng: lng},
		AlertRadius:  2500,
	}
}

func TestCenter(t *testing.T) {
	assert.Equal(t, DefaultCenter, Center(nil))

	c := Center([]models.Activity{
		activity("a", models.PriorityLow, models.StatusActive, 34.0, -118.0),
		activity("b", models.PriorityLow, models.StatusActive, 33.8, -117.6),
	})
	assert.InDelta(t, 33.9, c.Lat, 1e-9)
	assert.InDelta(t, -117.8, c.Lng, 1e-9)
}

func TestRender_AlertBannerAndStats(t *testing.T) {
	records := []models.Activity{
		activity("a", models.PriorityCritical, models.StatusActive, 33.9, -117.9),
		activity("b", models.PriorityHigh, models.StatusInProgress, 33.95, -117.8),
	}
	var buf bytes.Buffer

	err := Render(&buf, records, Options{
		Title:           "Activity Monitor",
		GeneratedAt:     time.Date(2025, 4, 1, 10, 11, 12, 0, time.UTC),
		RefreshInterval: 30 * time.Second,
	})

	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, "<title>Activity Monitor</title>")
	assert.Contains(t, html, `class="alert-banner"`)
	assert.Contains(t, html, "Last Updated: 2025-04-01 10:11:12")
	assert.Contains(t, html, `<meta http-equiv="refresh" content="30">`)
	assert.Contains(t, html, "#9C27B0")
	assert.Contains(t, html, `"alert_radius":2500`)
}

func TestRender_NoBannerWhenResolved(t *testing.T) {
	records := []models.Activity{
		activity("a", models.PriorityCritical, models.StatusResolved, 33.9, -117.9),
	}
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, records, Options{}))

	html := buf.String()
	assert.NotContains(t, html, `class="alert-banner"`)
	assert.NotContains(t, html, `http-equiv="refresh"`)
}

func TestRender_EscapesRecordText(t *testing.T) {
	a := activity("a", models.PriorityLow, models.StatusActive, 33.9, -117.9)
	a.Description = "</script><script>alert(1)</script>"
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, []models.Activity{a}, Options{}))

	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, nil, Options{}))

	assert.Contains(t, buf.String(), "const activities = [];")
}
