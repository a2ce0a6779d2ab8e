package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/report"
	"github.com/shenikar/activity_tracker/internal/repository"
)

var exportTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func writeDataFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "activities.json")
	store := repository.NewStore(repository.NewFileStorage(path), clockwork.NewFakeClockAt(exportTime.Add(-time.Hour)))

	_, err := store.Create(models.ActivityInput{
		ActivityType: "Fire Emergency",
		Location:     "Downtown Fullerton",
		Priority:     models.PriorityCritical,
		Coordinates:  models.Coordinates{Lat: 33.87, Lng: -117.92},
		AlertRadius:  1500,
	})
	require.NoError(t, err)
	_, err = store.Create(models.ActivityInput{
		ActivityType: "Road Closure",
		Location:     "Harbor Blvd",
		Priority:     models.PriorityLow,
		Coordinates:  models.Coordinates{Lat: 33.88, Lng: -117.93},
		AlertRadius:  500,
	})
	require.NoError(t, err)
	return path
}

func TestRun_WritesReportAndMap(t *testing.T) {
	dir := t.TempDir()
	data := writeDataFile(t, dir)
	mapPath := filepath.Join(dir, "map.html")

	var out, errOut bytes.Buffer
	code := run([]string{"--data", data, "--out", dir, "--map", mapPath}, &out, &errOut, clockwork.NewFakeClockAt(exportTime))
	require.Equal(t, 0, code, errOut.String())

	reportPath := filepath.Join(dir, report.FileName(exportTime))
	assert.Contains(t, out.String(), reportPath)
	assert.Contains(t, out.String(), mapPath)

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var doc report.Report
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 2, doc.TotalActivities)
	assert.Equal(t, 1, doc.CriticalEmergencies)
	assert.Equal(t, "Fire Emergency", doc.Activities[0].ActivityType)

	page, err := os.ReadFile(mapPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "ICE Activity Monitor")
	assert.NotContains(t, string(page), `http-equiv="refresh"`)
}

func TestRun_FiltersByPriority(t *testing.T) {
	dir := t.TempDir()
	data := writeDataFile(t, dir)

	var out, errOut bytes.Buffer
	code := run([]string{"--data", data, "--out", dir, "--priority", "Low"}, &out, &errOut, clockwork.NewFakeClockAt(exportTime))
	require.Equal(t, 0, code, errOut.String())

	raw, err := os.ReadFile(filepath.Join(dir, report.FileName(exportTime)))
	require.NoError(t, err)
	var doc report.Report
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Activities, 1)
	assert.Equal(t, "Road Closure", doc.Activities[0].ActivityType)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	data := writeDataFile(t, dir)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: "unknown flag"},
		{name: "positional argument", args: []string{"--data", data, "extra"}, wantErr: "unexpected arguments"},
		{name: "empty data path", args: []string{"--data", ""}, wantErr: "--data must not be empty"},
		{name: "missing data file", args: []string{"--data", filepath.Join(dir, "none.json")}, wantErr: "not found"},
		{name: "bad status filter", args: []string{"--data", data, "--status", "Pending"}, wantErr: "unknown status filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			code := run(tt.args, &out, &errOut, clockwork.NewFakeClockAt(exportTime))
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut.String(), tt.wantErr)
			assert.Empty(t, out.String())
		})
	}
}
