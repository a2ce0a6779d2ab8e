package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/activity_tracker/internal/config"
	"github.com/shenikar/activity_tracker/internal/models"
	"github.com/shenikar/activity_tracker/internal/repository"
	"github.com/shenikar/activity_tracker/pkg/logger"
)

func TestOpenStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":`), 0o600))
	var logs bytes.Buffer
	cfg := &config.Config{DataFile: path, SeedSampleData: true}

	store, seed := openStore(cfg, logger.NewWithOutput(&logs, "info", "json"))

	require.NotNil(t, store)
	assert.Empty(t, store.List())
	assert.False(t, seed, "a damaged file must not be replaced by sample data")
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "Failed to load activities")

	// Файл не трогаем до первого изменения
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":`, string(raw))

	// Первое изменение перезаписывает файл корректным документом
	_, err = store.Create(models.ActivityInput{
		ActivityType: "Fire Emergency",
		Location:     "Downtown Fullerton",
		Coordinates:  models.Coordinates{Lat: 33.87, Lng: -117.92},
	})
	require.NoError(t, err)
	reloaded := repository.NewStore(repository.NewFileStorage(path), nil)
	found, err := reloaded.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, reloaded.List(), 1)
}

func TestOpenStore_MissingFile(t *testing.T) {
	tests := []struct {
		name     string
		seedData bool
		wantSeed bool
	}{
		{name: "seeding enabled", seedData: true, wantSeed: true},
		{name: "seeding disabled", seedData: false, wantSeed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{DataFile: filepath.Join(t.TempDir(), "none.json"), SeedSampleData: tt.seedData}

			store, seed := openStore(cfg, logger.NewWithOutput(&bytes.Buffer{}, "info", "json"))

			assert.Empty(t, store.List())
			assert.Equal(t, tt.wantSeed, seed)
		})
	}
}

func TestOpenStore_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0o600))
	cfg := &config.Config{DataFile: path, SeedSampleData: true}

	store, seed := openStore(cfg, logger.NewWithOutput(&bytes.Buffer{}, "info", "json"))

	assert.Empty(t, store.List())
	assert.False(t, seed, "an existing empty document is not reseeded")
}
