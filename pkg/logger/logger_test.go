package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "debug", "")

	log.WithField("activity_id", "a-1").Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "a-1", entry["activity_id"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "info", "TEXT")

	log.Info("hello")

	assert.Contains(t, buf.String(), `msg=hello`)
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	log := NewWithOutput(&bytes.Buffer{}, "verbose", "json")

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
