package logutils

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tada/internal/core/logging"
)

func TestNew_invalid_level(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	closer()
}

func TestNew_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tada.log")

	logger, closer, err := New("info", path)
	require.NoError(t, err)

	logger.Debug().Msg("dropped")
	logger.Info().Msg("kept")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestNewWithWriter_context_fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(zerolog.DebugLevel, &buf)

	ctx := logging.WithRequestID(context.Background(), "req-9")
	logger.Info().Ctx(ctx).Msg("served")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-9", entry["request_id"])
	assert.Contains(t, entry, "time")
}
