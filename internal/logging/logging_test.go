package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewWritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "hotkeys.log")
	logger, closer, err := New(Config{Level: zerolog.InfoLevel, Format: "json", Path: path})
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Info().Str("binding", "CTRL+K").Msg("registered")
	logger.Debug().Msg("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"binding":"CTRL+K"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewWritesToOut(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: zerolog.DebugLevel, Format: "console", Out: &buf})
	require.NoError(t, err)
	assert.Nil(t, closer)

	logger.Debug().Str("sequence", "G>I").Msg("hotkey activated")
	assert.Contains(t, buf.String(), "hotkey activated")
	assert.Contains(t, buf.String(), "sequence=G>I")
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	logger, closer, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, closer)

	ctx := WithComponent(WithContext(context.Background(), logger), "watcher")
	assert.NotEqual(t, zerolog.Disabled, FromContext(ctx).GetLevel())
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}
