package logging

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty is valid", cfg: Config{}},
		{name: "console debug", cfg: Config{Level: "debug", Format: FormatConsole}},
		{name: "file with path", cfg: Config{Output: OutputFile, File: "/tmp/x.log"}},
		{name: "file without path", cfg: Config{Output: OutputFile}, wantErr: true},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
		{name: "bad format", cfg: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nutriboard.log")

	result := NewLoggerWithPath(Config{Level: "debug", Output: OutputFile, File: path})
	t.Cleanup(func() { _ = result.Close() })

	assert.True(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, path, result.FilePath)
	assert.Equal(t, zerolog.DebugLevel, result.Logger.GetLevel())

	result.Logger.Info().Msg("hello")
	require.NoError(t, result.Close())
	require.NoError(t, result.Close(), "Close is idempotent")
	assert.FileExists(t, path)
}

func TestNewLoggerWithPath_Stderr(t *testing.T) {
	result := NewLoggerWithPath(Config{Level: "nonsense"})
	assert.False(t, result.UsingFile)
	assert.Equal(t, zerolog.InfoLevel, result.Logger.GetLevel())
	assert.NoError(t, result.Close())
}

func TestTraceIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	generated := GetOrGenerateTraceID(ctx)
	assert.Len(t, generated, 26, "ULIDs are 26 characters")

	ctx = ContextWithTraceID(ctx, "01HZZTRACE")
	assert.Equal(t, "01HZZTRACE", GetOrGenerateTraceID(ctx))
}

func TestFromContext(t *testing.T) {
	t.Run("no logger", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		logger.Info().Msg("dropped")
	})

	t.Run("logger with trace id", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)
		ctx := ContextWithTraceID(base.WithContext(context.Background()), "01HTRACE")

		FromContext(ctx).Info().Msg("fetched")
		assert.Contains(t, buf.String(), `"trace_id":"01HTRACE"`)
		assert.Contains(t, buf.String(), `"message":"fetched"`)
	})

	t.Run("component logger", func(t *testing.T) {
		var buf bytes.Buffer
		ComponentLogger(zerolog.New(&buf), "api").Info().Msg("x")
		assert.Contains(t, buf.String(), `"component":"api"`)
	})
}
