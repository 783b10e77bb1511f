package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "", want: zerolog.InfoLevel},
		{in: "trace", want: zerolog.TraceLevel},
		{in: "DeBuG", want: zerolog.DebugLevel},
		{in: " warn ", want: zerolog.WarnLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "floodwatch.log")

	logger, closer, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info().Str("station", "S1").Msg("hello")
	logger.Debug().Msg("filtered out")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"station":"S1"`)
	assert.Contains(t, out, `"session":`)
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "filtered out")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Config{Level: "chatty", Output: "discard"})
	assert.Error(t, err)
}
