package cmd

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := loadSettings(newViper(), false)
	require.NoError(t, err)

	assert.Equal(t, floodapi.DefaultBaseURL, s.BaseURL)
	assert.Equal(t, 10*time.Second, s.Timeout)
	assert.Equal(t, 50, s.StationLimit)
	assert.Equal(t, 100, s.ReadingsLimit)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "stderr", s.Log.Output)
}

func TestLoadSettings_InteractiveLogsToFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := loadSettings(newViper(), true)
	require.NoError(t, err)
	assert.Contains(t, s.Log.Output, "floodwatch.log")

	v := newViper()
	v.Set("log.output", "stdout")
	s, err = loadSettings(v, true)
	require.NoError(t, err)
	assert.Equal(t, "stdout", s.Log.Output, "explicit output wins")
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "relative base url", key: "api.base_url", value: "flood-monitoring"},
		{name: "zero timeout", key: "api.timeout", value: "0s"},
		{name: "negative station limit", key: "stations.limit", value: -1},
		{name: "zero readings limit", key: "readings.limit", value: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)

			_, err := loadSettings(v, false)
			assert.Error(t, err)
		})
	}
}
