package cmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
	"github.com/sumwatshade/floodwatch/cmd/logging"
)

// Settings is the resolved configuration for one run.
type Settings struct {
	BaseURL       string
	Timeout       time.Duration
	StationLimit  int
	ReadingsLimit int
	Log           logging.Config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", floodapi.DefaultBaseURL)
	v.SetDefault("api.timeout", floodapi.DefaultTimeout)
	v.SetDefault("stations.limit", floodapi.DefaultStationLimit)
	v.SetDefault("readings.limit", floodapi.DefaultReadingsLimit)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "")
}

// loadSettings reads and validates settings. When interactive is true and no
// log output is configured, logs go to a file so they don't tear the UI.
func loadSettings(v *viper.Viper, interactive bool) (Settings, error) {
	s := Settings{
		BaseURL:       v.GetString("api.base_url"),
		Timeout:       v.GetDuration("api.timeout"),
		StationLimit:  v.GetInt("stations.limit"),
		ReadingsLimit: v.GetInt("readings.limit"),
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Settings{}, fmt.Errorf("invalid api.base_url %q", s.BaseURL)
	}
	if s.Timeout <= 0 {
		return Settings{}, fmt.Errorf("invalid api.timeout %s (must be positive)", s.Timeout)
	}
	if s.StationLimit <= 0 {
		return Settings{}, fmt.Errorf("invalid stations.limit %d (must be positive)", s.StationLimit)
	}
	if s.ReadingsLimit <= 0 {
		return Settings{}, fmt.Errorf("invalid readings.limit %d (must be positive)", s.ReadingsLimit)
	}

	if s.Log.Output == "" {
		s.Log.Output = "stderr"
		if interactive {
			s.Log.Output = defaultLogFile()
		}
	}
	return s, nil
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "discard"
	}
	return filepath.Join(home, ".floodwatch", "floodwatch.log")
}

// newService builds the API client from settings.
func (s Settings) newService(opts ...floodapi.Option) floodapi.Service {
	base := []floodapi.Option{
		floodapi.WithBaseURL(s.BaseURL),
		floodapi.WithTimeout(s.Timeout),
	}
	return floodapi.NewService(append(base, opts...)...)
}
