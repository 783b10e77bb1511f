package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
	"github.com/sumwatshade/floodwatch/cmd/logging"
	"github.com/sumwatshade/floodwatch/cmd/readings"
	"github.com/sumwatshade/floodwatch/cmd/stations"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print a water-level chart for one station",
	Long: `Fetches the latest readings of a station and prints the chart once.
Without --station an interactive picker lists the stations first; picking
"No station" prints the station table instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(viper.GetViper(), false)
		if err != nil {
			return err
		}
		log, closer, err := logging.New(settings.Log)
		if err != nil {
			return err
		}
		defer closer.Close()

		flags := cmd.Flags()
		reference, _ := flags.GetString("station")
		width, _ := flags.GetInt("width")
		height, _ := flags.GetInt("height")

		svc := settings.newService(floodapi.WithLogger(log))
		ctx := cmd.Context()

		if reference == "" {
			list, err := fetchStations(ctx, svc, settings.StationLimit)
			if err != nil {
				log.Error().Err(err).Msg("fetching stations")
				return err
			}
			reference, err = pickStation(list)
			if err != nil {
				return err
			}
			if reference == "" {
				return printStationTable(cmd.OutOrStdout(), list)
			}
		}

		err = printChart(ctx, cmd.OutOrStdout(), svc, reference, settings.ReadingsLimit, readings.LineChartRenderer{}, width, height)
		if err != nil {
			log.Error().Err(err).Str("station", reference).Msg("fetching readings")
		}
		return err
	},
}

func init() {
	chartCmd.Flags().StringP("station", "s", "", "station reference (prompted when empty)")
	chartCmd.Flags().Int("width", 80, "chart width in columns")
	chartCmd.Flags().Int("height", 16, "chart height in rows")
	chartCmd.Flags().Int("limit", floodapi.DefaultReadingsLimit, "number of readings to request")
	cobra.CheckErr(viper.BindPFlag("readings.limit", chartCmd.Flags().Lookup("limit")))
	rootCmd.AddCommand(chartCmd)
}

// stationOptions builds the picker entries; the first one is the empty selection.
func stationOptions(list []floodapi.Station) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(list)+1)
	opts = append(opts, huh.NewOption(stations.NoStationLabel, ""))
	for _, s := range list {
		name := s.CatchmentName
		if name == "" {
			name = s.Label
		}
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", name, s.Reference), s.Reference))
	}
	return opts
}

func pickStation(list []floodapi.Station) (string, error) {
	var reference string
	err := huh.NewSelect[string]().
		Title("Select a measurement station").
		Options(stationOptions(list)...).
		Height(12).
		Value(&reference).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", nil
	}
	return reference, err
}

// printChart runs one fetch, transform, render, release cycle.
func printChart(ctx context.Context, w io.Writer, svc floodapi.Service, reference string, limit int, r readings.Renderer, width, height int) error {
	list, err := svc.GetReadings(ctx, reference, limit)
	if err != nil {
		return fmt.Errorf("readings for %s: %w", reference, err)
	}
	chart := r.NewChart(readings.Transform(list), width, height)
	defer chart.Destroy()

	_, err = fmt.Fprintf(w, "%s · %s\n%s\n", readings.SeriesLabel, reference, chart.View())
	return err
}
