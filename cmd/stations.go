package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
	"github.com/sumwatshade/floodwatch/cmd/logging"
	"github.com/sumwatshade/floodwatch/cmd/stations"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Print the station metadata table",
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

		svc := settings.newService(floodapi.WithLogger(log))
		list, err := fetchStations(cmd.Context(), svc, settings.StationLimit)
		if err != nil {
			log.Error().Err(err).Msg("fetching stations")
			return err
		}
		return printStationTable(cmd.OutOrStdout(), list)
	},
}

func init() {
	stationsCmd.Flags().Int("limit", floodapi.DefaultStationLimit, "maximum number of stations to list")
	cobra.CheckErr(viper.BindPFlag("stations.limit", stationsCmd.Flags().Lookup("limit")))
	rootCmd.AddCommand(stationsCmd)
}

func fetchStations(ctx context.Context, svc floodapi.Service, limit int) ([]floodapi.Station, error) {
	list, err := svc.ListStations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	return list, nil
}

// renderStationTable lays out the metadata table with lipgloss/table.
func renderStationTable(list []floodapi.Station) string {
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = stations.Row(i, s)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dividerStyle).
		Headers(stations.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	return t.Render()
}

func printStationTable(w io.Writer, list []floodapi.Station) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No stations available.")
		return err
	}
	_, err := fmt.Fprintln(w, renderStationTable(list))
	return err
}
