/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
	"github.com/sumwatshade/floodwatch/cmd/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "floodwatch",
	Short: "Browse river gauge stations and plot their recent water levels",
	Long: `Lists monitoring stations from the Environment Agency flood-monitoring API
and charts the latest water-level readings of the selected station.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(viper.GetViper(), true)
		if err != nil {
			return err
		}
		log, closer, err := logging.New(settings.Log)
		if err != nil {
			return err
		}
		defer closer.Close()

		svc := settings.newService(floodapi.WithLogger(log))
		m := initialModel(cmd.Context(), svc, settings, log)
		defer m.readings.Close()

		log.Info().Str("base_url", settings.BaseURL).Msg("starting ui")
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err = p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.floodwatch.yaml)")
	flags.String("base-url", floodapi.DefaultBaseURL, "flood-monitoring API root")
	flags.Duration("timeout", floodapi.DefaultTimeout, "HTTP request timeout")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("log-file", "", "log destination: stderr, stdout, discard or a file path")

	cobra.CheckErr(viper.BindPFlag("api.base_url", flags.Lookup("base-url")))
	cobra.CheckErr(viper.BindPFlag("api.timeout", flags.Lookup("timeout")))
	cobra.CheckErr(viper.BindPFlag("log.level", flags.Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log.format", flags.Lookup("log-format")))
	cobra.CheckErr(viper.BindPFlag("log.output", flags.Lookup("log-file")))

	setDefaults(viper.GetViper())
}

// initConfig reads in config file, .env and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: reading .env:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".floodwatch" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".floodwatch")
	}

	viper.SetEnvPrefix("FLOODWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
