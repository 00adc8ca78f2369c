package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/philipparndt/stlview/internal/app"
	"github.com/philipparndt/stlview/internal/config"
	"github.com/philipparndt/stlview/version"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "stlview <file-or-url>",
	Short: "View STL 3D models",
	Long: `stlview opens an STL model in a 3D viewport. Models are read from a
local file or fetched over HTTP, framed to a normalized size and placed
on a reflective ground plane. Local files are watched and reloaded on
change.`,
	Version: version.GetFullVersion(),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		return app.Run(app.OptionsFromConfig(args[0]), log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing "+config.FileName)

	cobra.OnInitialize(func() {
		if err := config.Load(configDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
	})
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(config.GetString("logLevel"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
