package commands

import (
	"lanesim/internal/config"
	"lanesim/internal/control"
	"lanesim/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "lanesim",
	Short: "Lanesim is a Monte-Carlo freight lane simulator",
	Long: `A decision-support server that simulates landed cost and transit time
distributions for freight lanes and evaluates carrier quotes against them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Lanesim starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		server, err := control.NewServer(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize server")
		}
		log.Info().Msg("Server starting Stdio loop")
		server.Serve()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
