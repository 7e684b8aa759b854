package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/timelog/internal/config"
	"github.com/existflow/timelog/internal/logger"
)

var (
	logLevel   string
	logFile    string
	logConsole bool

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "timelog",
	Short: "Timelog - personal stopwatch time tracking",
	Long: `Timelog tracks start/stop intervals against a project/task pair,
stores them locally and pulls valid projects and tasks from your issue tracker.

Run 'timelog' without arguments to watch the running timer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		appConfig = cfg
		logger.Info("Timelog started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: runWatch,

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Timelog exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
}
