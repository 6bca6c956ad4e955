package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/xmsctl/config"
	"github.com/s0up4200/xmsctl/filter"
	"github.com/s0up4200/xmsctl/xms"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	filters *filter.Manager

	// Command flags
	outputFormat string
	noConfirm    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "xmsctl",
	Short: "A command line client for the XMS SMS messaging API",
	Long: `xmsctl sends and inspects SMS batches, delivery reports, recipient
groups and inbound messages of an XMS service plan.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&noConfirm, "yes", "y", false, "skip confirmation prompts")

	rootCmd.AddCommand(batchesCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(inboundsCmd)
}

// initializeApp loads the configuration, logger and filter presets
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	if outputFormat != "" {
		switch outputFormat {
		case "table", "json", "yaml":
			cfg.Output.Format = outputFormat
		default:
			return fmt.Errorf("invalid output format: %s (must be 'table', 'json' or 'yaml')", outputFormat)
		}
	}

	filters = filter.NewManager(
		filter.WithCompiler(filter.NewExprCompiler(filter.WithCache(cfg.Filter.CacheSize))),
	)
	if err := filters.RegisterPresets(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter presets: %w", err)
	}

	logger.Debug().
		Str("endpoint", cfg.XMS.Endpoint).
		Str("service_plan_id", cfg.XMS.ServicePlanID).
		Strs("presets", filters.Presets()).
		Msg("Configuration loaded")

	return nil
}

// newClient creates an XMS client from the loaded configuration. Every
// caller owns the returned client and must close it.
func newClient() (*xms.Client, error) {
	client, err := xms.NewClient(cfg.XMS.ServicePlanID, cfg.XMS.Token,
		xms.WithEndpoint(cfg.XMS.Endpoint),
		xms.WithTimeout(cfg.XMS.Timeout),
		xms.WithLogger(logger.With().Str("component", "xms").Logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create XMS client: %w", err)
	}
	return client, nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// skipInit replaces initializeApp for commands that work without a config.
func skipInit(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
	return nil
}
