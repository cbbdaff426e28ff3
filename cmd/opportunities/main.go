package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbernardes19/torre-matheus/internal/config"
	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/internal/output"
	"github.com/mbernardes19/torre-matheus/internal/storage/memory"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

var (
	baseURL    string
	timeout    time.Duration
	locale     string
	jsonOutput bool
	rawOutput  bool
	verbose    bool

	cfg    config.Config
	logger *logging.Logger
	svc    opportunity.Service
)

var rootCmd = &cobra.Command{
	Use:           "opportunities",
	Short:         "Search Torre job opportunities from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		logger = logging.NewDevelopment(level)

		flags := cmd.Flags()
		if flags.Changed("base-url") {
			cfg.Torre.BaseURL = baseURL
		}
		if flags.Changed("timeout") {
			cfg.Torre.Timeout = timeout
		}
		if flags.Changed("locale") {
			cfg.Torre.Locale = locale
		}

		client := torre.NewClient(torre.Config{
			BaseURL: cfg.Torre.BaseURL,
			Timeout: cfg.Torre.Timeout,
			Logger:  logger,
		})

		svc, err = opportunity.NewService(
			opportunity.WithSearcher(client),
			opportunity.WithRepository(memory.NewSessionRepository(cfg.Search.SessionTTL)),
			opportunity.WithLocale(cfg.Torre.Locale),
			opportunity.WithLogger(logger),
		)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func outputFormat() output.Format {
	switch {
	case rawOutput:
		return output.Raw
	case jsonOutput:
		return output.JSON
	default:
		return output.Text
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "search API base URL (default from TORRE_BASE_URL or https://search.torre.co)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (default from TORRE_TIMEOUT_MS or 30s)")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "keyword locale for term searches (default from TORRE_LOCALE or en)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output the result view as JSON")
	rootCmd.PersistentFlags().BoolVar(&rawOutput, "raw", false, "output the upstream response body unchanged")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
