package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/cache"
	"github.com/rshade/nutriboard/internal/config"
	"github.com/rshade/nutriboard/internal/logging"
	"github.com/rshade/nutriboard/internal/session"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	apiURL     string
	cacheTTL   int
	output     string
	plain      bool
	noColor    bool
}

// app is the per-invocation state built by the root command's pre-run hook.
type app struct {
	flags globalFlags

	cfg       *config.Config
	client    *api.Client
	cache     cache.Store
	sessions  *session.Store
	logger    zerolog.Logger
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the nutriboard CLI.
// It wires up configuration, logging and the API client, then registers the
// dashboard subcommands.
func NewRootCmd(ver string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "nutriboard",
		Short:         "Terminal client for the recipe nutrition dashboard",
		Long:          "nutriboard: browse recipes, clusters and nutrition insights, and run the dashboard's admin tasks",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&a.flags.debug, "debug", false, "enable debug logging")
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default $NUTRIBOARD_HOME/config.yaml)")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "dashboard API base URL (overrides config and "+config.EnvAPIURL+")")
	pf.IntVar(&a.flags.cacheTTL, "cache-ttl", 0,
		"cache TTL in seconds (0 = use config default, overrides config file and env var)")
	pf.StringVarP(&a.flags.output, "output", "o", OutputTable, "output format: table, json, or ndjson")
	pf.BoolVar(&a.flags.plain, "plain", false, "non-interactive plain text output")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newRecipesCmd(a),
		newClustersCmd(a),
		newInsightsCmd(a),
		newSecurityCmd(a),
		newDashboardCmd(a),
		newAuthCmd(a),
		newCleanupCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

const rootCmdExample = `  # Browse keto recipes interactively
  nutriboard recipes --diet keto

  # Print page 3 of all recipes as JSON, sorted by protein
  nutriboard recipes --page 3 --sort protein:desc --output json

  # Group vegan recipes into 5 clusters
  nutriboard clusters --diet vegan --clusters 5

  # Show macro statistics and security status side by side
  nutriboard dashboard --diet paleo

  # Verify a 2FA code and store the session
  nutriboard auth 2fa-verify --code 123456

  # Initialize configuration
  nutriboard config init`

// setup loads configuration, configures logging and builds the API client.
func (a *app) setup(cmd *cobra.Command) error {
	if err := validateOutputFormat(a.flags.output); err != nil {
		return err
	}
	if a.flags.cacheTTL < 0 {
		return fmt.Errorf("cache-ttl must be >= 0, got %d", a.flags.cacheTTL)
	}

	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		if cmd.Annotations[annotationSkipConfig] == "" {
			return fmt.Errorf("loading config: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring unreadable config: %v\n", err)
		cfg = config.New()
	}
	if a.flags.apiURL != "" {
		cfg.API.BaseURL = a.flags.apiURL
	}
	if a.flags.cacheTTL > 0 {
		if ttlErr := cache.ValidateTTL(a.flags.cacheTTL); ttlErr != nil {
			return ttlErr
		}
		cfg.Cache.TTLSeconds = a.flags.cacheTTL
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return validateErr
	}
	a.cfg = cfg

	result := setupLogging(cmd, cfg, a.flags.debug)
	a.logResult = &result
	a.logger = logging.ComponentLogger(result.Logger, "cli")

	store, err := cache.Open(cfg.CacheOptions(), a.logger)
	if err != nil {
		a.logger.Warn().Err(err).Msg("response cache unavailable, continuing without it")
		store = nil
	}
	a.cache = store

	opts := []api.Option{
		api.WithFunctionKey(cfg.API.FunctionKey),
		api.WithTimeout(cfg.API.Timeout),
	}
	if store != nil && store.IsEnabled() {
		opts = append(opts, api.WithCache(store))
	}
	a.client = api.NewClient(cfg.API.BaseURL, opts...)

	sessionPath, err := config.DefaultSessionPath()
	if err != nil {
		return err
	}
	a.sessions = session.NewStore(sessionPath)

	a.logger.Debug().
		Ctx(cmd.Context()).
		Str("base_url", cfg.API.BaseURL).
		Str("config", cfg.Path()).
		Bool("cache", a.cache != nil && a.cache.IsEnabled()).
		Msg("client configured")
	return nil
}

// teardown closes log file handles.
func (a *app) teardown() error {
	if a.logResult != nil {
		return a.logResult.Close()
	}
	return nil
}
