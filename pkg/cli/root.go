// Package cli implements the idx command line client.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/indexer-client/pkg/client"
	"github.com/DeBrosOfficial/indexer-client/pkg/config"
	"github.com/DeBrosOfficial/indexer-client/pkg/fallback"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
)

// BuildInfo carries version metadata populated via -ldflags at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// options holds the global flags.
type options struct {
	configPath string
	baseURL    string
	dev        bool
	format     string
	logLevel   string
}

// NewRootCommand builds the idx command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "idx",
		Short:         "Command line client for the indexing service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default ~/.debros/"+config.DefaultConfigFile+")")
	pf.StringVar(&opts.baseURL, "base-url", "", "Service base URL (overrides config and INDEXER_BASE_URL)")
	pf.BoolVar(&opts.dev, "dev", false, "Send x-dev: true and allow synthetic fallback")
	pf.StringVarP(&opts.format, "format", "o", "table", "Output format: table or json")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newHealthCommand(opts),
		newPointsCommand(opts),
		newActivityCommand(opts),
		newLeaderboardCommand(opts),
		newRegisterCommand(opts),
		newMeCommand(opts),
		newReferralCommand(opts),
		newVersionCommand(info),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(info BuildInfo) {
	root := NewRootCommand(info)
	if err := root.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration from file, environment and flags, in
// increasing order of precedence. remote selects full validation.
func loadConfig(cmd *cobra.Command, opts *options, remote bool) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		if p, err := config.DefaultPath(config.DefaultConfigFile); err == nil {
			path = p
		}
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Client.BaseURL = opts.baseURL
	}
	if flags.Changed("dev") {
		cfg.Client.Dev = opts.dev
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	var errs []error
	if remote {
		errs = cfg.Validate()
	} else {
		errs = cfg.ValidateLocal()
	}
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = "  - " + e.Error()
		}
		return nil, fmt.Errorf("invalid configuration:\n%s", strings.Join(msgs, "\n"))
	}
	return cfg, nil
}

// session is the per-invocation state of a command that talks to the service.
type session struct {
	cfg    *config.Config
	logger *logging.ColoredLogger
	client *client.Client
	out    io.Writer
	format string
}

func newSession(cmd *cobra.Command, opts *options) (*session, error) {
	cfg, err := loadConfig(cmd, opts, true)
	if err != nil {
		return nil, err
	}

	logger, err := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputFile)
	if err != nil {
		return nil, err
	}

	errOut := cmd.ErrOrStderr()
	ccfg := client.FromConfig(cfg, logger)
	ccfg.OnFallback = func(e fallback.Event) {
		if e.Outcome == fallback.Substituted {
			fmt.Fprintln(errOut, warnStyle.Render(fmt.Sprintf("! %s: live data unavailable, showing synthetic data", e.Name)))
		}
	}

	c, err := client.New(ccfg)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		client: c,
		out:    cmd.OutOrStdout(),
		format: opts.format,
	}, nil
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "idx %s", info.Version)
			if info.Commit != "" {
				fmt.Fprintf(out, " (commit %s)", info.Commit)
			}
			if info.Date != "" {
				fmt.Fprintf(out, " built %s", info.Date)
			}
			fmt.Fprintln(out)
		},
	}
}
