package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/indexer-client/pkg/config"
	"github.com/DeBrosOfficial/indexer-client/pkg/devserver"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
)

// NewDevServerCommand builds the command that runs the local dev server.
func NewDevServerCommand(info BuildInfo) *cobra.Command {
	opts := &options{}
	var (
		listen     string
		latency    time.Duration
		failPaths  []string
		failStatus int
		rateLimit  int
		rateBurst  int
	)

	cmd := &cobra.Command{
		Use:           "devserver",
		Short:         "Run a local stand-in for the indexing service",
		Version:       info.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, false)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("listen") {
				cfg.DevServer.ListenAddr = listen
			}
			if flags.Changed("latency") {
				cfg.DevServer.Latency = latency
			}
			if flags.Changed("fail-path") {
				cfg.DevServer.FailPaths = failPaths
			}
			if flags.Changed("fail-status") {
				cfg.DevServer.FailStatus = failStatus
			}
			if flags.Changed("rate-limit") {
				cfg.DevServer.RateLimit = rateLimit
			}
			if flags.Changed("rate-burst") {
				cfg.DevServer.RateBurst = rateBurst
			}
			if errs := cfg.ValidateServer(); len(errs) > 0 {
				return fmt.Errorf("invalid dev server configuration: %v", errs[0])
			}

			logger, err := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return devserver.New(cfg.DevServer, logger).ListenAndServe(ctx)
		},
	}

	pf := cmd.Flags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default ~/.debros/indexer.yaml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&listen, "listen", "", "Listen address (default "+config.DefaultDevServerAddr+")")
	pf.DurationVar(&latency, "latency", 0, "Artificial delay added to every response")
	pf.StringSliceVar(&failPaths, "fail-path", nil, "Path prefix answered with --fail-status (repeatable)")
	pf.IntVar(&failStatus, "fail-status", 503, "Status used for --fail-path")
	pf.IntVar(&rateLimit, "rate-limit", 0, "Requests per minute per caller (0 disables)")
	pf.IntVar(&rateBurst, "rate-burst", 0, "Burst size for --rate-limit (defaults to the per-minute rate)")
	return cmd
}
