package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/indexer-client/pkg/config"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
	"github.com/DeBrosOfficial/indexer-client/pkg/referral"
)

// openTracker opens the configured referral store. The returned func closes it.
func openTracker(cfg *config.Config, logger *logging.ColoredLogger) (*referral.Tracker, func() error, error) {
	policy, err := referral.ParsePolicy(cfg.Referral.Policy)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := referral.OpenStore(cfg.Referral)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open referral store: %w", err)
	}
	return referral.NewTracker(store, referral.Options{
		Param:  cfg.Referral.Param,
		Key:    cfg.Referral.Key,
		Policy: policy,
		Logger: logger,
	}), closeStore, nil
}

// withTracker loads the local configuration and runs fn with a tracker.
func withTracker(cmd *cobra.Command, opts *options, fn func(t *referral.Tracker) error) error {
	cfg, err := loadConfig(cmd, opts, false)
	if err != nil {
		return err
	}
	logger, err := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputFile)
	if err != nil {
		return err
	}
	t, closeStore, err := openTracker(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(t)
}

func newReferralCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "referral",
		Short: "Manage the pending referral code",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "detect <url>",
			Short: "Store the referral code found in an entry URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTracker(cmd, opts, func(t *referral.Tracker) error {
					clean, code, err := t.Detect(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if code == "" {
						fmt.Fprintln(out, labelStyle.Render("No referral code in URL"))
					} else {
						fmt.Fprintln(out, successStyle.Render("Detected referral code ")+code)
					}
					fmt.Fprintln(out, clean)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the pending referral code",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTracker(cmd, opts, func(t *referral.Tracker) error {
					code, held, err := t.Consume(cmd.Context())
					if err != nil {
						return err
					}
					v := struct {
						Code    string `json:"code,omitempty"`
						Pending bool   `json:"pending"`
					}{code, held}
					return render(cmd.OutOrStdout(), opts.format, v, func(w *tabwriter.Writer) {
						if !held {
							fmt.Fprintln(w, labelStyle.Render("No pending referral code"))
							return
						}
						field(w, "Pending code", code)
					})
				})
			},
		},
		&cobra.Command{
			Use:   "set <code>",
			Short: "Set the pending referral code",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTracker(cmd, opts, func(t *referral.Tracker) error {
					if err := t.SetCode(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Referral code set"))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Discard the pending referral code",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTracker(cmd, opts, func(t *referral.Tracker) error {
					if err := t.Clear(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Referral code cleared"))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show referral statistics of the wallet in " + PrivateKeyEnv,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := newSession(cmd, opts)
				if err != nil {
					return err
				}
				cred, err := credentialFromEnv()
				if err != nil {
					return err
				}
				stats, err := s.client.ReferralStats(cmd.Context(), cred)
				if err != nil {
					return fmt.Errorf("failed to get referral stats: %w", err)
				}
				return render(s.out, s.format, stats, func(w *tabwriter.Writer) {
					field(w, "Code", stats.Code)
					field(w, "Referred", stats.TotalReferred)
					field(w, "Points earned", stats.PointsEarned)
				})
			},
		},
	)
	return cmd
}
