package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/indexer-client/pkg/contracts"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
)

func newRegisterCommand(opts *options) *cobra.Command {
	var (
		username string
		code     string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the wallet in " + PrivateKeyEnv,
		Long: `Register the wallet in ` + PrivateKeyEnv + `.

A pending referral code (see "idx referral") is sent with the registration and
cleared once the service accepted it. If registration fails the code is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			cred, err := credentialFromEnv()
			if err != nil {
				return err
			}

			tracker, closeStore, err := openTracker(s.cfg, s.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			if code != "" {
				if err := tracker.SetCode(cmd.Context(), code); err != nil {
					return err
				}
			}

			res, err := s.client.RegisterWithReferral(cmd.Context(), cred, tracker, contracts.RegisterRequest{Username: username})
			if res == nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			if err != nil {
				s.logger.ComponentWarn(logging.ComponentCLI, "Registered with a leftover referral code", zap.Error(err))
			}

			return render(s.out, s.format, res, func(w *tabwriter.Writer) {
				if res.Created {
					fmt.Fprintln(w, successStyle.Render("Account created"))
				} else {
					fmt.Fprintln(w, successStyle.Render("Account already registered"))
				}
				writeUser(w, &res.User)
				field(w, "Referral applied", res.ReferralApplied)
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to register with")
	cmd.Flags().StringVar(&code, "referral", "", "Referral code (replaces any pending code)")
	return cmd
}

func newMeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the account of the wallet in " + PrivateKeyEnv,
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
			u, err := s.client.Me(cmd.Context(), cred)
			if err != nil {
				return fmt.Errorf("failed to get account: %w", err)
			}
			return render(s.out, s.format, u, func(w *tabwriter.Writer) {
				writeUser(w, u)
			})
		},
	}
}

func writeUser(w *tabwriter.Writer, u *contracts.User) {
	field(w, "ID", u.ID)
	field(w, "Address", u.Address)
	if u.Username != "" {
		field(w, "Username", u.Username)
	}
	field(w, "Referral code", u.ReferralCode)
	if u.ReferredBy != "" {
		field(w, "Referred by", u.ReferredBy)
	}
	if len(u.Wallets) > 0 {
		wallets := make([]string, len(u.Wallets))
		for i, wl := range u.Wallets {
			wallets[i] = wl.Address + " (" + wl.Chain + ")"
		}
		field(w, "Wallets", strings.Join(wallets, ", "))
	}
}
