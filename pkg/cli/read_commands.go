package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/indexer-client/pkg/contracts"
)

func newHealthCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			h, err := s.client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get health: %w", err)
			}
			return render(s.out, s.format, h, func(w *tabwriter.Writer) {
				field(w, "Status", h.Status)
				if h.Version != "" {
					field(w, "Version", h.Version)
				}
				field(w, "Uptime", fmt.Sprintf("%ds", h.Uptime))
				if h.Synthetic {
					field(w, "Source", warnStyle.Render("synthetic"))
				}
			})
		},
	}
}

func newPointsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "points <address>",
		Short: "Show the points summary of a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			p, err := s.client.Points(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get points: %w", err)
			}
			return render(s.out, s.format, p, func(w *tabwriter.Writer) {
				field(w, "Address", p.Address)
				field(w, "Total", p.Total)
				field(w, "Rank", p.Rank)
				for _, t := range contracts.ActivityTypes {
					if v, ok := p.Breakdown[t]; ok {
						field(w, "  "+t, v)
					}
				}
			})
		},
	}
}

func newActivityCommand(opts *options) *cobra.Command {
	var q contracts.ActivityQuery

	cmd := &cobra.Command{
		Use:   "activity <address>",
		Short: "List recent activity of a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			page, err := s.client.Activity(cmd.Context(), args[0], q)
			if err != nil {
				return fmt.Errorf("failed to get activity: %w", err)
			}
			return render(s.out, s.format, page, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, titleStyle.Render("TIME")+"\t"+titleStyle.Render("TYPE")+"\t"+titleStyle.Render("POINTS")+"\t"+titleStyle.Render("TX"))
				for _, e := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Type, e.Points, shorten(e.TxHash))
				}
				fmt.Fprintf(w, "\n%s\n", labelStyle.Render(fmt.Sprintf("%d-%d of %d", page.Offset+min(1, len(page.Items)), page.Offset+len(page.Items), page.Total)))
			})
		},
	}

	cmd.Flags().IntVar(&q.Limit, "limit", 20, "Maximum number of entries")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "Number of entries to skip")
	cmd.Flags().StringVar(&q.Type, "type", "", "Only show one activity type")
	return cmd
}

func newLeaderboardCommand(opts *options) *cobra.Command {
	var q contracts.LeaderboardQuery

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the points leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			lb, err := s.client.Leaderboard(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("failed to get leaderboard: %w", err)
			}
			return render(s.out, s.format, lb, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, titleStyle.Render("RANK")+"\t"+titleStyle.Render("ADDRESS")+"\t"+titleStyle.Render("USER")+"\t"+titleStyle.Render("POINTS"))
				for _, e := range lb.Entries {
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", e.Rank, e.Address, e.Username, e.Points)
				}
			})
		},
	}

	cmd.Flags().IntVar(&q.Limit, "limit", 10, "Maximum number of entries")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "Number of entries to skip")
	cmd.Flags().StringVar(&q.Period, "period", contracts.PeriodAll, "Period: all, week or month")
	return cmd
}

// shorten abbreviates long hashes for table output.
func shorten(s string) string {
	if len(s) <= 14 {
		return s
	}
	return s[:8] + "…" + s[len(s)-4:]
}
