package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/marketplace/internal/market"
)

func watchCmd() *cobra.Command {
	var (
		opts     listOptions
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-list items periodically",
		Long:  "Fetch and print the filtered item list every --interval until interrupted.",
		Example: `  items watch --interval 30s --near-me --city Haifa`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, a, opts, interval)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "keep items whose title contains this text")
	cmd.Flags().BoolVar(&opts.nearMe, "near-me", false, "keep items in the current city")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "refresh interval (at least 1s)")

	return cmd
}

// runWatch prints the list once, then after every scheduled refresh, until
// ctx is done.
func runWatch(ctx context.Context, a *app, opts listOptions, interval time.Duration) error {
	b := a.board()
	b.SetSearchText(opts.search)
	b.SetLocationFilter(ctx, opts.nearMe)

	if err := b.Refresh(ctx); err != nil {
		return err
	}
	if err := printListings(a.out, a.json, b.Visible()); err != nil {
		return err
	}

	ticks := make(chan error, 1)
	r, err := market.NewRefresher(b, interval,
		market.WithRefresherLogger(a.log),
		market.WithTick(func(err error) {
			select {
			case ticks <- err:
			default:
			}
		}),
	)
	if err != nil {
		return err
	}
	r.Start()
	defer func() { <-r.Stop().Done() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-ticks:
			if err != nil {
				// Logged by the refresher; the board keeps the previous data.
				continue
			}
			if _, err := fmt.Fprintf(a.out, "\n-- %s --\n", time.Now().Format(time.TimeOnly)); err != nil {
				return err
			}
			if err := printListings(a.out, a.json, b.Visible()); err != nil {
				return err
			}
		}
	}
}
