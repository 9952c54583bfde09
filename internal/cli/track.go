package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"farmmarket/console/internal/jobs"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/status"
	"farmmarket/console/internal/tracking"
)

// redrawPoll is how often the terminal checks for a newer snapshot.
const redrawPoll = 250 * time.Millisecond

func newTrackCommand(a *app) *cobra.Command {
	var (
		noAutoRefresh bool
		deliveryID    int64
	)
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Follow your deliveries (buyers)",
		Long: "Fetches your deliveries and, unless --no-auto-refresh is given, keeps\n" +
			"refreshing them in the background until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewTracking)
			if err != nil {
				return err
			}
			fetch, err := tracking.ForBuyer(a.client, sess.User.ID)
			if err != nil {
				return userError(err, service.DeliveryLoadFallbacks)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sched := jobs.NewCronScheduler(a.log.With().Str("component", "scheduler").Logger())
			sched.Start()
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := sched.Stop(stopCtx); err != nil {
					a.log.Warn().Err(err).Msg("scheduler stop timed out")
				}
			}()

			ctrl := tracking.New(fetch, sched,
				tracking.WithInterval(a.cfg.Tracking.Interval),
				tracking.WithAutoRefresh(a.cfg.Tracking.AutoRefresh && !noAutoRefresh),
				tracking.WithLogger(a.log.With().Str("component", "tracking").Logger()),
			)
			mountErr := ctrl.Mount(ctx)
			defer ctrl.Unmount()

			if deliveryID != 0 {
				if err := ctrl.Select(deliveryID); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "delivery %d is not in your list\n", deliveryID)
				}
			}

			out := cmd.OutOrStdout()
			state := ctrl.Snapshot()
			if !state.AutoRefresh && mountErr != nil {
				return userError(mountErr, service.DeliveryLoadFallbacks)
			}
			printTracking(out, state)
			if !state.AutoRefresh {
				return nil
			}

			ticker := time.NewTicker(redrawPoll)
			defer ticker.Stop()
			shown := state.LastUpdated
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					state := ctrl.Snapshot()
					if state.LastUpdated.After(shown) {
						shown = state.LastUpdated
						printTracking(out, state)
					}
				}
			}
		},
	}
	cmd.Flags().BoolVar(&noAutoRefresh, "no-auto-refresh", false, "fetch once and exit")
	cmd.Flags().Int64Var(&deliveryID, "delivery", 0, "delivery to show in detail")
	return cmd
}

func printTracking(out io.Writer, s tracking.State) {
	if !s.LastUpdated.IsZero() {
		fmt.Fprintf(out, "Deliveries (%d) updated %s\n", len(s.Deliveries), s.LastUpdated.Format(time.Kitchen))
	}
	if s.Err != nil {
		fmt.Fprintln(out, service.Message(s.Err, service.DeliveryLoadFallbacks))
	}
	if len(s.Deliveries) == 0 {
		if s.Err == nil {
			fmt.Fprintln(out, "No deliveries yet")
		}
		return
	}
	printDeliveries(out, s.Deliveries)

	if s.Selected == nil {
		return
	}
	d := s.Selected
	fmt.Fprintf(out, "\nOrder %d: %s from %s\n", d.OrderID, d.ProductName, d.FarmerName)
	if s.SelectionStale {
		fmt.Fprintln(out, "(no longer in the latest list)")
	}
	if timeline := status.DeliveryTimeline(d.DeliveryStatus); timeline.Failed {
		fmt.Fprintln(out, "  Delivery Failed")
		fmt.Fprintln(out, "  There was an issue with the delivery. Please contact support.")
	} else {
		for _, step := range timeline.Steps {
			fmt.Fprintf(out, "  [%s] %s\n", progressMark(step.State), step.Label)
		}
	}
	if d.TrackingLocation != "" {
		fmt.Fprintf(out, "  location: %s\n", d.TrackingLocation)
	}
	if d.DeliveryNotes != "" {
		fmt.Fprintf(out, "  notes: %s\n", d.DeliveryNotes)
	}
}
