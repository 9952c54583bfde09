package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/status"
)

func newDeliveriesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deliveries",
		Aliases: []string{"delivery"},
		Short:   "Manage deliveries (farmers and admins)",
	}
	cmd.AddCommand(
		newDeliveriesListCommand(a),
		newDeliveriesUpdateCommand(a),
	)
	return cmd
}

func newDeliveriesListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List deliveries with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewFarmerDelivery)
			if err != nil {
				return err
			}
			svc := service.NewDeliveryService(a.client, a.log.With().Str("component", "deliveries").Logger())
			list, err := svc.Load(cmd.Context(), sess)
			if err != nil {
				return userError(err, service.DeliveryLoadFallbacks)
			}

			out := cmd.OutOrStdout()
			stats := svc.Stats()
			fmt.Fprintf(out, "Deliveries: %d total, %d pending, %d in transit, %d delivered, %d failed\n",
				stats.Total, stats.Pending, stats.InTransit, stats.Delivered, stats.Failed)
			printDeliveries(out, list)
			return nil
		},
	}
}

func printDeliveries(out io.Writer, list []models.Delivery) {
	w := newTable(out)
	fmt.Fprintln(w, "ORDER\tPRODUCT\tBUYER\tSTATUS\tPROGRESS\tLOCATION\t")
	for _, d := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			d.OrderID, d.ProductName, d.BuyerName, d.DeliveryStatus, progress(d.DeliveryStatus), d.TrackingLocation)
	}
	_ = w.Flush()
}

var stepMarks = map[status.StepState]string{
	status.StepCompleted: "#",
	status.StepCurrent:   ">",
	status.StepPending:   ".",
}

func progressMark(s status.StepState) string {
	return stepMarks[s]
}

// progress renders the delivery timeline as one marker per step. A failed
// delivery has no steps to show.
func progress(s models.DeliveryStatus) string {
	timeline := status.DeliveryTimeline(s)
	if timeline.Failed {
		return "failed"
	}
	var b strings.Builder
	for _, step := range timeline.Steps {
		b.WriteString(progressMark(step.State))
	}
	return b.String()
}

func newDeliveriesUpdateCommand(a *app) *cobra.Command {
	var in models.DeliveryUpdate
	cmd := &cobra.Command{
		Use:   "update <orderId> <STATUS>",
		Short: "Change a delivery's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewFarmerDelivery)
			if err != nil {
				return err
			}
			orderID, err := parseID(args[0], "order id")
			if err != nil {
				return err
			}
			in.Status = models.DeliveryStatus(strings.ToUpper(args[1]))

			// Loading first lets the service refuse final deliveries locally.
			svc := service.NewDeliveryService(a.client, a.log.With().Str("component", "deliveries").Logger())
			if _, err := svc.Load(cmd.Context(), sess); err != nil {
				return userError(err, service.DeliveryLoadFallbacks)
			}
			d, err := svc.Update(cmd.Context(), orderID, in)
			if err != nil {
				return userError(err, service.DeliveryUpdateFallbacks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Delivery for order %d is now %s\n", d.OrderID, d.DeliveryStatus)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.TrackingLocation, "location", "", "current tracking location")
	cmd.Flags().StringVar(&in.DeliveryNotes, "notes", "", "delivery notes")
	return cmd
}
