package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/status"
)

func (a *app) orderBoard() *service.OrderBoard {
	return service.NewOrderBoard(a.client, a.log.With().Str("component", "orders").Logger())
}

func newOrdersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "List and manage orders",
	}
	cmd.AddCommand(
		newOrdersListCommand(a),
		newOrdersPlaceCommand(a),
		newOrdersStatusCommand(a),
		newOrdersDeleteCommand(a),
	)
	return cmd
}

func newOrdersListCommand(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the orders visible to your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewDashboard)
			if err != nil {
				return err
			}

			board := a.orderBoard()
			if _, err := board.Load(cmd.Context(), sess); err != nil {
				return userError(err, service.OrderLoadFallbacks)
			}

			out := cmd.OutOrStdout()
			stats := board.Stats()
			fmt.Fprintf(out, "Orders: %d total, %d pending, %d accepted, %d shipped, %d delivered, %d cancelled\n",
				stats.Total, stats.Pending, stats.Accepted, stats.Shipped, stats.Delivered, stats.Cancelled)

			w := newTable(out)
			fmt.Fprintln(w, "ID\tPRODUCT\tQTY\tTOTAL\tSTATUS\tNEXT\t")
			for _, o := range board.Filter(strings.ToUpper(filter)) {
				next := make([]string, 0, 4)
				for _, s := range status.OrderStatusOptions(o.Status) {
					next = append(next, string(s))
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t\n",
					o.ID, o.ProductName, o.Quantity, o.TotalPrice.StringFixed(2), o.Status, strings.Join(next, ","))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter, "status", status.FilterAll, "only show orders with this status")
	return cmd
}

func newOrdersPlaceCommand(a *app) *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "place <productId>",
		Short: "Order a product (buyers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewProduct)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "product id")
			if err != nil {
				return err
			}
			product, err := a.productService().Get(cmd.Context(), id)
			if err != nil {
				return userError(err, service.ProductLoadFallbacks)
			}

			orders := service.NewOrderService(a.client, a.log.With().Str("component", "orders").Logger())
			order, err := orders.Place(cmd.Context(), sess, product, quantity)
			if err != nil {
				return userError(err, service.OrderPlaceFallbacks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Placed order %d for %d x %s (%s)\n",
				order.ID, order.Quantity, product.Name, order.TotalPrice.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().IntVar(&quantity, "quantity", 1, "units to order")
	return cmd
}

func newOrdersStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <orderId> <STATUS>",
		Short: "Move an order to its next status (farmers and admins)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewDashboard)
			if err != nil {
				return err
			}
			if !nav.Can(sess.User.Role, nav.UpdateOrderStatus) {
				return fmt.Errorf("%s accounts cannot change order status", sess.User.Role)
			}
			id, err := parseID(args[0], "order id")
			if err != nil {
				return err
			}
			next := models.OrderStatus(strings.ToUpper(args[1]))

			board := a.orderBoard()
			if _, err := board.Load(cmd.Context(), sess); err != nil {
				return userError(err, service.OrderLoadFallbacks)
			}
			order, err := board.UpdateStatus(cmd.Context(), id, next)
			if err != nil {
				return userError(err, service.OrderStatusFallbacks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %d is now %s\n", order.ID, order.Status)
			return nil
		},
	}
}

func newOrdersDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <orderId>",
		Short: "Delete an order (admins)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewDashboard)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "order id")
			if err != nil {
				return err
			}
			if err := a.orderBoard().Delete(cmd.Context(), sess, id); err != nil {
				return userError(err, service.Fallbacks{Default: "Failed to delete order"})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted order %d\n", id)
			return nil
		},
	}
}
