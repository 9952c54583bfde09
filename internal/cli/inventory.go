package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/status"
)

func (a *app) inventoryService() *service.InventoryService {
	return service.NewInventoryService(a.client, a.log.With().Str("component", "inventory").Logger())
}

func newInventoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Stock levels (farmers and admins)",
	}
	cmd.AddCommand(
		newInventoryListCommand(a),
		newInventoryUpdateCommand(a),
		newInventorySyncCommand(a),
	)
	return cmd
}

func newInventoryListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List inventory records with a stock summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.guard(cmd.Context(), nav.ViewInventory); err != nil {
				return err
			}
			inv := a.inventoryService()
			records, err := inv.Load(cmd.Context())
			if err != nil {
				return userError(err, service.InventoryLoadFallbacks)
			}

			out := cmd.OutOrStdout()
			sum := inv.Summary()
			fmt.Fprintf(out, "Inventory: %d products, %d well stocked, %d low, %d out of stock\n",
				sum.Total, sum.WellStocked, sum.LowStock, sum.OutOfStock)

			w := newTable(out)
			fmt.Fprintln(w, "PRODUCT\tNAME\tAVAILABLE\tRESERVED\tTOTAL\tSTOCK\t")
			for _, r := range records {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\t\n",
					r.ProductID, r.ProductName, r.AvailableQuantity, r.ReservedQuantity, r.TotalQuantity, status.StockBucket(r.AvailableQuantity))
			}
			return w.Flush()
		},
	}
}

func newInventoryUpdateCommand(a *app) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "update <productId> <quantity>",
		Short: "Set the available quantity of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewInventory)
			if err != nil {
				return err
			}
			if !nav.Can(sess.User.Role, nav.UpdateInventory) {
				return fmt.Errorf("%s accounts cannot update inventory", sess.User.Role)
			}
			id, err := parseID(args[0], "product id")
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			rec, err := a.inventoryService().Update(cmd.Context(), id, quantity, reason)
			if err != nil {
				return userError(err, service.InventoryUpdateFallbacks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product %d: %d available (%s)\n",
				rec.ProductID, rec.AvailableQuantity, status.StockBucket(rec.AvailableQuantity))
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "note stored with the change")
	return cmd
}

func newInventorySyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <productId>",
		Short: "Resync a product's inventory from its listing (admins)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewInventory)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "product id")
			if err != nil {
				return err
			}
			msg, err := a.inventoryService().Sync(cmd.Context(), sess, id)
			if err != nil {
				return userError(err, service.InventoryUpdateFallbacks)
			}
			if msg == "" {
				msg = fmt.Sprintf("Inventory synced for product %d", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
