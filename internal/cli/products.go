package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/status"
	"farmmarket/console/internal/validate"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func (a *app) productService() *service.ProductService {
	return service.NewProductService(a.client, a.log.With().Str("component", "products").Logger())
}

func newProductsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse and manage products",
	}
	cmd.AddCommand(
		newProductsListCommand(a),
		newProductsShowCommand(a),
		newProductsCreateCommand(a),
		newProductsUpdateCommand(a),
		newProductsDeleteCommand(a),
	)
	return cmd
}

func newProductsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products with stock levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewProducts)
			if err != nil {
				return err
			}
			products, err := a.productService().List(cmd.Context())
			if err != nil {
				return userError(err, service.ProductLoadFallbacks)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Products (%d)\n", len(products))
			w := newTable(out)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tSTOCK\tLOCATION\tFARMER\t")
			for _, p := range products {
				mine := ""
				if service.Owns(sess, p) {
					mine = "*"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
					p.ID, p.Name, p.Price.StringFixed(2), p.Quantity, status.StockBucket(p.Quantity), p.Location, p.FarmerName, mine)
			}
			return w.Flush()
		},
	}
}

func newProductsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.guard(cmd.Context(), nav.ViewProduct); err != nil {
				return err
			}
			id, err := parseID(args[0], "product id")
			if err != nil {
				return err
			}
			p, err := a.productService().Get(cmd.Context(), id)
			if err != nil {
				return userError(err, service.ProductLoadFallbacks)
			}
			printProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func printProduct(out io.Writer, p models.Product) {
	w := newTable(out)
	fmt.Fprintf(w, "id:\t%d\n", p.ID)
	fmt.Fprintf(w, "name:\t%s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(w, "description:\t%s\n", p.Description)
	}
	fmt.Fprintf(w, "price:\t%s\n", p.Price.StringFixed(2))
	fmt.Fprintf(w, "quantity:\t%d (%s)\n", p.Quantity, status.StockBucket(p.Quantity))
	fmt.Fprintf(w, "location:\t%s\n", p.Location)
	fmt.Fprintf(w, "farmer:\t%s\n", p.FarmerName)
	_ = w.Flush()
}

func productFlags(flags *pflag.FlagSet, form *validate.ProductForm) {
	flags.StringVar(&form.Name, "name", "", "product name")
	flags.StringVar(&form.Description, "description", "", "description")
	flags.StringVar(&form.Price, "price", "", "unit price")
	flags.StringVar(&form.Quantity, "quantity", "", "quantity in stock")
	flags.StringVar(&form.Location, "location", "", "farm location")
}

func newProductsCreateCommand(a *app) *cobra.Command {
	var form validate.ProductForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product (farmers)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewProducts)
			if err != nil {
				return err
			}
			p, err := a.productService().Create(cmd.Context(), sess, form)
			if err != nil {
				return userError(err, service.ProductCreateFallbacks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created product %d\n", p.ID)
			return nil
		},
	}
	productFlags(cmd.Flags(), &form)
	return cmd
}

func newProductsUpdateCommand(a *app) *cobra.Command {
	var form validate.ProductForm
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a product; unset flags keep their current value",
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
			products := a.productService()
			current, err := products.Get(cmd.Context(), id)
			if err != nil {
				return userError(err, service.ProductLoadFallbacks)
			}

			merged := validate.ProductForm{
				Name:        current.Name,
				Description: current.Description,
				Price:       current.Price.String(),
				Quantity:    strconv.Itoa(current.Quantity),
				Location:    current.Location,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				merged.Name = form.Name
			}
			if flags.Changed("description") {
				merged.Description = form.Description
			}
			if flags.Changed("price") {
				merged.Price = form.Price
			}
			if flags.Changed("quantity") {
				merged.Quantity = form.Quantity
			}
			if flags.Changed("location") {
				merged.Location = form.Location
			}

			p, err := products.Update(cmd.Context(), sess, id, merged)
			if err != nil {
				return userError(err, service.ProductUpdateFallbacks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated product %d\n", p.ID)
			return nil
		},
	}
	productFlags(cmd.Flags(), &form)
	return cmd
}

func newProductsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewProducts)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "product id")
			if err != nil {
				return err
			}
			if err := a.productService().Delete(cmd.Context(), sess, id); err != nil {
				return userError(err, service.ProductDeleteFallbacks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %d\n", id)
			return nil
		},
	}
}
