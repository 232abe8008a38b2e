package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"floure-storefront/api"
	"floure-storefront/dtos"
	"floure-storefront/models"

	"github.com/spf13/cobra"
)

type CartOptions struct {
	*RootOptions
	Quantity int
}

func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change this installation's cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts.RootOptions, func(ctx context.Context, a *app) error {
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <product-slug|product-id>",
		Short: "Add a product to the cart",
		Example: `  storefront cart add ramo-de-rosas --quantity 2
  storefront cart add 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts.RootOptions, func(ctx context.Context, a *app) error {
				product, err := lookupProduct(ctx, a, args[0])
				if err != nil {
					return err
				}
				_, err = a.engine.AddToCart(ctx, *product, opts.Quantity)
				if api.StatusCode(err) == http.StatusBadRequest {
					a.client.ForgetProduct(ctx, *product)
				}
				return err
			})
		},
	}
	add.Flags().IntVarP(&opts.Quantity, "quantity", "q", 1, "units to add")

	set := &cobra.Command{
		Use:   "set <line-id> <quantity>",
		Short: "Set a line's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := parseLineID(args[0])
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid quantity %q", args[1]))
			}
			return withCart(cmd, opts.RootOptions, func(ctx context.Context, a *app) error {
				_, err := a.engine.UpdateItemQuantity(ctx, lineID, quantity)
				return err
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := parseLineID(args[0])
			if err != nil {
				return err
			}
			return withCart(cmd, opts.RootOptions, func(ctx context.Context, a *app) error {
				_, err := a.engine.RemoveItem(ctx, lineID)
				return err
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every line from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts.RootOptions, func(ctx context.Context, a *app) error {
				_, err := a.engine.ClearCart(ctx)
				return err
			})
		},
	}

	cmd.AddCommand(show, add, set, remove, clearCmd)
	return cmd
}

// withCart loads the cart, runs fn and prints the resulting cart.
func withCart(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(opts, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.engine.Initialize(ctx); err != nil {
		return err
	}
	if err := fn(ctx, a); err != nil {
		return err
	}

	view := dtos.NewCartView(a.engine.Snapshot(), a.engine)
	return formatter(opts, cmd.OutOrStdout()).Success(view, func(w io.Writer) {
		printCart(w, view)
	})
}

func lookupProduct(ctx context.Context, a *app, ref string) (*models.Product, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return a.client.GetProductByID(ctx, id)
	}
	return a.client.GetProduct(ctx, ref)
}

func parseLineID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid line id %q", raw))
	}
	return id, nil
}

func printCart(w io.Writer, view dtos.CartView) {
	fmt.Fprintf(w, "Cart #%d (%s)\n", view.ID, view.State)
	if len(view.Items) == 0 {
		fmt.Fprintln(w, "  (empty)")
	} else {
		rows := make([][]string, 0, len(view.Items))
		for _, item := range view.Items {
			rows = append(rows, []string{
				strconv.FormatInt(item.ID, 10), item.ProductName, strconv.Itoa(item.Quantity), item.UnitPrice, item.LineTotal,
			})
		}
		renderTable(w, []string{"Line", "Product", "Qty", "Price", "Total"}, rows)
	}
	fmt.Fprintf(w, "Items: %d  Subtotal: %s\n", view.ItemCount, view.Subtotal)
}
