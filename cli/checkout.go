package cli

import (
	"fmt"
	"io"

	"floure-storefront/checkout"
	"floure-storefront/dtos"

	"github.com/spf13/cobra"
)

type CheckoutOptions struct {
	*RootOptions
	Form checkout.Form
}

func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		Example: `  storefront checkout --name "Ana Torres" --phone 999111222 \
    --address "Av. Larco 123, Miraflores" --payment yape`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.RootOptions, true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if _, err := a.engine.Initialize(ctx); err != nil {
				return err
			}
			order, err := a.checkout.PlaceOrder(ctx, opts.Form)
			if err != nil {
				return err
			}
			resp := dtos.NewOrderResponse(order)
			return formatter(opts.RootOptions, cmd.OutOrStdout()).Success(resp, func(w io.Writer) {
				fmt.Fprintf(w, "Order #%d placed\n  Total:   %s\n  Payment: %s (%s)\n", resp.ID, resp.Total, resp.PaymentMethod, resp.PaymentStatus)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Form.FullName, "name", "", "recipient full name")
	cmd.Flags().StringVar(&opts.Form.Phone, "phone", "", "recipient phone")
	cmd.Flags().StringVar(&opts.Form.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&opts.Form.Address, "address", "", "delivery address")
	cmd.Flags().StringVar(&opts.Form.PaymentMethod, "payment", "CARD", "payment method (CARD, YAPE, PLIN, TRANSFER, CASH)")
	cmd.Flags().StringVar(&opts.Form.NotesCustomer, "notes", "", "notes for the store")

	return cmd
}
