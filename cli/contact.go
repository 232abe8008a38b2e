package cli

import (
	"fmt"
	"io"
	"strings"

	"floure-storefront/models"

	"github.com/spf13/cobra"
)

type ContactOptions struct {
	*RootOptions
	Request models.ContactRequest
}

func NewContactCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ContactOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var missing []string
			for _, f := range []struct{ name, value string }{
				{"name", opts.Request.Name},
				{"phone", opts.Request.Phone},
				{"message", opts.Request.Message},
			} {
				if strings.TrimSpace(f.value) == "" {
					missing = append(missing, "--"+f.name)
				}
			}
			if len(missing) > 0 {
				return NewExitError(ExitCommandError, "missing required flags: "+strings.Join(missing, ", "))
			}

			a, err := newApp(opts.RootOptions, true)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.client.CreateContactRequest(cmd.Context(), opts.Request)
			if err != nil {
				return err
			}
			return formatter(opts.RootOptions, cmd.OutOrStdout()).Success(created, func(w io.Writer) {
				fmt.Fprintln(w, "Message sent. The store will contact you soon.")
			})
		},
	}

	cmd.Flags().StringVar(&opts.Request.Name, "name", "", "your name")
	cmd.Flags().StringVar(&opts.Request.Email, "email", "", "your email")
	cmd.Flags().StringVar(&opts.Request.Phone, "phone", "", "your phone")
	cmd.Flags().StringVar(&opts.Request.Message, "message", "", "message")

	return cmd
}
