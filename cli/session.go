package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type sessionInfo struct {
	SessionID string `json:"session_id"`
	CartID    *int64 `json:"cart_id"`
	Durable   bool   `json:"durable"`
}

func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset this installation's identity",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the session id and stored cart reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			info := sessionInfo{
				SessionID: a.store.GetOrCreateSessionID(ctx),
				Durable:   a.store.Durable(),
			}
			if id, ok := a.store.CartReference(ctx); ok {
				info.CartID = &id
			}
			return formatter(rootOpts, cmd.OutOrStdout()).Success(info, func(w io.Writer) {
				fmt.Fprintf(w, "Session: %s\n", info.SessionID)
				if info.CartID != nil {
					fmt.Fprintf(w, "Cart:    #%d\n", *info.CartID)
				} else {
					fmt.Fprintln(w, "Cart:    none")
				}
				if !info.Durable {
					fmt.Fprintln(w, "Warning: client state is not persisted")
				}
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget the session id and cart reference",
		Long: `Forget the session id and cart reference. The next command starts a new
anonymous shopper with a new cart; the old cart stays on the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			a.store.Reset(cmd.Context())
			return formatter(rootOpts, cmd.OutOrStdout()).Success(map[string]bool{"reset": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Session reset.")
			})
		},
	}

	cmd.AddCommand(show, reset)
	return cmd
}
