package cli

import (
	"fmt"
	"io"
	"strconv"

	"floure-storefront/api"
	"floure-storefront/models"

	"github.com/spf13/cobra"
)

type CatalogOptions struct {
	*RootOptions
	Category string
	Search   string
	Featured bool
	Page     int
}

func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the store catalog",
	}

	siteConfig := &cobra.Command{
		Use:   "site-config",
		Short: "Show store settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.RootOptions, true)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.client.GetSiteConfig(cmd.Context())
			if err != nil {
				return err
			}
			return formatter(opts.RootOptions, cmd.OutOrStdout()).Success(cfg, func(w io.Writer) {
				fmt.Fprintf(w, "%s\n", cfg.StoreName)
				fmt.Fprintf(w, "  Email:    %s\n  Phone:    %s\n  WhatsApp: %s\n", cfg.ContactEmail, cfg.ContactPhone, cfg.WhatsappNumber)
				if cfg.IsMaintenanceMode {
					fmt.Fprintln(w, "  The store is in maintenance mode.")
				}
			})
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.RootOptions, true)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.client.GetCategories(cmd.Context())
			if err != nil {
				return err
			}
			return formatter(opts.RootOptions, cmd.OutOrStdout()).Success(list, func(w io.Writer) {
				rows := make([][]string, 0, len(list))
				for _, c := range list {
					rows = append(rows, []string{c.Slug, c.Name})
				}
				renderTable(w, []string{"Slug", "Name"}, rows)
			})
		},
	}

	products := &cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.RootOptions, true)
			if err != nil {
				return err
			}
			defer a.Close()

			filter := api.ProductFilter{Category: opts.Category, Search: opts.Search, Page: opts.Page}
			if cmd.Flags().Changed("featured") {
				filter.Featured = &opts.Featured
			}
			list, err := a.client.GetProducts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return formatter(opts.RootOptions, cmd.OutOrStdout()).Success(list, func(w io.Writer) {
				printProducts(w, list)
			})
		},
	}
	products.Flags().StringVar(&opts.Category, "category", "", "category slug")
	products.Flags().StringVar(&opts.Search, "search", "", "search text")
	products.Flags().BoolVar(&opts.Featured, "featured", false, "only featured products")
	products.Flags().IntVar(&opts.Page, "page", 0, "result page")

	product := &cobra.Command{
		Use:   "product <slug>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.RootOptions, true)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return formatter(opts.RootOptions, cmd.OutOrStdout()).Success(p, func(w io.Writer) {
				fmt.Fprintf(w, "%s (#%d)\n  Price: %s\n  Stock: %d\n", p.Name, p.ID, p.Price, p.Stock)
				if p.ShortDescription != "" {
					fmt.Fprintf(w, "  %s\n", p.ShortDescription)
				}
			})
		},
	}

	cmd.AddCommand(siteConfig, categories, products, product)
	return cmd
}

func printProducts(w io.Writer, list []models.Product) {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Slug, p.Name, p.Price})
	}
	renderTable(w, []string{"ID", "Slug", "Name", "Price"}, rows)
}
