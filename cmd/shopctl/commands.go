package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront-backend/pkg/storefront"
)

const defaultAPIURL = "http://localhost:3000"

type rootOptions struct {
	apiURL string
	userID string
}

func (o *rootOptions) client() (*storefront.Client, error) {
	return storefront.NewClient(o.apiURL, storefront.WithUserID(o.userID))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Browse the catalog and manage a cart against the storefront API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	apiURL := os.Getenv("STOREFRONT_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", apiURL, "storefront API base url")
	root.PersistentFlags().StringVarP(&opts.userID, "user", "u", os.Getenv("STOREFRONT_USER_ID"), "value sent as x-user-id")

	root.AddCommand(newProductsCmd(opts), newCartCmd(opts))
	return root
}

func newProductsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Read and create catalog products",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every product sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			out, err := client.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	get := &cobra.Command{
		Use:   "get [product-id]",
		Short: "Show a single product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			out, err := client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	var (
		description string
		price       string
		priceSale   string
		imageURL    string
		idemKey     string
	)
	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildCreateRequest(args[0], description, price, priceSale, imageURL)
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			out, err := client.CreateProduct(cmd.Context(), req, idemKey)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	create.Flags().StringVarP(&description, "description", "d", "", "product description")
	create.Flags().StringVarP(&price, "price", "p", "", "price, e.g. 79.90")
	create.Flags().StringVar(&priceSale, "sale", "", "optional sale price, lower than --price")
	create.Flags().StringVar(&imageURL, "image", "", "optional image url")
	create.Flags().StringVar(&idemKey, "idempotency-key", "", "replay-safe key for retries")
	_ = create.MarkFlagRequired("description")
	_ = create.MarkFlagRequired("price")

	cmd.AddCommand(list, get, create)
	return cmd
}

func buildCreateRequest(name, description, price, priceSale, imageURL string) (storefront.CreateProductRequest, error) {
	req := storefront.CreateProductRequest{Name: name, Description: description}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return req, fmt.Errorf("invalid --price %q: %w", price, err)
	}
	req.Price = p
	if priceSale != "" {
		sale, err := decimal.NewFromString(priceSale)
		if err != nil {
			return req, fmt.Errorf("invalid --sale %q: %w", priceSale, err)
		}
		req.PriceSale = &sale
	}
	if imageURL != "" {
		req.ImageURL = &imageURL
	}
	return req, nil
}

func newCartCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the cart of --user",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the cart with totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCart(cmd, opts, func(state *storefront.CartState) error {
				return state.Refresh(cmd.Context())
			})
		},
	}

	var idemKey string
	add := &cobra.Command{
		Use:   "add [product-id] [quantity]",
		Short: "Add a product, merging with an existing line",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity := 1
			if len(args) == 2 {
				q, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				quantity = q
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			out, err := client.AddToCart(cmd.Context(), args[0], quantity, idemKey)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	add.Flags().StringVar(&idemKey, "idempotency-key", "", "replay-safe key for retries")

	update := &cobra.Command{
		Use:   "update [item-id] [quantity]",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			return withCart(cmd, opts, func(state *storefront.CartState) error {
				return state.Update(cmd.Context(), args[0], quantity)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove [item-id]",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts, func(state *storefront.CartState) error {
				return state.Remove(cmd.Context(), args[0])
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every line from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCart(cmd, opts, func(state *storefront.CartState) error {
				return state.Clear(cmd.Context())
			})
		},
	}

	cmd.AddCommand(show, add, update, remove, clearCmd)
	return cmd
}

// withCart runs one mutation through a CartState and prints the server's cart.
func withCart(cmd *cobra.Command, opts *rootOptions, fn func(*storefront.CartState) error) error {
	client, err := opts.client()
	if err != nil {
		return err
	}
	state := storefront.NewCartState(client)
	if err := fn(state); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), state.Snapshot())
}

func parseQuantity(raw string) (int, error) {
	q, err := strconv.Atoi(raw)
	if err != nil || q < 1 {
		return 0, fmt.Errorf("quantity must be a positive integer, got %q", raw)
	}
	return q, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
