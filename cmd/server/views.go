package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/quickkart/internal/client"
	"github.com/Skotchmaster/quickkart/internal/config"
	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/Skotchmaster/quickkart/internal/transport"
)

type clientFlags struct {
	apiURL string
	token  string
}

func (f *clientFlags) bind(cmd *cobra.Command, withToken bool) {
	cfg := config.Load()
	cmd.PersistentFlags().StringVar(&f.apiURL, "api", cfg.APIURL, "API base URL (QUICKKART_API_URL)")
	if withToken {
		cmd.PersistentFlags().StringVarP(&f.token, "token", "t", cfg.APIToken, "bearer token printed by login (QUICKKART_TOKEN)")
	}
}

func (f *clientFlags) client() *client.Client {
	return client.NewClient(f.apiURL)
}

func newRegisterCmd() *cobra.Command {
	var f clientFlags
	cmd := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := f.client().Register(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", res.Message, res.User.Username, res.User.ID)
			return nil
		},
	}
	f.bind(cmd, false)
	return cmd
}

func newLoginCmd() *cobra.Command {
	var f clientFlags
	cmd := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and print a bearer token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := f.client().Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Token)
			return nil
		},
	}
	f.bind(cmd, false)
	return cmd
}

func newProductsCmd() *cobra.Command {
	var f clientFlags
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and add catalog products",
	}
	f.bind(cmd, false)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := f.client().Products(cmd.Context())
			if err != nil {
				return err
			}
			return renderProducts(cmd.OutOrStdout(), products)
		},
	})

	var (
		name, image string
		price       float64
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.client().CreateProduct(cmd.Context(), name, price, image)
			if err != nil {
				return err
			}
			return renderProducts(cmd.OutOrStdout(), []models.Product{*p})
		},
	}
	add.Flags().StringVar(&name, "name", "", "product name")
	add.Flags().Float64Var(&price, "price", 0, "unit price")
	add.Flags().StringVar(&image, "image", "", "image URL")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("price")
	_ = add.MarkFlagRequired("image")
	cmd.AddCommand(add)

	return cmd
}

func newCartCmd() *cobra.Command {
	var f clientFlags
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change your cart",
	}
	f.bind(cmd, true)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show cart lines and the total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := f.client().Cart(cmd.Context(), f.token)
			if err != nil {
				return err
			}
			return renderCart(cmd.OutOrStdout(), items)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <productId>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			item, err := f.client().AddToCart(cmd.Context(), f.token, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s x%d\n", productLabel(*item), item.Quantity)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <productId>",
		Short: "Remove one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			res, err := f.client().RemoveFromCart(cmd.Context(), f.token, id)
			if err != nil {
				return err
			}
			renderRemoval(cmd.OutOrStdout(), res)
			return nil
		},
	})

	return cmd
}

func renderProducts(w io.Writer, products []models.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tIMAGE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, money(p.Price), p.ImageURL)
	}
	return tw.Flush()
}

// renderCart prints one row per line and a total over lines whose product still exists.
func renderCart(w io.Writer, items []models.CartItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Your cart is empty.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tPRICE\tSUBTOTAL")
	var total float64
	for _, it := range items {
		if it.Product == nil {
			fmt.Fprintf(tw, "%s\t%d\t-\t-\n", productLabel(it), it.Quantity)
			continue
		}
		sub := it.Product.Price * float64(it.Quantity)
		total += sub
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", productLabel(it), it.Quantity, money(it.Product.Price), money(sub))
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", money(total))
	return tw.Flush()
}

func renderRemoval(w io.Writer, res *transport.DeleteOneFromCartResponse) {
	if res.CartItem == nil {
		fmt.Fprintln(w, res.Message)
		return
	}
	fmt.Fprintf(w, "%s: %s x%d\n", res.Message, productLabel(*res.CartItem), res.CartItem.Quantity)
}

func productLabel(it models.CartItem) string {
	if it.Product == nil {
		return it.ProductID.String() + " (unavailable)"
	}
	return it.Product.Name
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
