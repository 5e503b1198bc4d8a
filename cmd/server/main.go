package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/quickkart/internal/config"
)

func main() {
	config.LoadDotEnv(".env")

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quickkart",
		Short: "QuickKart shop backend and command-line client",
		Long: `QuickKart serves a product catalog, per-user carts and token auth over REST.

Examples:
  quickkart serve                       # run the HTTP API
  quickkart migrate                     # create or update the SQL schema
  quickkart products list               # show the catalog
  quickkart login alice pw1             # print a bearer token
  quickkart cart add <productId> -t T   # add one unit to the cart`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newRegisterCmd(),
		newLoginCmd(),
		newProductsCmd(),
		newCartCmd(),
	)
	return root
}
