package cmd

import (
	"encoding/json"
	"os"

	"github.com/jmehdipour/odata-gateway/internal/odata"
	"github.com/jmehdipour/odata-gateway/internal/repository"
	"github.com/jmehdipour/odata-gateway/internal/schema"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Print the demo dataset that serve loads at startup",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := map[string]any{
			schema.CustomersSet: odata.Select(schema.Customers, "", repository.SeedCustomers()),
			schema.OrdersSet:    odata.Select(schema.Orders, "", repository.SeedOrders()),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}
