package misc

import (
	"fmt"

	"catalog-keeper/cmd/root"
	"catalog-keeper/internal/rpc"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health",
	Long:  `Query the health endpoint of a running catalog-keeper server`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := rpc.NewCatalogClient(rpc.NewHTTPClient(nil))
		defer client.Close()

		health, err := client.Health()
		if err != nil {
			return fmt.Errorf("failed to query server: %w", err)
		}
		fmt.Printf("Status: %s\n", health.Status)
		fmt.Printf("Version: %s\n", health.Version)
		fmt.Printf("Started: %s (up %s)\n", health.StartTime, health.Uptime)
		fmt.Printf("Catalog: %s\n", health.Store)
		fmt.Printf("Components: %d (%d with UI)\n", health.Catalog.Components, health.Catalog.UIComponents)
		if health.Catalog.ReverseProxy != "" {
			fmt.Printf("Reverse proxy: %s\n", health.Catalog.ReverseProxy)
		}
		fmt.Printf("Requests: %d (%d errors)\n", health.Requests.Total, health.Requests.Errors)
		return nil
	},
}

func init() {
	root.RootCmd.AddCommand(statusCmd)
}
