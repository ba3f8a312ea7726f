package misc

import (
	"fmt"

	"catalog-keeper/cmd/root"
	"catalog-keeper/internal/rpc"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload server configuration",
	Long:  `Reload server configuration by connecting to the catalog-keeper server and calling the reload API`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := rpc.NewCatalogClient(rpc.NewHTTPClient(nil))
		defer client.Close()

		if err := client.Reload(); err != nil {
			return fmt.Errorf("failed to reload server configuration: %w", err)
		}
		fmt.Println("Successfully reloaded server configuration")
		return nil
	},
}

func init() {
	root.RootCmd.AddCommand(reloadCmd)
}
