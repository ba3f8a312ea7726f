package component

import (
	"fmt"

	"catalog-keeper/internal/models"

	"github.com/spf13/cobra"
)

var addFlags componentFlags

var addCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a component",
	Long:  "Add a component to the catalog. The id may only contain lowercase letters, numbers and hyphens.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		comp := addFlags.apply(cmd.Flags(), models.Component{})

		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		if err := cat.CreateComponent(id, comp); err != nil {
			return fmt.Errorf("Error adding component: %w", err)
		}
		fmt.Printf("Component '%s' successfully added.\n", id)
		return nil
	},
}

func init() {
	addFlags.register(addCmd)
	componentCmd.AddCommand(addCmd)
}
