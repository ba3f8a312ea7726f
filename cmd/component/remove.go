package component

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a component",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		if err := cat.DeleteComponent(id); err != nil {
			return fmt.Errorf("Error deleting component: %w", err)
		}
		fmt.Printf("Component '%s' successfully deleted.\n", id)
		return nil
	},
}

func init() {
	componentCmd.AddCommand(removeCmd)
}
