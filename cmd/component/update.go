package component

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateFlags componentFlags

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a component",
	Long:  "Update a component. Only the given flags change, other attributes keep their current values.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		current, err := cat.GetComponent(id)
		if err != nil {
			return err
		}
		comp := updateFlags.apply(cmd.Flags(), current)
		if err := cat.UpdateComponent(id, comp); err != nil {
			return fmt.Errorf("Error updating component: %w", err)
		}
		fmt.Printf("Component '%s' successfully updated.\n", id)
		return nil
	},
}

func init() {
	updateFlags.register(updateCmd)
	componentCmd.AddCommand(updateCmd)
}
