package component

import (
	"fmt"
	"os"

	"catalog-keeper/internal/utils"

	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one component",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		comp, err := cat.GetComponent(args[0])
		if err != nil {
			return err
		}
		switch showOutput {
		case "json":
			return utils.PrintJSON(os.Stdout, comp)
		case "yaml":
			return utils.PrintYAML(os.Stdout, comp)
		default:
			return fmt.Errorf("unsupported output format '%s'", showOutput)
		}
	},
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "output format (json|yaml)")
	componentCmd.AddCommand(showCmd)
}
