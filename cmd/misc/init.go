package misc

import (
	"fmt"

	"catalog-keeper/cmd/root"
	"catalog-keeper/services"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty catalog document",
	Long:  `Create an empty catalog document ({}) when none exists. An existing document is left untouched.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := root.StorePath()
		created, err := services.EnsureDocument(path)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Created empty catalog '%s'\n", path)
		} else {
			fmt.Printf("Catalog '%s' already exists\n", path)
		}
		return nil
	},
}

func init() {
	root.RootCmd.AddCommand(initCmd)

	initCmd.Example = `  catalog-keeper init
  catalog-keeper init -d /srv/homelab/components_metadata.json`
}
