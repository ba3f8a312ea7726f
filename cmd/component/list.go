package component

import (
	"fmt"
	"os"
	"sort"

	"catalog-keeper/internal/models"
	"catalog-keeper/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var listOutput string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all components",
	Long:  "List all components of the catalog as a table, or dump the catalog as json/yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		components, err := cat.ListComponents()
		if err != nil {
			return err
		}
		return printCatalog(components, listOutput)
	},
}

/**
 *	Fields displayed in list format
 */
type componentColumns struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UI           string `json:"ui"`
	ReverseProxy bool   `json:"reverse_proxy"`
	Default      bool   `json:"default"`
	Description  string `json:"description"`
}

/**
 * Print the catalog in the requested format
 * @param {models.Catalog} components - Catalog to print
 * @param {string} format - table, json or yaml
 * @returns {error} Unsupported format or encoding errors
 */
func printCatalog(components models.Catalog, format string) error {
	switch format {
	case "json":
		return utils.PrintJSON(os.Stdout, components)
	case "yaml":
		return utils.PrintYAML(os.Stdout, components)
	case "table", "":
	default:
		return fmt.Errorf("unsupported output format '%s'", format)
	}

	if len(components) == 0 {
		fmt.Println("No components found")
		return nil
	}
	ids := make([]string, 0, len(components))
	for id := range components {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var dataList []*orderedmap.OrderedMap
	for _, id := range ids {
		comp := components[id]
		row := componentColumns{
			ID:           id,
			Name:         comp.Name,
			UI:           "-",
			ReverseProxy: comp.IsReverseProxy,
			Default:      comp.DefaultSelected,
			Description:  comp.Description,
		}
		if comp.UI != nil {
			row.UI = fmt.Sprintf("%s:%d", comp.UI.Protocol, comp.UI.PortValue())
		}
		recordMap, _ := utils.StructToOrderedMap(row)
		dataList = append(dataList, recordMap)
	}
	utils.PrintFormat(dataList)
	return nil
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format (table|json|yaml)")
	componentCmd.AddCommand(listCmd)
}
