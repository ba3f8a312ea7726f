package misc

import (
	"errors"
	"fmt"

	"catalog-keeper/cmd/root"
	"catalog-keeper/internal/models"
	"catalog-keeper/internal/rpc"
	"catalog-keeper/internal/utils"
	"catalog-keeper/services"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var errInvalidCatalog = errors.New("catalog has rule violations")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify every rule over the whole catalog",
	Long:  `Load the catalog and re-run all validation rules against every component. Exits non-zero when a violation is found.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runCheck()
		if err != nil {
			return err
		}
		displayCheckResults(result)
		if !result.Valid {
			return errInvalidCatalog
		}
		return nil
	},
}

/**
 * Verify the catalog locally or through the server
 * @returns {models.CheckResponse} Verification result
 * @returns {error} Load errors (local) or API errors (remote)
 */
func runCheck() (models.CheckResponse, error) {
	if root.Remote {
		client := rpc.NewCatalogClient(rpc.NewHTTPClient(nil))
		defer client.Close()
		return client.Check()
	}
	store, err := services.LoadComponentStore(root.StorePath())
	if err != nil {
		return models.CheckResponse{}, err
	}
	return services.BuildCheckResponse(store), nil
}

type violationColumns struct {
	ID      string `json:"id"`
	Rule    string `json:"rule"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func displayCheckResults(result models.CheckResponse) {
	fmt.Printf("Catalog: %s (%d components)\n", result.Path, result.Components)
	if result.Valid {
		fmt.Println("✅ All components are valid")
		return
	}
	fmt.Printf("❌ %d violations found\n", len(result.Violations))
	var dataList []*orderedmap.OrderedMap
	for _, v := range result.Violations {
		row, _ := utils.StructToOrderedMap(violationColumns{
			ID:      v.ID,
			Rule:    v.Rule,
			Field:   v.Field,
			Message: v.Message,
		})
		dataList = append(dataList, row)
	}
	utils.PrintFormat(dataList)
}

func init() {
	root.RootCmd.AddCommand(checkCmd)

	checkCmd.Example = `  catalog-keeper check
  catalog-keeper check --remote`
}
