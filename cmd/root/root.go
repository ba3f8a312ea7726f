package root

import (
	"catalog-keeper/internal/config"
	"catalog-keeper/internal/logger"

	"github.com/spf13/cobra"
)

var (
	configFile string
	storePath  string
	Remote     bool
)

var RootCmd = &cobra.Command{
	Use:          "catalog-keeper",
	Short:        "Homelab component catalog manager",
	Long:         `catalog-keeper validates and stores the component catalog (components_metadata.json) and serves it over a REST API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadConfig(configFile); err != nil {
			return err
		}
		if storePath != "" {
			config.Config.Store.Path = storePath
		}
		logger.InitLogger(&config.Config.Log, cmd.Name() == "server")
		return nil
	},
}

// StorePath returns the catalog document used by this invocation.
func StorePath() string {
	return config.Config.Store.Path
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./config.yaml or $CATALOG_KEEPER_HOME/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&storePath, "data", "d", "", "catalog document path, overrides store.path")
	RootCmd.PersistentFlags().BoolVarP(&Remote, "remote", "r", false, "operate through a running catalog-keeper server")
}
