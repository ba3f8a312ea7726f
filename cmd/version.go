package cmd

import (
	"fmt"
	"os"
	"runtime"

	"catalog-keeper/cmd/root"
	"catalog-keeper/internal/env"
	"catalog-keeper/internal/utils"

	"github.com/spf13/cobra"
)

var optVersionJSON bool

type buildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"buildTime,omitempty"`
	BuildTag  string `json:"buildTag,omitempty"`
	CommitID  string `json:"commitId,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:   env.Version,
		BuildTime: env.BuildTime,
		BuildTag:  env.BuildTag,
		CommitID:  env.BuildCommitId,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `The 'version' command shows version details including git commit and build time`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild()
		if optVersionJSON {
			return utils.PrintJSON(os.Stdout, info)
		}
		fmt.Printf("catalog-keeper %s (%s, %s)\n", info.Version, info.Platform, info.GoVersion)
		if info.CommitID != "" {
			fmt.Printf("Commit: %s %s\n", info.CommitID, info.BuildTag)
		}
		if info.BuildTime != "" {
			fmt.Printf("Built: %s\n", info.BuildTime)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&optVersionJSON, "json", false, "print as JSON")
	root.RootCmd.AddCommand(versionCmd)

	versionCmd.Example = `  catalog-keeper version
  catalog-keeper version --json`
}
