package main

import (
	"os"

	_ "catalog-keeper/cmd"
	"catalog-keeper/cmd/root"
	"catalog-keeper/internal/logger"
)

func main() {
	err := root.RootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
