package env

import (
	"os"
	"path/filepath"
)

// (default: %USERPROFILE%/.catalog-keeper on Windows, $HOME/.catalog-keeper on Linux)
var DataDir string = GetDataDir()

/**
 * Get data directory path
 * @returns {string} Returns catalog-keeper data directory path
 */
func GetDataDir() string {
	if dir := os.Getenv("CATALOG_KEEPER_HOME"); dir != "" {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".catalog-keeper")
}

// RunDir holds unix sockets of the running server.
func RunDir() string {
	return filepath.Join(DataDir, "run")
}

// Build information, set with -ldflags "-X catalog-keeper/internal/env.Version=..."
var (
	Version       = "dev"
	BuildTime     = ""
	BuildTag      = ""
	BuildCommitId = ""
)
