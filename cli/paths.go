// paths.go - Centralized application path management
// Preferences, caches, tokens and logs live under ~/.genoview unless the
// user moves the data directory elsewhere
package main

import (
	"log"
	"os"
	"path/filepath"
)

// AppHomeDir is the name of the application's home directory
const AppHomeDir = ".genoview"

// GetAppHome returns the application home directory (~/.genoview)
// Creates it if it doesn't exist
func GetAppHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory: %v", err)
		return "."
	}

	appHome := filepath.Join(home, AppHomeDir)

	// Ensure it exists
	if err := os.MkdirAll(appHome, 0755); err != nil {
		log.Printf("Warning: Could not create app home directory %s: %v", appHome, err)
	}

	return appHome
}

// GetPrefsPath returns the path to prefs.yaml (~/.genoview/prefs.yaml)
func GetPrefsPath() string {
	return filepath.Join(GetAppHome(), "prefs.yaml")
}

// GetDataDir returns the default data directory (~/.genoview/genoview)
func GetDataDir() string {
	return filepath.Join(GetAppHome(), "genoview")
}

// GetGenomeCacheDir returns the cached genome directory inside dataDir
func GetGenomeCacheDir(dataDir string) string {
	return filepath.Join(dataDir, "genomes")
}

// GetCramCacheDir returns the default CRAM reference cache (~/.genoview/cram)
func GetCramCacheDir() string {
	return filepath.Join(GetAppHome(), "cram")
}

// GetTokenPath returns the saved OAuth token inside dataDir
func GetTokenPath(dataDir string) string {
	return filepath.Join(dataDir, "oauth", "token.json")
}

// GetLogsDir returns the logs directory (~/.genoview/logs)
func GetLogsDir() string {
	return filepath.Join(GetAppHome(), "logs")
}
