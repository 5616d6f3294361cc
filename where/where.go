// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/playtrail/playtrail/constant"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "PLAYTRAIL_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It follows os.UserConfigDir (XDG_CONFIG_HOME on Linux).
// Direct override: The path resolution can be explicitly specified via the PLAYTRAIL_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Playtrail))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Playtrail))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Catalog resolves the content catalog file. The catalog.path setting wins when set.
func Catalog() string {
	if custom := viper.GetString(key.CatalogPath); custom != "" {
		return custom
	}
	return filepath.Join(Config(), "catalog.toml")
}

// Progress resolves the JSON file holding the per-item watch progress mapping.
func Progress() string {
	return filepath.Join(Config(), "progress.json")
}

// ProgressDB resolves the sqlite database used when progress.backend is "sqlite".
func ProgressDB() string {
	return filepath.Join(Config(), "progress.db")
}

// ProgressLock resolves the lock file guarding progress read-modify-write cycles across processes.
func ProgressLock() string {
	return filepath.Join(Temp(), "progress.lock")
}

// History resolves the last-opened playlist registry.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Temp resolves a volatile filesystem path for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Playtrail))
}
