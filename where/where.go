// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidplay-cli/vidplay/constant"
	"github.com/vidplay-cli/vidplay/filesystem"
	"github.com/vidplay-cli/vidplay/key"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "VIDPLAY_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the primary configuration directory, honouring VIDPLAY_CONFIG_PATH first.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Vidplay))
}

// Cache resolves the persistent cache directory, falling back to ./cache when the platform has none.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Vidplay))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Assets resolves the directory bundled asset paths are relative to.
// The player.assets_dir setting wins over the default under the config directory.
func Assets() string {
	if dir := viper.GetString(key.PlayerAssetsDir); dir != "" {
		return ensureDir(dir)
	}
	return ensureDir(filepath.Join(Config(), "assets"))
}

// History resolves the resume-position registry file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Manifests resolves the hosting manifest cache file.
func Manifests() string {
	return filepath.Join(Cache(), "manifests.json")
}

// Temp resolves a volatile directory for IPC sockets and other transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Vidplay))
}
