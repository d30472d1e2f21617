// Package platform resolves the per-user locations of choreboard's files.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	defaultAppName = "choreboard"
	devSuffix      = "-dev"
	configFileName = "config.toml"
	dbFileExt      = ".db"
	logDirName     = "log"
)

var errEmptyBaseDirs = errors.New("empty base dirs")

// Paths is where one choreboard install keeps its TOML config and its sqlite
// chore store. LogDir sits next to the store.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
	LogDir     string
}

// Options selects the install. AppName lets several boards share a machine,
// DevMode keeps development data apart from the household's real board.
type Options struct {
	AppName string
	DevMode bool
}

// baseOverride names the env vars that relocate the config and data bases on one OS.
type baseOverride struct {
	configVar string
	dataVar   string
}

// overridesByOS lists the env overrides honored per GOOS. macOS and anything
// unlisted keep the user dirs reported by the os package.
var overridesByOS = map[string]baseOverride{
	"linux":   {configVar: "XDG_CONFIG_HOME", dataVar: "XDG_DATA_HOME"},
	"windows": {configVar: "APPDATA", dataVar: "LOCALAPPDATA"},
}

// DefaultPaths returns the paths of the default board.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{AppName: defaultAppName})
}

// DefaultPathsWithOptions resolves the paths of one board for the running OS.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	appName := strings.TrimSpace(opts.AppName)
	if appName == "" {
		appName = defaultAppName
	}
	if opts.DevMode {
		appName += devSuffix
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataDir, err := userDataDir(runtime.GOOS, configDir)
	if err != nil {
		return Paths{}, err
	}

	env := map[string]string{}
	if override, ok := overridesByOS[runtime.GOOS]; ok {
		env[override.configVar] = os.Getenv(override.configVar)
		env[override.dataVar] = os.Getenv(override.dataVar)
	}
	return PathsFor(runtime.GOOS, env, configDir, dataDir, appName)
}

// userDataDir picks the base for the chore database when no env override is set.
func userDataDir(goos, configDir string) (string, error) {
	switch goos {
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("user home dir: %w", err)
		}
		return filepath.Join(home, ".local", "share"), nil
	case "windows":
		if v := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); v != "" {
			return v, nil
		}
	}
	return configDir, nil
}

// PathsFor lays out one board's files under explicit base dirs. Non-empty env
// overrides for goos replace the bases.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir, appName string) (Paths, error) {
	if userConfigDir == "" || userDataDir == "" {
		return Paths{}, errEmptyBaseDirs
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, fmt.Errorf("empty app name")
	}
	if strings.ContainsAny(appName, `/\`) || appName == "." || appName == ".." {
		return Paths{}, fmt.Errorf("app name %q must be a single path segment", appName)
	}

	configBase, dataBase := userConfigDir, userDataDir
	if override, ok := overridesByOS[goos]; ok {
		if v := env[override.configVar]; v != "" {
			configBase = v
		}
		if v := env[override.dataVar]; v != "" {
			dataBase = v
		}
	}

	boardData := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, configFileName),
		DataDir:    boardData,
		DBPath:     filepath.Join(boardData, appName+dbFileExt),
		LogDir:     filepath.Join(boardData, logDirName),
	}, nil
}
