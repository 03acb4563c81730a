// Package vault resolves where a project keeps its records, schema, and
// views, and wires the pieces a command needs to evaluate a table view.
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	RecordDir  string `json:"record_dir"`  // Directory of markdown records, relative to the vault root.
	SchemaPath string `json:"schema_path"` // Field-class document describing the record type.
	ViewDir    string `json:"view_dir"`    // Directory of persisted views.

	// Resolved paths (computed, not serialized)
	EffectiveCwd  string `json:"-"`
	RecordDirAbs  string `json:"-"`
	SchemaPathAbs string `json:"-"`
	ViewDirAbs    string `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration, matching the vault
// template layout.
func DefaultConfig() Config {
	return Config{
		RecordDir:  "companies",
		SchemaPath: filepath.Join("classes", "company.json"),
		ViewDir:    filepath.Join(".fair", "views"),
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".fair.json"

// Config loading errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrRecordDirEmpty     = errors.New("record_dir cannot be empty")
)

// globalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/fair/config.json if set, otherwise
// ~/.config/fair/config.json. Returns empty string if neither resolves.
func globalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "fair", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "fair", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride   string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath        string            // -c/--config flag value
	RecordDirOverride string            // --record-dir flag value; empty means no override
	Env               map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config
// 3. Project config file at default location (.fair.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if input.RecordDirOverride != "" {
		cfg.RecordDir = input.RecordDirOverride
	}

	if cfg.RecordDir == "" {
		return Config{}, ErrRecordDirEmpty
	}

	cfg.EffectiveCwd = workDir
	cfg.RecordDirAbs = resolve(workDir, cfg.RecordDir)
	cfg.SchemaPathAbs = resolve(workDir, cfg.SchemaPath)
	cfg.ViewDirAbs = resolve(workDir, cfg.ViewDir)

	return cfg, nil
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}

// loadGlobalConfig loads the global user config file if it exists.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	path := globalConfigPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadConfigFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

// loadProjectConfig loads the project config file (.fair.json) or an
// explicit config file.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var (
		cfgFile   string
		mustExist bool
	)

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
	}

	cfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, cfgFile, nil
}

// loadConfigFile loads one config file. If mustExist is false, a missing
// file returns zero config.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: invalid JSONC: %w", ErrConfigInvalid, path, err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: invalid JSON: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.RecordDir != "" {
		base.RecordDir = overlay.RecordDir
	}

	if overlay.SchemaPath != "" {
		base.SchemaPath = overlay.SchemaPath
	}

	if overlay.ViewDir != "" {
		base.ViewDir = overlay.ViewDir
	}

	return base
}
