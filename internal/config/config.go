package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	SearchPaths  []string     `json:"search_paths"`  // Extra Windows Kits roots to scan
	MinVersion   string       `json:"min_version"`   // Default lower bound for `winsdk list`
	UpdateConfig UpdateConfig `json:"update_config"` // Auto-update configuration
	configPath   string
}

// UpdateConfig holds settings for auto-update feature
type UpdateConfig struct {
	Enabled     bool      `json:"enabled"`      // Master toggle for update functionality
	AutoCheck   bool      `json:"auto_check"`   // Check for updates on startup
	LastCheck   time.Time `json:"last_check"`   // Last time update check was performed
	SkipVersion string    `json:"skip_version"` // Version user chose to skip
}

// Load loads the configuration from the user's config directory
func Load() (*Config, error) {
	configPath := getConfigPath()

	cfg := &Config{
		SearchPaths: make([]string, 0),
		UpdateConfig: UpdateConfig{
			Enabled:   true,
			AutoCheck: true,
		},
		configPath: configPath,
	}

	// Missing file means defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Files written by PowerShell's Set-Content -Encoding UTF8 start with a BOM
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	cleaned := make([]string, 0, len(cfg.SearchPaths))
	for _, p := range cfg.SearchPaths {
		p = normalize(p)
		if p == "" || containsFold(cleaned, p) {
			continue
		}
		cleaned = append(cleaned, p)
	}
	cfg.SearchPaths = cleaned
	cfg.MinVersion = strings.TrimSpace(cfg.MinVersion)

	cfg.configPath = configPath
	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// write then rename so a run exiting mid-save never leaves a truncated file
	tmp := c.configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.configPath)
}

// Path returns the location of the configuration file
func (c *Config) Path() string {
	return c.configPath
}

// AddSearchPath adds a Windows Kits root to scan. It reports whether the list changed.
func (c *Config) AddSearchPath(path string) bool {
	path = normalize(path)
	if path == "" || containsFold(c.SearchPaths, path) {
		return false
	}

	c.SearchPaths = append(c.SearchPaths, path)
	return true
}

// RemoveSearchPath removes a search path. It reports whether the list changed.
func (c *Config) RemoveSearchPath(path string) bool {
	path = normalize(path)

	for i, p := range c.SearchPaths {
		if strings.EqualFold(p, path) {
			c.SearchPaths = append(c.SearchPaths[:i], c.SearchPaths[i+1:]...)
			return true
		}
	}
	return false
}

// HasSearchPath checks if a path exists in search paths
func (c *Config) HasSearchPath(path string) bool {
	return containsFold(c.SearchPaths, normalize(path))
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	path = filepath.Clean(path)
	if path == "." {
		return ""
	}
	return path
}

func containsFold(list []string, s string) bool {
	for _, p := range list {
		if strings.EqualFold(p, s) {
			return true
		}
	}
	return false
}

// getConfigPath returns the path to the configuration file
// following the XDG Base Directory layout
func getConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "winsdk", "winsdk.json")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return filepath.Join(homeDir, ".config", "winsdk", "winsdk.json")
}
