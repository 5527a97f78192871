package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDir      = ".esq"
	ConfigFile     = "cfg"
	ConfigFileType = "yaml"
)

// Config holds tool locations and search defaults. External tool paths are
// pure configuration: a missing backend is a startup warning and the
// feature degrades at search time, it never aborts the program.
type Config struct {
	EsPath       string `yaml:"es_path"        json:"es_path"`
	ExifToolPath string `yaml:"exiftool_path"  json:"exiftool_path"`
	IndexPath    string `yaml:"index_path"     json:"index_path"`
	HistoryPath  string `yaml:"history_path"   json:"history_path"`
	LogFile      string `yaml:"log_file"       json:"log_file"`

	MaxResults     int  `yaml:"max_results"             json:"max_results"`
	SearchTimeout  int  `yaml:"search_timeout_seconds"  json:"search_timeout_seconds"`
	SearchContent  bool `yaml:"search_content"          json:"search_content"`
	ShowIcons      bool `yaml:"show_icons"              json:"show_icons"`
	UnicodeIcons   bool `yaml:"unicode_icons"           json:"unicode_icons"`
	ShowSize       bool `yaml:"show_size"               json:"show_size"`
	ShowModified   bool `yaml:"show_date_modified"      json:"show_date_modified"`
	ShowCreated    bool `yaml:"show_date_created"       json:"show_date_created"`
	ShowAccessed   bool `yaml:"show_date_accessed"      json:"show_date_accessed"`
	ShowAttributes bool `yaml:"show_attributes"         json:"show_attributes"`
	ShowExtension  bool `yaml:"show_extension"          json:"show_extension"`
}

func defaults(home string) *Config {
	return &Config{
		EsPath:        "es",
		ExifToolPath:  "exiftool",
		IndexPath:     filepath.Join(home, ConfigDir, "index.bleve"),
		HistoryPath:   filepath.Join(home, ConfigDir, "history.db"),
		MaxResults:    1000,
		SearchTimeout: 30,
		ShowIcons:     true,
		UnicodeIcons:  true,
		ShowSize:      true,
		ShowModified:  true,
		ShowExtension: true,
	}
}

// GetConfigPath returns the config file location under home.
func GetConfigPath(home string) string {
	return filepath.Join(home, ConfigDir, ConfigFile+"."+ConfigFileType)
}

// EnsureConfigExists creates the config directory and an empty config file
// under home when missing.
func EnsureConfigExists(home string) error {
	path := GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		return f.Close()
	}
	return nil
}

// FromFile reads the config at path, filling unset fields with defaults.
// A missing or empty file yields the defaults unchanged.
func FromFile(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg := defaults(home)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.ensureDefaults(home)
	cfg.syncViper()
	return cfg, nil
}

func (cfg *Config) ensureDefaults(home string) {
	def := defaults(home)
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = def.SearchTimeout
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = def.HistoryPath
	}
}

func (cfg *Config) syncViper() {
	viper.Set("es_path", cfg.EsPath)
	viper.Set("exiftool_path", cfg.ExifToolPath)
	viper.Set("index_path", cfg.IndexPath)
	viper.Set("max_results", cfg.MaxResults)
	viper.Set("search_content", cfg.SearchContent)
}

// Save writes the config back to its default location.
func (cfg *Config) Save() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	path := GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ValidateTools checks the configured external tools and index. Each
// problem is a warning line; none of them is fatal.
func (cfg *Config) ValidateTools() []string {
	var warnings []string

	if cfg.EsPath == "" {
		warnings = append(warnings, "es path not set; filename search disabled")
	} else if _, err := exec.LookPath(cfg.EsPath); err != nil {
		warnings = append(warnings,
			fmt.Sprintf("es executable %q not found; filename search disabled", cfg.EsPath))
	}

	if cfg.ExifToolPath != "" {
		if _, err := exec.LookPath(cfg.ExifToolPath); err != nil {
			warnings = append(warnings,
				fmt.Sprintf("exiftool %q not found; extended metadata disabled", cfg.ExifToolPath))
		}
	}

	if cfg.IndexPath == "" {
		warnings = append(warnings, "content index path not set; content search disabled")
	} else if _, err := os.Stat(cfg.IndexPath); err != nil {
		warnings = append(warnings,
			fmt.Sprintf("content index %q not found; content search disabled", cfg.IndexPath))
	}

	return warnings
}
