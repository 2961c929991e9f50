// Package config loads runtime settings from a YAML or JSON file, a .env file
// and ANALYSIS_TOOLS_* environment variables, in increasing precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "analysis-tools.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ANALYSIS_TOOLS_"

// Config is the full runtime configuration.
type Config struct {
	DataDir   string             `yaml:"data_dir" json:"data_dir" mapstructure:"data_dir"`
	LogLevel  string             `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	LogFormat string             `yaml:"log_format" json:"log_format" mapstructure:"log_format"`
	Store     StoreConfig        `yaml:"store" json:"store" mapstructure:"store"`
	HTTP      HTTPConfig         `yaml:"http" json:"http" mapstructure:"http"`
	MCP       MCPConfig          `yaml:"mcp" json:"mcp" mapstructure:"mcp"`
	Cache     CacheConfig        `yaml:"cache" json:"cache" mapstructure:"cache"`
	Watch     WatchConfig        `yaml:"watch" json:"watch" mapstructure:"watch"`
	Plots     domain.PlotOptions `yaml:"plots" json:"plots" mapstructure:"plots"`
}

// StoreConfig selects and configures the session backend.
type StoreConfig struct {
	Backend    string        `yaml:"backend" json:"backend" mapstructure:"backend"`
	Dir        string        `yaml:"dir" json:"dir" mapstructure:"dir"`
	RedisURL   string        `yaml:"redis_url" json:"redis_url" mapstructure:"redis_url"`
	Prefix     string        `yaml:"prefix" json:"prefix" mapstructure:"prefix"`
	TTL        time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`
	SQLitePath string        `yaml:"sqlite_path" json:"sqlite_path" mapstructure:"sqlite_path"`
}

type HTTPConfig struct {
	Port int `yaml:"port" json:"port" mapstructure:"port"`
}

type MCPConfig struct {
	Transport string `yaml:"transport" json:"transport" mapstructure:"transport"`
	Port      int    `yaml:"port" json:"port" mapstructure:"port"`
}

type CacheConfig struct {
	Size int `yaml:"size" json:"size" mapstructure:"size"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce" mapstructure:"debounce"`
}

// Default returns the built-in configuration.
// The data directory falls back to the user's home directory.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:   home,
		LogLevel:  "info",
		LogFormat: "text",
		Store: StoreConfig{
			Backend:    "memory",
			Dir:        ".analysis-tools/sessions",
			Prefix:     "analysis-tools:",
			SQLitePath: ".analysis-tools/sessions.db",
		},
		HTTP:  HTTPConfig{Port: 8080},
		MCP:   MCPConfig{Transport: "stdio", Port: 8081},
		Cache: CacheConfig{Size: 64},
		Watch: WatchConfig{Debounce: 250 * time.Millisecond},
		Plots: domain.DefaultPlotOptions(),
	}
}

// Load builds the configuration. An empty path means DefaultFile, and a
// missing default file is not an error. An explicit path must exist.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := readFile(path, &cfg); err != nil {
		if !explicit && os.IsNotExist(err) {
			err = nil
		}
		if err != nil {
			return cfg, err
		}
	}

	if err := Apply(&cfg, envOverrides()); err != nil {
		return cfg, fmt.Errorf("env overrides: %w", err)
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Apply merges loosely typed overrides into cfg. Keys follow the mapstructure
// tags; nested sections are nested maps. Strings are converted as needed.
func Apply(cfg *Config, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(overrides)
}

var envKeys = map[string][]string{
	"DATA_DIR":       {"data_dir"},
	"LOG_LEVEL":      {"log_level"},
	"LOG_FORMAT":     {"log_format"},
	"STORE":          {"store", "backend"},
	"STORE_DIR":      {"store", "dir"},
	"REDIS_URL":      {"store", "redis_url"},
	"STORE_PREFIX":   {"store", "prefix"},
	"STORE_TTL":      {"store", "ttl"},
	"SQLITE_PATH":    {"store", "sqlite_path"},
	"HTTP_PORT":      {"http", "port"},
	"MCP_TRANSPORT":  {"mcp", "transport"},
	"MCP_PORT":       {"mcp", "port"},
	"CACHE_SIZE":     {"cache", "size"},
	"WATCH_DEBOUNCE": {"watch", "debounce"},
	"PLOT_TS":        {"plots", "ts"},
	"PLOT_SCATTER":   {"plots", "scatter"},
	"PLOT_FFT":       {"plots", "fft"},
}

func envOverrides() map[string]any {
	out := make(map[string]any)
	for suffix, keys := range envKeys {
		v, ok := os.LookupEnv(EnvPrefix + suffix)
		if !ok {
			continue
		}
		setNested(out, keys, strings.TrimSpace(v))
	}
	return out
}

func setNested(m map[string]any, keys []string, v any) {
	for _, k := range keys[:len(keys)-1] {
		sub, ok := m[k].(map[string]any)
		if !ok {
			sub = make(map[string]any)
			m[k] = sub
		}
		m = sub
	}
	m[keys[len(keys)-1]] = v
}
