// Package config provides configuration management for weft with Viper integration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Standard directory permissions (rwxr-xr-x)
const dirPerm = 0755

// Config represents the complete configuration for weft.
type Config struct {
	Viewport ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	Pump     PumpConfig     `mapstructure:"pump" yaml:"pump"`
	History  HistoryConfig  `mapstructure:"history" yaml:"history"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Homepage string         `mapstructure:"homepage" yaml:"homepage"`
}

// ViewportConfig holds the initial widget viewport.
type ViewportConfig struct {
	Width       int     `mapstructure:"width" yaml:"width"`
	Height      int     `mapstructure:"height" yaml:"height"`
	ScaleFactor float64 `mapstructure:"scale_factor" yaml:"scale_factor"`
}

// PumpConfig tunes the engine task pump.
type PumpConfig struct {
	// BatchSize bounds the work done per main-loop iteration so the UI
	// never starves behind a busy engine.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// HistoryConfig holds visit-history storage configuration.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxEntries int    `mapstructure:"max_entries" yaml:"max_entries"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Configure Viper - supports yaml, json, toml automatically
	v.SetConfigName("config")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	v.SetEnvPrefix("WEFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"viewport.width":        "VIEWPORT_WIDTH",
		"viewport.height":       "VIEWPORT_HEIGHT",
		"viewport.scale_factor": "VIEWPORT_SCALE_FACTOR",
		"pump.batch_size":       "PUMP_BATCH_SIZE",
		"history.enabled":       "HISTORY_ENABLED",
		"history.path":          "HISTORY_PATH",
		"history.max_entries":   "HISTORY_MAX_ENTRIES",
		"logging.level":         "LOG_LEVEL",
		"logging.format":        "LOG_FORMAT",
		"homepage":              "HOMEPAGE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "WEFT_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file is fine: defaults plus environment apply.
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.History.Path == "" {
		dbPath, err := GetHistoryFile()
		if err != nil {
			return fmt.Errorf("failed to get history path: %w", err)
		}
		config.History.Path = dbPath
	}

	normalize(config)

	m.config = config
	return nil
}

// normalize clamps values that would break the bridge if taken verbatim.
func normalize(c *Config) {
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = defaultViewportWidth
	}
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = defaultViewportHeight
	}
	if c.Viewport.ScaleFactor <= 0 {
		c.Viewport.ScaleFactor = 1.0
	}
	if c.Pump.BatchSize <= 0 {
		c.Pump.BatchSize = defaultPumpBatch
	}
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = defaultHistoryMaxEntries
	}
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// Watch starts watching the config file for changes and reloads automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnChange registers a callback invoked after every successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

func (m *Manager) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.History.Path == "" {
		config.History.Path = m.config.History.Path
	}
	normalize(config)

	m.config = config
	return nil
}
