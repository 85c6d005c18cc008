package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Data          DataConfig
	MPD           MPDConfig
	UI            UIConfig
	Logging       LoggingConfig
	Notifications NotificationsConfig
	Library       LibraryConfig
}

// DataConfig holds storage locations.
type DataConfig struct {
	Dir string
}

// MPDConfig holds playback backend settings.
type MPDConfig struct {
	Address  string
	Password string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme        string
	CompactWidth int
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string
	RetainDays int
}

// NotificationsConfig holds host notification settings.
type NotificationsConfig struct {
	Enabled         bool
	Tool            string
	SettingsCommand string
}

// LibraryConfig holds scanner settings.
type LibraryConfig struct {
	Extensions []string
	Excludes   []string
}

// Load reads configuration from file and env. Env var overrides use prefix AUDION_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("data.dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "audion"))
	v.SetDefault("mpd.address", "127.0.0.1:6600")
	v.SetDefault("mpd.password", "")
	v.SetDefault("ui.theme", "mocha")
	v.SetDefault("ui.compact_width", 80)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.retain_days", 3)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.tool", "")
	v.SetDefault("notifications.settings_command", "")
	v.SetDefault("library.extensions", []string{".mp3", ".flac", ".ogg", ".m4a"})
	v.SetDefault("library.excludes", []string{})

	v.SetConfigType("toml")

	cfgPath := os.Getenv("AUDION_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "audion"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("AUDION")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// DatabasePath returns the sqlite file location under the data dir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.Data.Dir, "audion.db")
}

// CoversDir returns the file-backed cover storage location.
func (c Config) CoversDir() string {
	return filepath.Join(c.Data.Dir, "covers")
}

// LogsDir returns the log file location.
func (c Config) LogsDir() string {
	return filepath.Join(c.Data.Dir, "logs")
}

// Path returns the config file location, honoring AUDION_CONFIG.
func Path() string {
	if p := os.Getenv("AUDION_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "audion", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("data.dir", cfg.Data.Dir)
	v.Set("mpd.address", cfg.MPD.Address)
	v.Set("mpd.password", cfg.MPD.Password)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.compact_width", cfg.UI.CompactWidth)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.retain_days", cfg.Logging.RetainDays)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.tool", cfg.Notifications.Tool)
	v.Set("notifications.settings_command", cfg.Notifications.SettingsCommand)
	v.Set("library.extensions", cfg.Library.Extensions)
	v.Set("library.excludes", cfg.Library.Excludes)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
