package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	File           string `toml:"file"`
	Table          string `toml:"table"`
	Profile        string `toml:"profile"`
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	SDKMaxAttempts int    `toml:"sdk_max_attempts"`
	BatchSize      int    `toml:"batch_size"`
	MaxRetries     *int   `toml:"max_retries"`
	RetryInitial   string `toml:"retry_initial"`
	RetryMax       string `toml:"retry_max"`
	ReportPath     string `toml:"report"`
	Watch          *bool  `toml:"watch"`
	Debounce       string `toml:"debounce"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.txnload/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".txnload", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", fc.File, &cfg.File)
	s.setString("table", fc.Table, &cfg.Table)
	s.setString("profile", fc.Profile, &cfg.Profile)
	s.setString("region", fc.Region, &cfg.Region)
	s.setString("endpoint", fc.Endpoint, &cfg.Endpoint)
	s.setString("report", fc.ReportPath, &cfg.ReportPath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)

	if err := s.setDuration("retry-initial", fc.RetryInitial, &cfg.RetryInitial); err != nil {
		return err
	}
	if err := s.setDuration("retry-max", fc.RetryMax, &cfg.RetryMax); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setInt("batch-size", fc.BatchSize, &cfg.BatchSize)
	s.setInt("sdk-max-attempts", fc.SDKMaxAttempts, &cfg.SDKMaxAttempts)
	s.setCount("max-retries", fc.MaxRetries, &cfg.MaxRetries)

	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
