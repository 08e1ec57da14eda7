package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/txnload/internal/domain"
	"github.com/bft-labs/txnload/internal/retry"
	"github.com/bft-labs/txnload/internal/watch"
)

// Defaults for the import target.
const (
	DefaultFile    = "bank_transactions_data.json"
	DefaultTable   = "Transaction_Information"
	DefaultProfile = "CS620_C1_Capstone_Rex"
	DefaultRegion  = "us-east-1"
)

// Config holds CLI configuration for txnload.
type Config struct {
	File  string
	Table string

	Profile        string
	Region         string
	Endpoint       string
	SDKMaxAttempts int

	BatchSize    int
	MaxRetries   int
	RetryInitial time.Duration
	RetryMax     time.Duration

	ReportPath string
	Watch      bool
	Debounce   time.Duration

	LogLevel  string
	LogFormat string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		File:         DefaultFile,
		Table:        DefaultTable,
		Profile:      DefaultProfile,
		Region:       DefaultRegion,
		BatchSize:    domain.MaxBatchWriteItems,
		MaxRetries:   retry.DefaultMaxAttempts,
		RetryInitial: retry.DefaultInitial,
		RetryMax:     retry.DefaultMax,
		Debounce:     watch.DefaultDebounce,
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.File == "" {
		return invalid("file is required")
	}
	if c.Table == "" {
		return invalid("table is required")
	}
	if c.Region == "" {
		return invalid("region is required")
	}
	if c.BatchSize < 1 || c.BatchSize > domain.MaxBatchWriteItems {
		return invalid(fmt.Sprintf("batch size must be between 1 and %d", domain.MaxBatchWriteItems))
	}
	if c.MaxRetries < 0 {
		return invalid("max retries must not be negative")
	}
	if c.RetryInitial < 0 {
		return invalid("retry initial delay must not be negative")
	}
	if c.RetryMax < c.RetryInitial {
		return invalid("retry max delay must not be below the initial delay")
	}
	if c.SDKMaxAttempts < 0 {
		return invalid("sdk max attempts must not be negative")
	}

	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return invalid(fmt.Sprintf("log format %q must be console or json", c.LogFormat))
	}

	// Ensure no trailing slash
	c.Endpoint = strings.TrimSuffix(c.Endpoint, "/")

	return nil
}

// RetryPolicy returns the resubmission policy for unprocessed items.
func (c Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.MaxRetries,
		Initial:     c.RetryInitial,
		Max:         c.RetryMax,
		Jitter:      retry.DefaultJitter,
	}
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, msg)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setCount sets an int value that may legitimately be zero.
func (s *configSetter) setCount(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination.
// Range checks are left to Validate.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
