package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "TXNLOAD_"

// ApplyEnvConfig applies configuration from environment variables (TXNLOAD_*).
// Values override file config but not flags that were explicitly set.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	s.setString("file", env("FILE"), &cfg.File)
	s.setString("table", env("TABLE"), &cfg.Table)
	s.setString("profile", env("PROFILE"), &cfg.Profile)
	s.setString("region", env("REGION"), &cfg.Region)
	s.setString("endpoint", env("ENDPOINT"), &cfg.Endpoint)
	s.setString("report", env("REPORT"), &cfg.ReportPath)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", env("LOG_FORMAT"), &cfg.LogFormat)

	if err := s.setDuration("retry-initial", env("RETRY_INITIAL"), &cfg.RetryInitial); err != nil {
		return err
	}
	if err := s.setDuration("retry-max", env("RETRY_MAX"), &cfg.RetryMax); err != nil {
		return err
	}
	if err := s.setDuration("debounce", env("DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	if err := s.setIntFromString("batch-size", env("BATCH_SIZE"), &cfg.BatchSize); err != nil {
		return err
	}
	if err := s.setIntFromString("sdk-max-attempts", env("SDK_MAX_ATTEMPTS"), &cfg.SDKMaxAttempts); err != nil {
		return err
	}
	if err := s.setIntFromString("max-retries", env("MAX_RETRIES"), &cfg.MaxRetries); err != nil {
		return err
	}

	s.setBoolFromString("watch", env("WATCH"), &cfg.Watch)

	return nil
}
