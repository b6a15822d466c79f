package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	CapacityPollInterval time.Duration // Interval between capacity state checks
	CapacityPollTimeout  time.Duration // Total budget for the capacity to reach Active
	ScanPollInterval     time.Duration // Interval between scan run status checks
	ScanPollTimeout      time.Duration // Total budget for a scan run to finish
	HTTPTimeout          time.Duration // Per-request timeout for control-plane calls
	RetryMaxAttempts     int           // Maximum attempts per step for transient failures
	RetryBaseDelay       time.Duration // Initial backoff delay between retries
	RetryMaxDelay        time.Duration // Backoff ceiling
	NotReadyInterval     time.Duration // Fixed wait between not-ready retries
	NotReadyBudget       time.Duration // Total time allowed for not-ready waiting
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - LAKEFORGE_INTERVAL_CAPACITY_POLL (default: 20s)
//   - LAKEFORGE_TIMEOUT_CAPACITY_POLL (default: 15m)
//   - LAKEFORGE_INTERVAL_SCAN_POLL (default: 30s)
//   - LAKEFORGE_TIMEOUT_SCAN_POLL (default: 30m)
//   - LAKEFORGE_TIMEOUT_HTTP (default: 2m)
//   - LAKEFORGE_RETRY_MAX_ATTEMPTS (default: 5)
//   - LAKEFORGE_RETRY_BASE_DELAY (default: 2s)
//   - LAKEFORGE_RETRY_MAX_DELAY (default: 60s)
//   - LAKEFORGE_NOTREADY_INTERVAL (default: 30s)
//   - LAKEFORGE_NOTREADY_BUDGET (default: 10m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		CapacityPollInterval: parseDuration("LAKEFORGE_INTERVAL_CAPACITY_POLL", 20*time.Second),
		CapacityPollTimeout:  parseDuration("LAKEFORGE_TIMEOUT_CAPACITY_POLL", 15*time.Minute),
		ScanPollInterval:     parseDuration("LAKEFORGE_INTERVAL_SCAN_POLL", 30*time.Second),
		ScanPollTimeout:      parseDuration("LAKEFORGE_TIMEOUT_SCAN_POLL", 30*time.Minute),
		HTTPTimeout:          parseDuration("LAKEFORGE_TIMEOUT_HTTP", 2*time.Minute),
		RetryMaxAttempts:     parseInt("LAKEFORGE_RETRY_MAX_ATTEMPTS", 5),
		RetryBaseDelay:       parseDuration("LAKEFORGE_RETRY_BASE_DELAY", 2*time.Second),
		RetryMaxDelay:        parseDuration("LAKEFORGE_RETRY_MAX_DELAY", 60*time.Second),
		NotReadyInterval:     parseDuration("LAKEFORGE_NOTREADY_INTERVAL", 30*time.Second),
		NotReadyBudget:       parseDuration("LAKEFORGE_NOTREADY_BUDGET", 10*time.Minute),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
