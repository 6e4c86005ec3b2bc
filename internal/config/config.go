package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// accountEnvPrefix is the prefix for account registry entries: every
// UP_ACCOUNT_<KEY>=<account-id> variable registers one account under the
// lowercased key.
const accountEnvPrefix = "UP_ACCOUNT_"

type Config struct {
	// HTTP Server
	Port string

	// Up API
	UpAPIToken string
	UpBaseURL  string

	// Account registry: lowercased key -> Up account identifier.
	Accounts map[string]string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Export target for the worker ("sheets" or "memory").
	ExportTarget string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Search response cache
	CacheSize int
	CacheTTL  time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		UpAPIToken: getEnv("UP_API_TOKEN", ""),
		UpBaseURL:  getEnv("UP_BASE_URL", ""),

		Accounts: loadAccounts(os.Environ()),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "updash"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "export_transactions"),

		ExportTarget: getEnv("EXPORT_TARGET", "memory"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		CacheSize: getEnvInt("CACHE_SIZE", 128),
		CacheTTL:  getEnvDuration("CACHE_TTL", 60*time.Second),
	}

	return cfg
}

// loadAccounts scans the environment for UP_ACCOUNT_<KEY> entries. Keys are
// lowercased so the registry lookup is case-stable regardless of env naming.
func loadAccounts(environ []string) map[string]string {
	accounts := make(map[string]string)
	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, accountEnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, accountEnvPrefix))
		if key == "" {
			continue
		}
		accounts[key] = strings.TrimSpace(value)
	}
	return accounts
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.UpAPIToken == "" {
		errors = append(errors, "UP_API_TOKEN is required")
	}

	if len(c.Accounts) == 0 {
		errors = append(errors, "no accounts configured: set at least one UP_ACCOUNT_<KEY> variable")
	}
	for key, id := range c.Accounts {
		if id == "" {
			errors = append(errors, fmt.Sprintf("account '%s' has an empty identifier", key))
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate export target
	validTargets := []string{"memory", "sheets"}
	isValidTarget := false
	for _, target := range validTargets {
		if c.ExportTarget == target {
			isValidTarget = true
			break
		}
	}
	if !isValidTarget {
		errors = append(errors, fmt.Sprintf("invalid export target '%s': must be one of %v", c.ExportTarget, validTargets))
	}

	// Validate Google Sheets configuration if target is sheets
	if c.ExportTarget == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets export target")
		}

		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasJSON && !hasFile {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets export target")
		}

		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate cache configuration
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	} else if c.CacheSize > 100000 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at most 100000", c.CacheSize))
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 24 hours", c.CacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
