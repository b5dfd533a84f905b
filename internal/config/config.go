package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultPrefix is the fallback trigger for message commands when slash
// commands are unavailable.
const DefaultPrefix = "!"

// DefaultAuditMemoryLimit is how many audit records the in-memory store keeps
// when Firestore is not configured.
const DefaultAuditMemoryLimit = 5000

type Config struct {
	DiscordToken string
	BotPrefix    string
	OwnerIDs     []string
	LogLevel     string

	StatusAddr string

	FirestoreProjectID  string
	FirestoreDatabaseID string

	SyncSlashCommands bool

	AuditMemoryLimit int

	// Warnings collects recoverable problems found while loading and
	// validating, for the caller to log.
	Warnings []string
}

func Load() (*Config, error) {

	_ = godotenv.Load()

	config := &Config{
		DiscordToken:        getEnvVar("DISCORD_TOKEN", ""),
		BotPrefix:           getEnvVar("BOT_PREFIX", DefaultPrefix),
		OwnerIDs:            splitList(getEnvVar("OWNER_IDS", "")),
		LogLevel:            strings.ToLower(getEnvVar("LOG_LEVEL", "info")),
		StatusAddr:          getEnvVar("STATUS_ADDR", ""),
		FirestoreProjectID:  getEnvVar("FIRESTORE_PROJECT_ID", ""),
		FirestoreDatabaseID: getEnvVar("FIRESTORE_DATABASE_ID", ""),
	}
	config.SyncSlashCommands = config.getEnvBool("SYNC_SLASH_COMMANDS", true)
	config.AuditMemoryLimit = config.getEnvInt("AUDIT_MEMORY_LIMIT", DefaultAuditMemoryLimit)

	if config.DiscordToken == "" {
		return nil, ErrMissingDiscordToken
	}

	return config, nil
}

func getEnvVar(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		c.warn("%s=%q is not a boolean, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		c.warn("%s=%q is not a positive integer, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func (c *Config) warn(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// AuditEnabled reports whether command completions are persisted to Firestore.
func (c *Config) AuditEnabled() bool {
	return c.FirestoreProjectID != ""
}

func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return ErrMissingDiscordToken
	}

	if c.BotPrefix == "" {
		c.warn("BOT_PREFIX is empty, using default '%s'", DefaultPrefix)
		c.BotPrefix = DefaultPrefix
	}

	switch c.LogLevel {
	case "":
		c.LogLevel = "info"
	case "debug", "info", "warn", "warning", "error", "critical":
	default:
		return ErrInvalidLogLevel
	}

	if c.FirestoreProjectID != "" && c.FirestoreDatabaseID == "" {
		return ErrMissingFirestoreDatabase
	}

	if c.AuditMemoryLimit <= 0 {
		c.AuditMemoryLimit = DefaultAuditMemoryLimit
	}

	return nil
}
